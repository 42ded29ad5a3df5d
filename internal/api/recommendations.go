// Package api defines the HTTP routes served by the scout daemon.
package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/scoutmcp/scout/internal/recommend"
)

// Recommender produces ranked server recommendations for free-form requests.
type Recommender interface {
	Recommend(ctx context.Context, query string) recommend.Result
}

// RecommendationRequest represents the incoming API request for a recommendation.
type RecommendationRequest struct {
	Body struct {
		Query string `doc:"Natural language description of the task" example:"take a screenshot of a website" json:"query" minLength:"1"`
	}
}

// RecommendationResponse represents the wrapped API response for a recommendation.
type RecommendationResponse struct {
	Body recommend.Result
}

// RegisterRecommendationRoutes sets up recommendation API endpoints.
func RegisterRecommendationRoutes(routerAPI huma.API, engine Recommender, apiPathPrefix string) {
	recAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Recommendations"}

	huma.Register(
		recAPI,
		huma.Operation{
			OperationID: "createRecommendation",
			Method:      http.MethodPost,
			Summary:     "Recommend servers for a task",
			Tags:        tags,
		},
		func(ctx context.Context, input *RecommendationRequest) (*RecommendationResponse, error) {
			resp := &RecommendationResponse{}
			resp.Body = engine.Recommend(ctx, input.Body.Query)

			return resp, nil
		},
	)
}
