// Package recommend implements the recommendation engine: it turns a
// free-form request into catalog search keywords, fans out searches,
// deduplicates and ranks the union, and reports a ranked recommendation with
// a confidence signal. Every stage has an AI-assisted path and a
// deterministic fallback; no stage failure aborts the pipeline.
package recommend

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/scoutmcp/scout/internal/catalog"
	"github.com/scoutmcp/scout/internal/completion"
	"github.com/scoutmcp/scout/internal/errors"
)

const (
	engineName = "recommend"

	// maxSearchKeywords bounds the search fan-out to cap outbound cost.
	maxSearchKeywords = 3

	// maxRecommendations bounds the final result.
	maxRecommendations = 5

	// searchPageSize is how many candidates each keyword search requests.
	searchPageSize = 10

	// heuristicConfidenceScale discounts confidence when the deterministic
	// ranking fallback ran instead of the completion service.
	heuristicConfidenceScale = 0.8

	// DefaultCompletionTimeout bounds each completion service call. A hung
	// service times out and the stage falls back to its deterministic path.
	DefaultCompletionTimeout = 15 * time.Second
)

// Searcher is the catalog capability the engine needs.
type Searcher interface {
	// Search queries the catalog, degrading to an empty result on failure.
	Search(ctx context.Context, query string, opts catalog.SearchOptions) catalog.SearchResult
}

// Engine produces server recommendations for natural-language requests.
// NewEngine should be used to create instances of Engine.
type Engine struct {
	catalog           Searcher
	completion        completion.Client
	completionTimeout time.Duration
	logger            hclog.Logger
}

// NewEngine creates a recommendation engine. A nil completion client disables
// the AI-assisted paths, which is a supported configuration.
func NewEngine(logger hclog.Logger, searcher Searcher, client completion.Client) *Engine {
	if client == nil {
		client = completion.Disabled{}
	}

	return &Engine{
		catalog:           searcher,
		completion:        client,
		completionTimeout: DefaultCompletionTimeout,
		logger:            logger.Named(engineName),
	}
}

// complete issues one bounded call to the completion service.
func (e *Engine) complete(ctx context.Context, promptText string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.completionTimeout)
	defer cancel()

	return e.completion.Complete(ctx, promptText)
}

// Recommend runs the full pipeline for one request: extract keywords, fan out
// searches, rank the deduplicated union, finalize.
//
// The result is never accompanied by a Go error: failures of best-effort
// subsystems degrade internally, and a pipeline dead end is reported through
// the result's Error field with an empty recommendation list.
func (e *Engine) Recommend(ctx context.Context, query string) Result {
	result := Result{
		Query:           query,
		Recommendations: []RankedServer{},
	}

	keywords, keywordMethod := e.extractKeywords(ctx, query)
	result.Method = keywordMethod
	result.SearchKeywords = keywords
	if len(keywords) == 0 {
		result.Error = "no search keywords could be derived from the query"
		return result
	}

	servers := e.fanOutSearch(ctx, keywords)
	if len(servers) == 0 {
		result.Error = errors.ErrNoRecommendations.Error()
		return result
	}

	ranked, rankMethod := e.rankServers(ctx, query, servers)
	if len(ranked) > maxRecommendations {
		ranked = ranked[:maxRecommendations]
	}
	result.Recommendations = ranked

	if len(ranked) > 0 {
		confidence := ranked[0].Score
		if rankMethod == MethodHeuristic {
			confidence *= heuristicConfidenceScale
		}
		result.Confidence = clampScore(confidence)
	}

	e.logger.Debug(
		"Recommendation complete",
		"query", query,
		"keywords", keywords,
		"candidates", len(servers),
		"recommended", len(ranked),
		"method", result.Method,
		"confidence", result.Confidence,
	)

	return result
}

// fanOutSearch issues one catalog search per keyword, capped at the first
// three. The searches have no data dependency on each other and run
// concurrently; the union is deduplicated by qualified name with the first
// occurrence winning, preserving discovery order (keyword order, then result
// order within a keyword) for stable downstream tie-breaks.
func (e *Engine) fanOutSearch(ctx context.Context, keywords []string) []catalog.Server {
	if len(keywords) > maxSearchKeywords {
		keywords = keywords[:maxSearchKeywords]
	}

	perKeyword := make([][]catalog.Server, len(keywords))

	g, gctx := errgroup.WithContext(ctx)
	for i, keyword := range keywords {
		g.Go(func() error {
			result := e.catalog.Search(gctx, keyword, catalog.SearchOptions{PageSize: searchPageSize})
			perKeyword[i] = result.Servers
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]struct{})
	var union []catalog.Server
	for _, servers := range perKeyword {
		for _, s := range servers {
			if _, dup := seen[s.QualifiedName]; dup {
				continue
			}
			seen[s.QualifiedName] = struct{}{}
			union = append(union, s)
		}
	}

	return union
}
