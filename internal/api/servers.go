package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/scoutmcp/scout/internal/errors"
	"github.com/scoutmcp/scout/internal/tracker"
)

// InstalledStore is the tracker capability the API needs.
type InstalledStore interface {
	List() []tracker.InstalledServer
	Get(qualifiedName string) (tracker.InstalledServer, bool)
	RecordUsage(qualifiedName string) error
	Stats() tracker.Stats
}

// ServersResponse represents the wrapped API response for the installed-server list.
type ServersResponse struct {
	Body []tracker.InstalledServer
}

// ServerRequest represents the incoming API request for a single installed server.
type ServerRequest struct {
	Name string `doc:"Qualified name of the installed server" example:"modelcontextprotocol/playwright" path:"name"`
}

// ServerResponse represents the wrapped API response for a single installed server.
type ServerResponse struct {
	Body tracker.InstalledServer
}

// StatsResponse represents the wrapped API response for store statistics.
type StatsResponse struct {
	Body tracker.Stats
}

// RegisterServerRoutes sets up installed-server API endpoints.
func RegisterServerRoutes(routerAPI huma.API, store InstalledStore, apiPathPrefix string) {
	serversAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Servers"}

	// Route at the root of the group (no path specified).
	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "listServers",
			Method:      http.MethodGet,
			Summary:     "List installed servers",
			Tags:        tags,
		},
		func(_ context.Context, _ *struct{}) (*ServersResponse, error) {
			resp := &ServersResponse{}
			resp.Body = store.List()

			return resp, nil
		},
	)

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "getServerStats",
			Method:      http.MethodGet,
			Path:        "/stats",
			Summary:     "Summarize the installed-server store",
			Tags:        tags,
		},
		func(_ context.Context, _ *struct{}) (*StatsResponse, error) {
			resp := &StatsResponse{}
			resp.Body = store.Stats()

			return resp, nil
		},
	)

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "getServer",
			Method:      http.MethodGet,
			Path:        "/{name}",
			Summary:     "Get one installed server",
			Tags:        tags,
		},
		func(_ context.Context, input *ServerRequest) (*ServerResponse, error) {
			server, found := store.Get(input.Name)
			if !found {
				return nil, fmt.Errorf("%w: %s", errors.ErrServerNotFound, input.Name)
			}

			resp := &ServerResponse{}
			resp.Body = server

			return resp, nil
		},
	)

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "recordServerUsage",
			Method:      http.MethodPost,
			Path:        "/{name}/usage",
			Summary:     "Record successful usage of an installed server",
			Tags:        tags,
		},
		func(_ context.Context, input *ServerRequest) (*ServerResponse, error) {
			if err := store.RecordUsage(input.Name); err != nil {
				return nil, err
			}

			server, _ := store.Get(input.Name)
			resp := &ServerResponse{}
			resp.Body = server

			return resp, nil
		},
	)
}
