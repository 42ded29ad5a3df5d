package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/scoutmcp/scout/internal/catalog"
)

// handleFindServers runs the recommendation pipeline for the provided context
// and returns the ranked result as JSON.
func (s *Server) handleFindServers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("context")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := s.engine.Recommend(ctx, query)

	return jsonResult(result)
}

// serverDetails is the response shape for get_server_details.
type serverDetails struct {
	Server      catalog.Server                  `json:"server"`
	Credentials []catalog.CredentialRequirement `json:"requiredCredentials,omitempty"`
}

// handleServerDetails looks up one server in the catalog and derives its
// credential requirements.
func (s *Server) handleServerDetails(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("qualified_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	server, found := s.catalog.GetServerDetails(ctx, name)
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("server '%s' not found in catalog", name)), nil
	}

	return jsonResult(serverDetails{
		Server:      server,
		Credentials: catalog.ExtractRequiredCredentials(server),
	})
}

// handleListInstalled returns the installed-server store with summary stats.
func (s *Server) handleListInstalled(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	response := struct {
		Servers any `json:"servers"`
		Stats   any `json:"stats"`
	}{
		Servers: s.installed.List(),
		Stats:   s.installed.Stats(),
	}

	return jsonResult(response)
}

// handleRecordUsage stamps last-used for an installed server.
func (s *Server) handleRecordUsage(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("qualified_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.installed.RecordUsage(name); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("recorded usage for '%s'", name)), nil
}

// jsonResult marshals v as an indented JSON tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to format response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}
