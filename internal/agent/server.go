// Package agent exposes scout's discovery and tracking capabilities as MCP
// tools over stdio, so AI assistants can find, inspect, and track tool
// servers through the standard protocol.
package agent

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/scoutmcp/scout/internal/catalog"
	"github.com/scoutmcp/scout/internal/recommend"
	"github.com/scoutmcp/scout/internal/tracker"
)

const (
	serverName = "scout"

	agentLoggerName = "agent"
)

var version = "dev" // Set at build time using -ldflags.

// Recommender produces ranked server recommendations for free-form requests.
type Recommender interface {
	Recommend(ctx context.Context, query string) recommend.Result
}

// CatalogClient is the catalog capability the agent needs.
type CatalogClient interface {
	Search(ctx context.Context, query string, opts catalog.SearchOptions) catalog.SearchResult
	GetServerDetails(ctx context.Context, qualifiedName string) (catalog.Server, bool)
}

// Server wraps the recommendation engine and lifecycle tracker and exposes
// them as MCP tools using stdio transport.
type Server struct {
	engine    Recommender
	catalog   CatalogClient
	installed *tracker.Tracker
	logger    hclog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates the MCP server and registers all tools.
func NewServer(logger hclog.Logger, engine Recommender, cat CatalogClient, installed *tracker.Tracker) *Server {
	mcpServer := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		engine:    engine,
		catalog:   cat,
		installed: installed,
		logger:    logger.Named(agentLoggerName),
		mcpServer: mcpServer,
	}
	s.registerTools()

	return s
}

// Start serves MCP over stdio, blocking until the client closes the
// connection.
func (s *Server) Start(_ context.Context) error {
	s.logger.Info("Starting MCP stdio server")
	return server.ServeStdio(s.mcpServer)
}

// registerTools registers all MCP tools.
func (s *Server) registerTools() {
	findTool := mcp.NewTool("find_mcp_servers",
		mcp.WithDescription("Recommend MCP servers for a task described in natural language"),
		mcp.WithString("context",
			mcp.Required(),
			mcp.Description("Description of what the user wants to accomplish"),
		),
	)
	s.mcpServer.AddTool(findTool, s.handleFindServers)

	detailsTool := mcp.NewTool("get_server_details",
		mcp.WithDescription("Get catalog details and required credentials for one MCP server"),
		mcp.WithString("qualified_name",
			mcp.Required(),
			mcp.Description("Qualified name of the server in the catalog"),
		),
	)
	s.mcpServer.AddTool(detailsTool, s.handleServerDetails)

	listTool := mcp.NewTool("list_installed_servers",
		mcp.WithDescription("List MCP servers that are already installed, with their connection status"),
	)
	s.mcpServer.AddTool(listTool, s.handleListInstalled)

	usageTool := mcp.NewTool("record_server_usage",
		mcp.WithDescription("Record that an installed MCP server was used successfully"),
		mcp.WithString("qualified_name",
			mcp.Required(),
			mcp.Description("Qualified name of the installed server"),
		),
	)
	s.mcpServer.AddTool(usageTool, s.handleRecordUsage)
}
