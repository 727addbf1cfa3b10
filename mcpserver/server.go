package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/phene/dash-mcp-server/bootstrap"
	"github.com/phene/dash-mcp-server/config"
	"github.com/phene/dash-mcp-server/dashapi"
)

// Version is reported to MCP clients during initialization.
const Version = "1.0.0"

// Typed logging level constants. The MCP SDK defines LoggingLevel as a
// raw string type without exported constants.
const (
	logDebug   mcp.LoggingLevel = "debug"
	logInfo    mcp.LoggingLevel = "info"
	logWarning mcp.LoggingLevel = "warning"
	logError   mcp.LoggingLevel = "error"
)

// Resolver yields a verified Dash API base URL, or the reason none is
// available. It is implemented by bootstrap.Coordinator.
type Resolver interface {
	Resolve(ctx context.Context) bootstrap.Outcome
}

// Server wires the Dash tools into an MCP server. It holds no
// per-request mutable state: every tool call re-resolves the API
// endpoint and builds a fresh client.
type Server struct {
	mcp      *mcp.Server
	cfg      config.Config
	resolver Resolver
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the process-level logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New creates the MCP server with all Dash tools registered.
func New(cfg config.Config, resolver Resolver, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		resolver: resolver,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    "dash-mcp-server",
			Title:   "Dash Documentation API",
			Version: Version,
		},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	s.registerTools()

	return s
}

// MCPServer returns the underlying MCP server for direct access
// (e.g. testing with an in-memory transport).
func (s *Server) MCPServer() *mcp.Server { return s.mcp }

// RunStdio serves MCP over stdio. This is the primary mode for editor
// and desktop-client integrations.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler returns a streamable HTTP transport handler for remote
// deployments.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return s.mcp },
		&mcp.StreamableHTTPOptions{},
	)
}

// newClient builds a fresh API client for one tool invocation.
func (s *Server) newClient(baseURL string) *dashapi.Client {
	return dashapi.NewClient(baseURL, s.cfg.RequestTimeout)
}

// resolveBase runs the bootstrap sequence, returning an error result to
// hand back to the client when no endpoint is available.
func (s *Server) resolveBase(ctx context.Context, req *mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	outcome := s.resolver.Resolve(ctx)
	if !outcome.OK() {
		s.logToSession(ctx, req, logError, outcome.FailureReason)
		return "", errorResult(outcome.FailureReason)
	}
	s.logToSession(ctx, req, logDebug, "resolved dash api at "+outcome.BaseURL)
	return outcome.BaseURL, nil
}

// logToSession sends a log message to the MCP client, mirroring it to
// the process logger. Delivery is best-effort.
func (s *Server) logToSession(ctx context.Context, req *mcp.CallToolRequest, level mcp.LoggingLevel, message string) {
	s.logger.Debug("tool log", "level", level, "message", message)
	if req == nil || req.Session == nil {
		return
	}
	_ = req.Session.Log(ctx, &mcp.LoggingMessageParams{
		Level:  level,
		Logger: "dash-mcp-server",
		Data:   message,
	})
}

// textResult creates a CallToolResult with a single text content block.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// jsonResult marshals v to indented JSON and wraps it in a
// CallToolResult.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return textResult(string(data)), nil
}

// errorResult creates an IsError CallToolResult so the calling model
// can see the message and self-correct rather than hitting a
// protocol-level failure.
func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}

// parseArgs unmarshals the raw JSON arguments from a tool call into dst.
func parseArgs(req *mcp.CallToolRequest, dst any) error {
	if len(req.Params.Arguments) == 0 {
		return nil
	}
	if err := json.Unmarshal(req.Params.Arguments, dst); err != nil {
		return fmt.Errorf("parsing tool arguments: %w", err)
	}
	return nil
}

// boolPtr returns a pointer to b, for optional SDK fields.
func boolPtr(b bool) *bool { return &b }

const serverInstructions = `This server exposes the user's local Dash documentation browser.

Workflow:
1. Call list_installed_docsets to learn which docsets are installed and
   get their exact identifiers.
2. Call search_documentation with a query and a comma-separated list of
   those identifiers. Results are ranked by Dash and may be truncated to
   stay within the response token budget.
3. Call fetch_documentation_url with a load_url from search results to
   read the documentation content. Only load_url values served by the
   Dash API are accepted.
4. If search quality for a docset is poor, enable_docset_fts turns on
   full-text indexing for it (indexing takes a while on large docsets).

Dash is launched and its API server enabled automatically when needed.
If a tool reports that this failed, relay the message to the user; it
names the manual step to take.`
