package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/phene/dash-mcp-server/budget"
	"github.com/phene/dash-mcp-server/dashapi"
)

// Guidance messages for classified Dash API failures.
const (
	msgConnectHint = "Please ensure Dash is running and the API server is " +
		"enabled (in Dash Settings > Integration)."

	msgNoDocsetsInstalled = "No docsets found. Instruct the user to install " +
		"some docsets in Settings > Downloads."

	msgInvalidDocsetIdentifier = "Invalid docset identifier. Run " +
		"list_installed_docsets to see available docsets, then use the exact " +
		"identifier from that list."

	msgNoValidDocsets = "No valid docsets found for search. Either provide " +
		"valid docset identifiers from list_installed_docsets, or set " +
		"search_snippets=true to search snippets only."

	msgTrialExpired = "Your Dash trial has expired. Purchase Dash at " +
		"https://kapeli.com/dash to continue using the API. During trial " +
		"expiration, API access is blocked."

	msgFewerTerms = "Nothing found. Try to search for fewer terms."
)

func (s *Server) registerTools() {
	s.addListDocsetsTool()
	s.addSearchTool()
	s.addFetchTool()
	s.addEnableFTSTool()
}

// ---------------------------------------------------------------------------
// list_installed_docsets
// ---------------------------------------------------------------------------

func (s *Server) addListDocsetsTool() {
	s.mcp.AddTool(
		&mcp.Tool{
			Name:  "list_installed_docsets",
			Title: "List Installed Docsets",
			Description: "List all installed documentation sets in Dash. " +
				"An empty list is returned if the user has no docsets installed. " +
				"Results are automatically truncated if they would exceed the " +
				"response token budget.",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
			Annotations: &mcp.ToolAnnotations{
				ReadOnlyHint:   true,
				IdempotentHint: true,
				OpenWorldHint:  boolPtr(false),
				Title:          "List Installed Docsets",
			},
		},
		s.handleListDocsets,
	)
}

type docsetList struct {
	Docsets        []dashapi.Docset `json:"docsets"`
	Truncated      bool             `json:"truncated,omitempty"`
	TotalAvailable int              `json:"total_available,omitempty"`
}

func (s *Server) handleListDocsets(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	base, failure := s.resolveBase(ctx, req)
	if failure != nil {
		return failure, nil
	}

	docsets, err := s.newClient(base).ListDocsets(ctx)
	if err != nil {
		if se, ok := dashapi.AsStatusError(err); ok && se.StatusCode == http.StatusNotFound {
			s.logToSession(ctx, req, logWarning, msgNoDocsetsInstalled)
			return errorResult(msgNoDocsetsInstalled), nil
		}
		return errorResult(fmt.Sprintf("Failed to get installed docsets: %v. %s", err, msgConnectHint)), nil
	}
	s.logToSession(ctx, req, logInfo, fmt.Sprintf("found %d installed docsets", len(docsets)))

	kept, truncated := budget.Truncate(docsets, s.cfg.TokenLimit)
	payload := docsetList{Docsets: kept, Truncated: truncated}
	if truncated {
		payload.TotalAvailable = len(docsets)
		s.logToSession(ctx, req, logWarning, fmt.Sprintf(
			"token limit reached: returning %d of %d docsets", len(kept), len(docsets)))
	}
	return jsonResult(payload)
}

// ---------------------------------------------------------------------------
// search_documentation
// ---------------------------------------------------------------------------

func (s *Server) addSearchTool() {
	s.mcp.AddTool(
		&mcp.Tool{
			Name:  "search_documentation",
			Title: "Search Documentation",
			Description: "Search for documentation across docset identifiers and " +
				"snippets. Get docset identifiers from list_installed_docsets first. " +
				"Results keep Dash's relevance ranking and are automatically " +
				"truncated if they would exceed the response token budget.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "The search query string.",
					},
					"docset_identifiers": map[string]any{
						"type": "string",
						"description": "Comma-separated list of docset identifiers " +
							"to search in (from list_installed_docsets).",
					},
					"search_snippets": map[string]any{
						"type":        "boolean",
						"description": "Whether to include snippets in search results.",
						"default":     true,
					},
					"max_results": map[string]any{
						"type":        "integer",
						"description": "Maximum number of results to return (1-1000).",
						"default":     100,
						"minimum":     1,
						"maximum":     1000,
					},
				},
				"required": []string{"query", "docset_identifiers"},
			},
			Annotations: &mcp.ToolAnnotations{
				ReadOnlyHint:   true,
				IdempotentHint: true,
				OpenWorldHint:  boolPtr(false),
				Title:          "Search Documentation",
			},
		},
		s.handleSearch,
	)
}

type searchArgs struct {
	Query             string `json:"query"`
	DocsetIdentifiers string `json:"docset_identifiers"`
	SearchSnippets    *bool  `json:"search_snippets"`
	MaxResults        int    `json:"max_results"`
}

type searchList struct {
	Results        []dashapi.SearchResult `json:"results"`
	Message        string                 `json:"message,omitempty"`
	Truncated      bool                   `json:"truncated,omitempty"`
	TotalAvailable int                    `json:"total_available,omitempty"`
}

func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := searchArgs{MaxResults: 100}
	if err := parseArgs(req, &args); err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	// Caller input is validated before any process or network activity.
	if strings.TrimSpace(args.Query) == "" {
		return errorResult("Query cannot be empty"), nil
	}
	if strings.TrimSpace(args.DocsetIdentifiers) == "" {
		return errorResult("docset_identifiers cannot be empty. Get the docset " +
			"identifiers using list_installed_docsets"), nil
	}
	if args.MaxResults < 1 || args.MaxResults > 1000 {
		return errorResult("max_results must be between 1 and 1000"), nil
	}
	snippets := true
	if args.SearchSnippets != nil {
		snippets = *args.SearchSnippets
	}

	base, failure := s.resolveBase(ctx, req)
	if failure != nil {
		return failure, nil
	}

	s.logToSession(ctx, req, logDebug, fmt.Sprintf("searching dash for %q", args.Query))
	resp, err := s.newClient(base).Search(ctx, dashapi.SearchRequest{
		Query:             args.Query,
		DocsetIdentifiers: args.DocsetIdentifiers,
		SearchSnippets:    snippets,
		MaxResults:        args.MaxResults,
	})
	if err != nil {
		return s.searchError(ctx, req, err), nil
	}

	if resp.Message != "" {
		s.logToSession(ctx, req, logWarning, resp.Message)
	}
	if len(resp.Results) == 0 && strings.Contains(args.Query, " ") {
		return errorResult(msgFewerTerms), nil
	}
	s.logToSession(ctx, req, logInfo, fmt.Sprintf("found %d results", len(resp.Results)))

	kept, truncated := budget.Truncate(resp.Results, s.cfg.TokenLimit)
	payload := searchList{Results: kept, Message: resp.Message, Truncated: truncated}
	if truncated {
		payload.TotalAvailable = len(resp.Results)
		s.logToSession(ctx, req, logWarning, fmt.Sprintf(
			"token limit reached: returning %d of %d results", len(kept), len(resp.Results)))
	}
	return jsonResult(payload)
}

// searchError maps a failed search to caller guidance.
func (s *Server) searchError(ctx context.Context, req *mcp.CallToolRequest, err error) *mcp.CallToolResult {
	se, ok := dashapi.AsStatusError(err)
	if !ok {
		return errorResult(fmt.Sprintf("Search failed: %v. %s", err, msgConnectHint))
	}

	switch {
	case se.DocsetNotFound():
		s.logToSession(ctx, req, logError, msgInvalidDocsetIdentifier)
		return errorResult(msgInvalidDocsetIdentifier)
	case se.NoDocsets():
		return errorResult(msgNoValidDocsets)
	case se.TrialExpired():
		s.logToSession(ctx, req, logError, msgTrialExpired)
		return errorResult(msgTrialExpired)
	case se.StatusCode == http.StatusBadRequest:
		return errorResult(fmt.Sprintf("Bad request: %s. %s", se.Body, msgConnectHint))
	case se.StatusCode == http.StatusForbidden:
		return errorResult(fmt.Sprintf("Forbidden: %s. %s", se.Body, msgConnectHint))
	default:
		return errorResult(fmt.Sprintf("HTTP error: %v. %s", se, msgConnectHint))
	}
}

// ---------------------------------------------------------------------------
// fetch_documentation_url
// ---------------------------------------------------------------------------

func (s *Server) addFetchTool() {
	s.mcp.AddTool(
		&mcp.Tool{
			Name:  "fetch_documentation_url",
			Title: "Fetch Documentation URL",
			Description: "Fetch the content of a documentation URL. The URL " +
				"should be a load_url from search_documentation results. Only " +
				"URLs under the Dash API base are allowed.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"url": map[string]any{
						"type":        "string",
						"description": "A load_url value from search_documentation results.",
						"format":      "uri",
					},
				},
				"required": []string{"url"},
			},
			Annotations: &mcp.ToolAnnotations{
				ReadOnlyHint:   true,
				IdempotentHint: true,
				OpenWorldHint:  boolPtr(false),
				Title:          "Fetch Documentation URL",
			},
		},
		s.handleFetch,
	)
}

type fetchArgs struct {
	URL string `json:"url"`
}

func (s *Server) handleFetch(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args fetchArgs
	if err := parseArgs(req, &args); err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	target := strings.TrimSpace(args.URL)
	if target == "" {
		return errorResult("URL cannot be empty"), nil
	}

	base, failure := s.resolveBase(ctx, req)
	if failure != nil {
		return failure, nil
	}

	content, err := s.newClient(base).Fetch(ctx, target)
	if err != nil {
		if errors.Is(err, dashapi.ErrOutsideBase) {
			return errorResult(fmt.Sprintf("URL must start with the Dash API base (%s). "+
				"Only load_url values from search_documentation are allowed.", base)), nil
		}
		return errorResult(fmt.Sprintf("Failed to fetch URL: %v", err)), nil
	}

	s.logToSession(ctx, req, logInfo, "fetched documentation content")
	return textResult(content), nil
}

// ---------------------------------------------------------------------------
// enable_docset_fts
// ---------------------------------------------------------------------------

func (s *Server) addEnableFTSTool() {
	s.mcp.AddTool(
		&mcp.Tool{
			Name:  "enable_docset_fts",
			Title: "Enable Docset Full-Text Search",
			Description: "Enable full-text search for a specific docset. Use the " +
				"identifier from list_installed_docsets. Indexing may take a while " +
				"for large docsets; list_installed_docsets reports the progress.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"identifier": map[string]any{
						"type":        "string",
						"description": "The docset identifier (from list_installed_docsets).",
					},
				},
				"required": []string{"identifier"},
			},
			Annotations: &mcp.ToolAnnotations{
				IdempotentHint: true,
				OpenWorldHint:  boolPtr(false),
				Title:          "Enable Docset Full-Text Search",
			},
		},
		s.handleEnableFTS,
	)
}

type enableFTSArgs struct {
	Identifier string `json:"identifier"`
}

type enableFTSResult struct {
	Identifier string `json:"identifier"`
	Enabled    bool   `json:"enabled"`
}

func (s *Server) handleEnableFTS(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args enableFTSArgs
	if err := parseArgs(req, &args); err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if strings.TrimSpace(args.Identifier) == "" {
		return errorResult("Docset identifier cannot be empty"), nil
	}

	base, failure := s.resolveBase(ctx, req)
	if failure != nil {
		return failure, nil
	}

	s.logToSession(ctx, req, logDebug, "enabling full-text search for "+args.Identifier)
	if err := s.newClient(base).EnableFTS(ctx, args.Identifier); err != nil {
		if se, ok := dashapi.AsStatusError(err); ok {
			switch {
			case se.DocsetNotFound(), se.StatusCode == http.StatusNotFound:
				return errorResult(fmt.Sprintf("Docset not found: %s. %s",
					args.Identifier, msgInvalidDocsetIdentifier)), nil
			case se.StatusCode == http.StatusBadRequest:
				return errorResult(fmt.Sprintf("Bad request: %s", se.Body)), nil
			}
		}
		return errorResult(fmt.Sprintf("Failed to enable full-text search: %v", err)), nil
	}

	return jsonResult(enableFTSResult{Identifier: args.Identifier, Enabled: true})
}
