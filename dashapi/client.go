package dashapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds each request to the Dash API.
const DefaultTimeout = 30 * time.Second

// Client talks to a Dash API server at a fixed base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given base URL
// (e.g. "http://127.0.0.1:52321"). A timeout of zero means
// DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the API base this client was created for.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListDocsets returns the installed docsets.
func (c *Client) ListDocsets(ctx context.Context) ([]Docset, error) {
	body, err := c.get(ctx, "/docsets/list", nil)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Docsets []Docset `json:"docsets"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse docset list: %w", err)
	}
	return parsed.Docsets, nil
}

// Search runs a documentation search. Structurally empty placeholder
// entries are removed from the results before they are returned.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("query", req.Query)
	params.Set("docset_identifiers", req.DocsetIdentifiers)
	params.Set("search_snippets", strconv.FormatBool(req.SearchSnippets))
	params.Set("max_results", strconv.Itoa(req.MaxResults))

	body, err := c.get(ctx, "/search", params)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Results []SearchResult `json:"results"`
		Message string         `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	results := make([]SearchResult, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if r.isEmpty() {
			continue
		}
		results = append(results, r)
	}

	return &SearchResponse{Results: results, Message: parsed.Message}, nil
}

// EnableFTS enables full-text search indexing for the given docset.
func (c *Client) EnableFTS(ctx context.Context, identifier string) error {
	params := url.Values{}
	params.Set("identifier", identifier)
	_, err := c.get(ctx, "/docsets/enable_fts", params)
	return err
}

// Fetch retrieves the content of an absolute documentation URL. The URL
// must be the API base itself or strictly under it; anything else is
// refused with ErrOutsideBase before any network call.
func (c *Client) Fetch(ctx context.Context, rawURL string) (string, error) {
	if rawURL != c.baseURL && !strings.HasPrefix(rawURL, c.baseURL+"/") {
		return "", fmt.Errorf("%w: %s is not under %s", ErrOutsideBase, rawURL, c.baseURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return string(body), nil
}

// get issues a GET against path on the API base and returns the body.
// Non-2xx responses come back as *StatusError.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
