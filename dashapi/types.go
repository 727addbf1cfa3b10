package dashapi

// Docset describes one installed documentation set.
type Docset struct {
	// Name is the display name of the docset.
	Name string `json:"name"`
	// Identifier is the unique identifier used in search requests.
	Identifier string `json:"identifier"`
	// Platform is the platform/type of the docset.
	Platform string `json:"platform"`
	// FullTextSearch is one of "not supported", "disabled", "indexing",
	// or "enabled".
	FullTextSearch string `json:"full_text_search"`
	// Notice is an optional note about the docset status.
	Notice string `json:"notice,omitempty"`
}

// SearchResult is a single documentation or snippet search hit.
type SearchResult struct {
	// Name is the name of the documentation entry.
	Name string `json:"name"`
	// Type is the entry kind (Function, Class, ...).
	Type string `json:"type"`
	// Platform is the platform of the result, when known.
	Platform string `json:"platform,omitempty"`
	// LoadURL is the URL to load the documentation content from.
	LoadURL string `json:"load_url"`
	// Docset is the name of the docset the result came from.
	Docset string `json:"docset,omitempty"`
	// Description is an additional description, when present.
	Description string `json:"description,omitempty"`
	// Language is the programming language (snippet results only).
	Language string `json:"language,omitempty"`
	// Tags are snippet tags (snippet results only).
	Tags string `json:"tags,omitempty"`
}

// isEmpty reports whether the result is a structurally empty placeholder.
// Dash returns [{}] instead of [] when a search matches nothing.
func (r SearchResult) isEmpty() bool {
	return r == SearchResult{}
}

// SearchRequest carries the parameters for a Search call.
type SearchRequest struct {
	// Query is the search query string.
	Query string
	// DocsetIdentifiers is a comma-separated list of docset identifiers
	// to search in.
	DocsetIdentifiers string
	// SearchSnippets includes snippet results when true.
	SearchSnippets bool
	// MaxResults caps the number of results Dash returns.
	MaxResults int
}

// SearchResponse is the parsed result of a Search call.
type SearchResponse struct {
	// Results holds the hits, empty placeholders already removed.
	Results []SearchResult
	// Message is an optional warning from Dash (for example about
	// docsets still being indexed).
	Message string
}
