// Package mcpserver exposes Dash documentation search to MCP clients.
//
// The server registers four tools:
//
//   - list_installed_docsets: the installed docset catalog.
//   - search_documentation: ranked search across docsets and snippets.
//   - fetch_documentation_url: retrieve a load_url from search results.
//   - enable_docset_fts: turn on full-text indexing for one docset.
//
// Every tool call first resolves a verified Dash API base URL through
// the bootstrap coordinator, then issues its own request with a fresh
// client; no connection or port state survives between invocations.
// List and search results are shaped through the budget package before
// they are returned, so responses stay under the configured token limit
// without reordering Dash's relevance ranking.
//
// Tool failures are reported as IsError results with a single
// human-readable message the calling model can act on; the server never
// surfaces them as protocol errors or exits the process.
package mcpserver
