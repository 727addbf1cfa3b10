// Package dashapi is an HTTP client for the local Dash documentation
// index API. Dash exposes the API on a dynamically chosen loopback port
// when its API server integration is enabled; discovering that port is
// the job of the bootstrap package, and this package only speaks to an
// already-resolved base URL.
//
// # Endpoints
//
//   - ListDocsets: GET /docsets/list, the installed docset catalog.
//   - Search: GET /search, ranked results across docsets and snippets.
//   - EnableFTS: GET /docsets/enable_fts, turns on full-text indexing
//     for one docset.
//   - Fetch: GET an absolute documentation URL, restricted to the API
//     base (see below).
//
// # Error Classification
//
// Non-2xx responses are returned as *StatusError carrying the status
// code and the plain-text body. Dash reports actionable conditions as
// body substrings rather than structured errors, so StatusError exposes
// predicate helpers (DocsetNotFound, NoDocsets, TrialExpired) that the
// tool layer maps to caller guidance. Transport failures are returned
// wrapped, unclassified.
//
// # Fetch Guard
//
// Fetch refuses, before any network call, URLs that are not the client's
// base URL or strictly under it. Search results carry load_url values
// pointing back into the API; allowing anything else would turn the
// client into an open proxy.
package dashapi
