package dashapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrOutsideBase is returned by Fetch for URLs that are not under the
// client's API base. The request is refused before any network call.
var ErrOutsideBase = errors.New("url outside the api base")

// StatusError is a non-2xx response from the Dash API. Dash signals
// actionable conditions through plain-text body substrings, so the
// predicate methods classify the common cases.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("dash api: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("dash api: HTTP %d: %s", e.StatusCode, body)
}

// DocsetNotFound reports a 400 caused by an unknown docset identifier.
func (e *StatusError) DocsetNotFound() bool {
	return e.StatusCode == http.StatusBadRequest &&
		strings.Contains(e.Body, "Docset with identifier") &&
		strings.Contains(e.Body, "not found")
}

// NoDocsets reports a 400 caused by no valid docsets being available
// for the search.
func (e *StatusError) NoDocsets() bool {
	return e.StatusCode == http.StatusBadRequest &&
		strings.Contains(e.Body, "No docsets found")
}

// TrialExpired reports a 403 caused by an expired Dash trial blocking
// API access.
func (e *StatusError) TrialExpired() bool {
	return e.StatusCode == http.StatusForbidden &&
		strings.Contains(e.Body, "trial expiration")
}

// AsStatusError unwraps err to a *StatusError if there is one.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
