package dashapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestListDocsets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/docsets/list" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"docsets": [
			{"name": "Go", "identifier": "go", "platform": "go", "full_text_search": "enabled"},
			{"name": "Python 3", "identifier": "python3", "platform": "python", "full_text_search": "disabled", "notice": "update available"}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	docsets, err := client.ListDocsets(context.Background())
	if err != nil {
		t.Fatalf("ListDocsets failed: %v", err)
	}
	if len(docsets) != 2 {
		t.Fatalf("expected 2 docsets, got %d", len(docsets))
	}
	if docsets[0].Identifier != "go" {
		t.Errorf("expected identifier 'go', got %q", docsets[0].Identifier)
	}
	if docsets[1].Notice != "update available" {
		t.Errorf("expected notice to be parsed, got %q", docsets[1].Notice)
	}
}

func TestListDocsetsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no docsets installed", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.ListDocsets(context.Background())
	se, ok := AsStatusError(err)
	if !ok {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", se.StatusCode)
	}
}

func TestSearchSendsParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("query"); got != "http server" {
			t.Errorf("query = %q", got)
		}
		if got := q.Get("docset_identifiers"); got != "go,python3" {
			t.Errorf("docset_identifiers = %q", got)
		}
		if got := q.Get("search_snippets"); got != "true" {
			t.Errorf("search_snippets = %q", got)
		}
		if got := q.Get("max_results"); got != "50" {
			t.Errorf("max_results = %q", got)
		}
		w.Write([]byte(`{"results": [{"name": "ListenAndServe", "type": "Function", "load_url": "http://127.0.0.1:1/load"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	resp, err := client.Search(context.Background(), SearchRequest{
		Query:             "http server",
		DocsetIdentifiers: "go,python3",
		SearchSnippets:    true,
		MaxResults:        50,
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
	if resp.Results[0].Name != "ListenAndServe" {
		t.Errorf("unexpected result name %q", resp.Results[0].Name)
	}
}

func TestSearchFiltersEmptyPlaceholders(t *testing.T) {
	// Dash returns [{}] instead of [] when nothing matches.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [{}, {"name": "real", "type": "Class", "load_url": "http://x/1"}, {}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	resp, err := client.Search(context.Background(), SearchRequest{Query: "q", DocsetIdentifiers: "go", MaxResults: 10})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected empty placeholders to be dropped, got %d results", len(resp.Results))
	}
	if resp.Results[0].Name != "real" {
		t.Errorf("unexpected surviving result %q", resp.Results[0].Name)
	}
}

func TestSearchMessagePassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [], "message": "docset is still indexing"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	resp, err := client.Search(context.Background(), SearchRequest{Query: "q", DocsetIdentifiers: "go", MaxResults: 10})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if resp.Message != "docset is still indexing" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestStatusErrorClassification(t *testing.T) {
	tests := []struct {
		name  string
		code  int
		body  string
		check func(*StatusError) bool
		want  bool
	}{
		{"docset not found", 400, `Docset with identifier "nope" not found`, (*StatusError).DocsetNotFound, true},
		{"no docsets", 400, "No docsets found", (*StatusError).NoDocsets, true},
		{"trial expired", 403, "API access blocked due to Dash trial expiration", (*StatusError).TrialExpired, true},
		{"plain 400 is unclassified", 400, "bad request", (*StatusError).DocsetNotFound, false},
		{"not found substring on 403 does not match", 403, "Docset with identifier x not found", (*StatusError).DocsetNotFound, false},
		{"trial substring on 400 does not match", 400, "trial expiration", (*StatusError).TrialExpired, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := &StatusError{StatusCode: tt.code, Body: tt.body}
			if got := tt.check(se); got != tt.want {
				t.Errorf("classification = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFetchRejectsOutsideBase(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)

	for _, target := range []string{
		"http://example.com/docs",
		srv.URL + "evil.com/docs", // prefix of the string but not of the path
		"https://127.0.0.1/load",
	} {
		_, err := client.Fetch(context.Background(), target)
		if !errors.Is(err, ErrOutsideBase) {
			t.Errorf("Fetch(%q) error = %v, want ErrOutsideBase", target, err)
		}
	}
	if calls != 0 {
		t.Errorf("expected no network calls, server saw %d", calls)
	}
}

func TestFetchAllowsBaseAndBelow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>doc</html>"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)

	for _, target := range []string{srv.URL, srv.URL + "/load?request=x"} {
		content, err := client.Fetch(context.Background(), target)
		if err != nil {
			t.Errorf("Fetch(%q) failed: %v", target, err)
			continue
		}
		if content != "<html>doc</html>" {
			t.Errorf("Fetch(%q) content = %q", target, content)
		}
	}
}

func TestEnableFTS(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/docsets/enable_fts" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("identifier"); got != "go" {
			t.Errorf("identifier = %q", got)
		}
		w.Write([]byte(`{"status": "ok"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	if err := client.EnableFTS(context.Background(), "go"); err != nil {
		t.Fatalf("EnableFTS failed: %v", err)
	}
}

func TestEnableFTSUnknownDocset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `Docset with identifier "nope" not found`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	err := client.EnableFTS(context.Background(), "nope")
	se, ok := AsStatusError(err)
	if !ok {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if !se.DocsetNotFound() {
		t.Errorf("expected DocsetNotFound classification for %q", se.Body)
	}
}
