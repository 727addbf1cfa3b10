package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

func writeStatusFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "status.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStatusFileResolver(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantPort int
		wantOK   bool
	}{
		{"valid record", `{"port": 52321}`, 52321, true},
		{"extra fields ignored", `{"port": 8080, "pid": 99}`, 8080, true},
		{"missing port field", `{"pid": 99}`, 0, false},
		{"zero port", `{"port": 0}`, 0, false},
		{"negative port", `{"port": -1}`, 0, false},
		{"malformed json", `{"port": `, 0, false},
		{"empty file", ``, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := statusFileResolver{path: writeStatusFile(t, tt.content)}
			port, ok := resolver.Port()
			if ok != tt.wantOK || port != tt.wantPort {
				t.Errorf("Port() = (%d, %v), want (%d, %v)", port, ok, tt.wantPort, tt.wantOK)
			}
		})
	}
}

func TestStatusFileResolverMissingFile(t *testing.T) {
	resolver := statusFileResolver{path: filepath.Join(t.TempDir(), "absent.json")}
	if port, ok := resolver.Port(); ok {
		t.Errorf("expected unknown port for missing file, got %d", port)
	}
}

// serverPort extracts the loopback port an httptest server bound to.
func serverPort(t *testing.T, srv *httptest.Server) int {
	t.Helper()
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatal(err)
	}
	return port
}

func TestHTTPHealthCheckerHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	checker := newHTTPHealthChecker(time.Second)
	if !checker.Healthy(context.Background(), serverPort(t, srv)) {
		t.Error("expected healthy")
	}
}

func TestHTTPHealthCheckerNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	checker := newHTTPHealthChecker(time.Second)
	if checker.Healthy(context.Background(), serverPort(t, srv)) {
		t.Error("expected unhealthy on 503")
	}
}

func TestHTTPHealthCheckerConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	port := serverPort(t, srv)
	srv.Close()

	checker := newHTTPHealthChecker(time.Second)
	if checker.Healthy(context.Background(), port) {
		t.Error("expected unhealthy against closed port")
	}
}
