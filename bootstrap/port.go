package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// PortResolver reads the port the Dash API server bound to. A false
// return means the port is unknown, which is the expected steady state
// while the API server is disabled or still starting; it is never an
// error.
type PortResolver interface {
	Port() (int, bool)
}

// HealthChecker probes a candidate port for a live API server. Any
// transport failure, timeout, or non-success status reads as unhealthy.
type HealthChecker interface {
	Healthy(ctx context.Context, port int) bool
}

// statusFileResolver reads the JSON status record Dash writes next to
// its API server state.
type statusFileResolver struct {
	path string
}

func (r statusFileResolver) Port() (int, bool) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return 0, false
	}

	var status struct {
		Port int `json:"port"`
	}
	if err := json.Unmarshal(data, &status); err != nil {
		return 0, false
	}
	if status.Port <= 0 {
		return 0, false
	}
	return status.Port, true
}

// httpHealthChecker issues GET /health against the loopback port.
type httpHealthChecker struct {
	client *http.Client
}

func newHTTPHealthChecker(timeout time.Duration) httpHealthChecker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return httpHealthChecker{client: &http.Client{Timeout: timeout}}
}

func (h httpHealthChecker) Healthy(ctx context.Context, port int) bool {
	url := fmt.Sprintf("http://127.0.0.1:%d/health", port)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
