package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phene/dash-mcp-server/config"
)

// User-actionable messages for the two terminal failure exits.
const (
	// LaunchFailureMessage is reported when Dash could not be started.
	LaunchFailureMessage = "Failed to launch the Dash application. " +
		"Please start Dash manually and try again."

	// EnableFailureMessage is reported when the API server could not be
	// enabled automatically.
	EnableFailureMessage = "Failed to enable the Dash API Server automatically. " +
		"Please enable it manually in Dash Settings > Integration."
)

// Outcome is the result of one resolution attempt. Exactly one of
// BaseURL and FailureReason is set.
type Outcome struct {
	// BaseURL is a verified-reachable API base
	// ("http://127.0.0.1:<port>") when resolution succeeded.
	BaseURL string
	// FailureReason is a human-actionable message when it did not.
	FailureReason string
}

// OK reports whether the outcome carries a usable base URL.
func (o Outcome) OK() bool {
	return o.FailureReason == ""
}

// Status is the service state observed during one resolution attempt.
// It is recomputed from scratch on every call and never cached.
type Status struct {
	ProcessRunning bool
	APIEnabled     bool
	Port           int
	Healthy        bool
}

// Coordinator composes the probe, launcher, enabler, port resolver, and
// health checker into a single idempotent resolution operation.
type Coordinator struct {
	bundles      []string
	launchSettle time.Duration
	enableSettle time.Duration

	probe    ProcessProbe
	launcher Launcher
	enabler  Enabler
	ports    PortResolver
	health   HealthChecker

	sleep  func(ctx context.Context, d time.Duration)
	logger *slog.Logger
}

// Option overrides one part of a Coordinator, mainly for testing.
type Option func(*Coordinator)

// WithProbe replaces the process probe.
func WithProbe(p ProcessProbe) Option {
	return func(c *Coordinator) { c.probe = p }
}

// WithLauncher replaces the launcher.
func WithLauncher(l Launcher) Option {
	return func(c *Coordinator) { c.launcher = l }
}

// WithEnabler replaces the preference enabler.
func WithEnabler(e Enabler) Option {
	return func(c *Coordinator) { c.enabler = e }
}

// WithPortResolver replaces the port resolver.
func WithPortResolver(p PortResolver) Option {
	return func(c *Coordinator) { c.ports = p }
}

// WithHealthChecker replaces the health checker.
func WithHealthChecker(h HealthChecker) Option {
	return func(c *Coordinator) { c.health = h }
}

// WithSleep replaces the settle-delay wait, letting tests run without
// real delays.
func WithSleep(fn func(ctx context.Context, d time.Duration)) Option {
	return func(c *Coordinator) { c.sleep = fn }
}

// WithLogger sets the logger. The default discards nothing and writes
// through slog's default handler.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// New builds a Coordinator with OS-backed collaborators derived from
// cfg. Options may replace any collaborator.
func New(cfg config.Config, opts ...Option) (*Coordinator, error) {
	statusFile, err := cfg.ResolveStatusFile()
	if err != nil {
		return nil, err
	}

	runner := newExecRunner(cfg.CommandTimeout)
	c := &Coordinator{
		bundles:      cfg.BundleIdentifiers,
		launchSettle: cfg.LaunchSettle,
		enableSettle: cfg.EnableSettle,
		probe:        pgrepProbe{runner: runner, pattern: cfg.ProcessPattern},
		launcher:     openLauncher{runner: runner},
		enabler:      defaultsEnabler{runner: runner, key: cfg.PreferenceKey},
		ports:        statusFileResolver{path: statusFile},
		health:       newHTTPHealthChecker(cfg.HealthTimeout),
		sleep:        sleepContext,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Resolve brings Dash to a verified-reachable API endpoint, or reports
// why it could not. It may launch a background process, mutate the
// preference store, and block for the configured settle delays; every
// step is idempotent, so retrying from scratch always converges.
func (c *Coordinator) Resolve(ctx context.Context) Outcome {
	status := Status{ProcessRunning: c.probe.Running(ctx)}

	if !status.ProcessRunning {
		c.logger.Info("dash is not running, launching", "candidates", len(c.bundles))
		if c.launch(ctx) {
			c.sleep(ctx, c.launchSettle)
			status.ProcessRunning = c.probe.Running(ctx)
		}
		if !status.ProcessRunning {
			c.logger.Warn("dash did not come up after launch")
			return Outcome{FailureReason: LaunchFailureMessage}
		}
		c.logger.Info("dash launched")
	}

	if base, ok := c.verifiedEndpoint(ctx, &status); ok {
		status.APIEnabled = true
		c.logger.Debug("dash api reachable", "base_url", base,
			"port", status.Port, "api_enabled", status.APIEnabled)
		return Outcome{BaseURL: base}
	}

	// No resolvable healthy port on a running instance: assume the API
	// integration is off. The running distribution cannot be reliably
	// identified, so the preference is written for every candidate.
	c.logger.Info("dash api server not reachable, enabling the integration")
	for _, bundle := range c.bundles {
		if err := c.enabler.Enable(ctx, bundle); err != nil {
			c.logger.Warn("preference write failed", "bundle", bundle, "error", err)
		}
	}
	c.sleep(ctx, c.enableSettle)

	if base, ok := c.verifiedEndpoint(ctx, &status); ok {
		status.APIEnabled = true
		c.logger.Info("dash api server enabled", "base_url", base,
			"port", status.Port, "healthy", status.Healthy)
		return Outcome{BaseURL: base}
	}

	c.logger.Warn("dash api server still unreachable after enabling",
		"process_running", status.ProcessRunning, "port", status.Port)
	return Outcome{FailureReason: EnableFailureMessage}
}

// launch tries each configured distribution in order and reports whether
// any launch command succeeded.
func (c *Coordinator) launch(ctx context.Context) bool {
	for _, bundle := range c.bundles {
		if err := c.launcher.Launch(ctx, bundle); err != nil {
			c.logger.Warn("launch attempt failed", "bundle", bundle, "error", err)
			continue
		}
		return true
	}
	return false
}

// verifiedEndpoint resolves the advertised port and confirms the API
// answers on it, recording what it saw in status.
func (c *Coordinator) verifiedEndpoint(ctx context.Context, status *Status) (string, bool) {
	port, ok := c.ports.Port()
	if !ok {
		return "", false
	}
	status.Port = port

	status.Healthy = c.health.Healthy(ctx, port)
	if !status.Healthy {
		return "", false
	}
	return fmt.Sprintf("http://127.0.0.1:%d", port), true
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
