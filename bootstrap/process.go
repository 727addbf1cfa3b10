package bootstrap

import "context"

// ProcessProbe reports whether the Dash application is currently
// running. The answer is derived from live OS state on every call.
type ProcessProbe interface {
	Running(ctx context.Context) bool
}

// Launcher starts a Dash distribution in the background. A nil error
// means the launch command reported success, not that the application
// has finished starting.
type Launcher interface {
	Launch(ctx context.Context, bundleID string) error
}

// Enabler persists the API-server preference for one distribution.
// Writing an already-set preference is a no-op, so Enable is safe to
// repeat and safe to apply to distributions that are not installed.
type Enabler interface {
	Enable(ctx context.Context, bundleID string) error
}

// pgrepProbe checks the process table with pgrep -f.
type pgrepProbe struct {
	runner  Runner
	pattern string
}

func (p pgrepProbe) Running(ctx context.Context) bool {
	// pgrep exits non-zero when no process matches; any failure mode
	// (including a missing pgrep) reads as "not running".
	return p.runner.Run(ctx, "pgrep", "-f", p.pattern) == nil
}

// openLauncher starts the application via launch services, without
// bringing it to the foreground (-g) or opening a window (-j).
type openLauncher struct {
	runner Runner
}

func (l openLauncher) Launch(ctx context.Context, bundleID string) error {
	return l.runner.Run(ctx, "open", "-g", "-j", "-b", bundleID)
}

// defaultsEnabler writes the API-server preference with defaults(1).
type defaultsEnabler struct {
	runner Runner
	key    string
}

func (e defaultsEnabler) Enable(ctx context.Context, bundleID string) error {
	return e.runner.Run(ctx, "defaults", "write", bundleID, e.key, "YES")
}
