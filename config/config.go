package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved server configuration.
type Config struct {
	// BundleIdentifiers are the Dash distributions to probe, launch, and
	// enable, tried in order. The first entry is the primary
	// distribution.
	BundleIdentifiers []string

	// PreferenceKey is the boolean defaults key that turns on Dash's
	// API server.
	PreferenceKey string

	// ProcessPattern is the pattern matched against the process table to
	// detect a running Dash instance.
	ProcessPattern string

	// StatusFile is the path of the status record Dash writes once its
	// API server is running. Empty means the per-user default.
	StatusFile string

	// LaunchSettle is how long to wait after launching Dash before
	// re-probing the process table.
	LaunchSettle time.Duration

	// EnableSettle is how long to wait after enabling the API preference
	// before retrying port resolution.
	EnableSettle time.Duration

	// CommandTimeout bounds each process-management command
	// (pgrep, open, defaults).
	CommandTimeout time.Duration

	// HealthTimeout bounds the liveness probe request.
	HealthTimeout time.Duration

	// RequestTimeout bounds each Dash API request.
	RequestTimeout time.Duration

	// TokenLimit is the approximate token budget for tool results.
	TokenLimit int
}

// Default returns the stock configuration for a standard Dash install.
func Default() Config {
	return Config{
		BundleIdentifiers: []string{"com.kapeli.dashdoc", "com.kapeli.dash-setapp"},
		PreferenceKey:     "DHAPIServerEnabled",
		ProcessPattern:    "Dash",
		LaunchSettle:      4 * time.Second,
		EnableSettle:      2 * time.Second,
		CommandTimeout:    10 * time.Second,
		HealthTimeout:     5 * time.Second,
		RequestTimeout:    30 * time.Second,
		TokenLimit:        25000,
	}
}

// fileConfig mirrors Config for YAML decoding. Durations are strings in
// Go syntax ("4s", "500ms") because the YAML decoder has no native
// time.Duration support.
type fileConfig struct {
	BundleIdentifiers []string `yaml:"bundle_identifiers"`
	PreferenceKey     *string  `yaml:"preference_key"`
	ProcessPattern    *string  `yaml:"process_pattern"`
	StatusFile        *string  `yaml:"status_file"`
	LaunchSettle      *string  `yaml:"launch_settle"`
	EnableSettle      *string  `yaml:"enable_settle"`
	CommandTimeout    *string  `yaml:"command_timeout"`
	HealthTimeout     *string  `yaml:"health_timeout"`
	RequestTimeout    *string  `yaml:"request_timeout"`
	TokenLimit        *int     `yaml:"token_limit"`
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults untouched.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := fc.apply(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

func (fc fileConfig) apply(cfg *Config) error {
	if fc.BundleIdentifiers != nil {
		cfg.BundleIdentifiers = fc.BundleIdentifiers
	}
	if fc.PreferenceKey != nil {
		cfg.PreferenceKey = *fc.PreferenceKey
	}
	if fc.ProcessPattern != nil {
		cfg.ProcessPattern = *fc.ProcessPattern
	}
	if fc.StatusFile != nil {
		cfg.StatusFile = *fc.StatusFile
	}
	if fc.TokenLimit != nil {
		cfg.TokenLimit = *fc.TokenLimit
	}

	durations := []struct {
		name string
		raw  *string
		dst  *time.Duration
	}{
		{"launch_settle", fc.LaunchSettle, &cfg.LaunchSettle},
		{"enable_settle", fc.EnableSettle, &cfg.EnableSettle},
		{"command_timeout", fc.CommandTimeout, &cfg.CommandTimeout},
		{"health_timeout", fc.HealthTimeout, &cfg.HealthTimeout},
		{"request_timeout", fc.RequestTimeout, &cfg.RequestTimeout},
	}
	for _, d := range durations {
		if d.raw == nil {
			continue
		}
		parsed, err := time.ParseDuration(*d.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		*d.dst = parsed
	}
	return nil
}

// FromEnv overlays DASH_MCP_* environment variables onto cfg.
func FromEnv(cfg Config) Config {
	if v := os.Getenv("DASH_MCP_STATUS_FILE"); v != "" {
		cfg.StatusFile = v
	}
	if v := os.Getenv("DASH_MCP_PROCESS_PATTERN"); v != "" {
		cfg.ProcessPattern = v
	}
	cfg.TokenLimit = envIntOrDefault("DASH_MCP_TOKEN_LIMIT", cfg.TokenLimit)
	return cfg
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if len(c.BundleIdentifiers) == 0 {
		return fmt.Errorf("at least one bundle identifier is required")
	}
	if c.PreferenceKey == "" {
		return fmt.Errorf("preference_key must not be empty")
	}
	if c.TokenLimit <= 0 {
		return fmt.Errorf("token_limit must be positive, got %d", c.TokenLimit)
	}
	return nil
}

// ResolveStatusFile returns the status record path, falling back to the
// per-user default under the home directory.
func (c Config) ResolveStatusFile() (string, error) {
	if c.StatusFile != "" {
		return c.StatusFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, "Library", "Application Support", "Dash",
		".dash_api_server", "status.json"), nil
}

func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
