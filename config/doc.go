// Package config holds the runtime configuration for the Dash MCP
// server: which Dash distributions to look for, where Dash writes its
// API status record, how long to wait for Dash to settle after launch
// or preference changes, and the token budget applied to tool results.
//
// Configuration is resolved in three layers, later layers winning:
//
//  1. Defaults (everything works out of the box on a standard install).
//  2. An optional YAML file, loaded with Load.
//  3. DASH_MCP_* environment variables, applied by FromEnv.
//
// A zero-config run targets the two known Dash distributions (direct
// download and Setapp) with the stock settle delays and a 25,000 token
// result budget.
package config
