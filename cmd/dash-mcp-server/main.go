// Command dash-mcp-server exposes the local Dash documentation browser
// to MCP clients over stdio or streamable HTTP.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/phene/dash-mcp-server/bootstrap"
	"github.com/phene/dash-mcp-server/config"
	"github.com/phene/dash-mcp-server/mcpserver"
)

var (
	flagConfig   string
	flagHTTPAddr string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "dash-mcp-server",
	Short: "MCP server for the Dash documentation browser",
	Long: `dash-mcp-server exposes Dash docset listing, documentation search,
content fetching, and full-text-search management as MCP tools.

Dash is launched and its API server integration enabled automatically on
the first tool call that needs it. By default the server speaks MCP over
stdio, which is what editor and desktop-client integrations expect; pass
--http to serve the streamable HTTP transport instead.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "path to a YAML config file")
	rootCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "serve MCP over HTTP on this address instead of stdio")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.Version = mcpserver.Version
}

func run(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(flagLogLevel)
	if err != nil {
		return err
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	cfg = config.FromEnv(cfg)

	coordinator, err := bootstrap.New(cfg, bootstrap.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to set up the bootstrap coordinator: %w", err)
	}

	server := mcpserver.New(cfg, coordinator, mcpserver.WithLogger(logger))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flagHTTPAddr != "" {
		logger.Info("serving mcp over http", "addr", flagHTTPAddr)
		httpServer := &http.Server{Addr: flagHTTPAddr, Handler: server.HTTPHandler()}
		go func() {
			<-ctx.Done()
			_ = httpServer.Close()
		}()
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}

	logger.Info("serving mcp over stdio")
	return server.RunStdio(ctx)
}

// newLogger builds a text logger on stderr. Stdout stays reserved for
// the stdio MCP transport.
func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
