package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/x64dbg-mcp/x64dbg-mcp/internal/engine"
	"github.com/x64dbg-mcp/x64dbg-mcp/internal/httpd"
)

var serveListen string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the control API against a simulated debugger engine",
	Long: `The serve command starts the loopback control API backed by a
simulated debugger engine.

The simulated engine models a small 32-bit debuggee: one module with a
seeded entry-point prologue, a stack, registers, CPU flags and the full
annotation surface (labels, comments, bookmarks, functions). Every
control endpoint behaves as it does against a live debugger, which makes
this mode useful for developing clients, testing MCP integrations and
demos without attaching to a real process.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveListen, "listen", httpd.DefaultAddr, "Listen address for the control API")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	setupSignalHandler(cancel, false)

	logger := newLogger()

	srv := httpd.New(httpd.Config{
		Addr:   serveListen,
		Engine: engine.NewSim(),
		Logger: logger,
	})
	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start control server: %w", err)
	}

	logger.Info("Simulated engine ready. Press Ctrl+C to stop.")
	<-ctx.Done()
	srv.Stop()
	return nil
}
