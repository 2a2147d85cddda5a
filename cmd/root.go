package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/x64dbg-mcp/x64dbg-mcp/internal/logging"
)

var (
	version string
	verbose bool
	noColor bool
	wire    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "x64dbg-mcp",
	Short: "Debugger control plane and MCP bridge",
	Long: `x64dbg-mcp drives an x64dbg debugging session over the plugin's
loopback HTTP control API.

It provides three front ends over the same API:
- serve: run a simulated debugger engine behind the control API, for
  development and testing without a live debugger
- repl: an interactive shell for driving a debugging session from a
  terminal
- bridge: an MCP (Model Context Protocol) server that exposes every
  control endpoint as a typed tool, for integration with AI assistants

By default the tools talk to http://127.0.0.1:8888, where the debugger
plugin listens. Override this with the --endpoint flag.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// SetVersion sets the version for the application
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&wire, "wire", false, "Enable full request/response wire logging")
}

// newLogger builds the logger configured by the persistent flags.
func newLogger() *logging.Logger {
	return logging.NewLogger(verbose, !noColor, wire)
}

// setupSignalHandler sets up graceful shutdown on interrupt signals
func setupSignalHandler(cancel context.CancelFunc, quiet bool) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		if !quiet {
			fmt.Println("\nReceived interrupt signal, shutting down gracefully...")
		}
		cancel()
	}()
}
