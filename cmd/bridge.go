package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/x64dbg-mcp/x64dbg-mcp/internal/agent"
)

const (
	// transportStdio serves MCP over stdin/stdout
	transportStdio = "stdio"
	// transportStreamableHTTP serves MCP over HTTP at /mcp
	transportStreamableHTTP = "streamable-http"
)

var (
	bridgeEndpoint        string
	bridgeTimeout         time.Duration
	bridgeServerTransport string
	bridgeListenAddr      string
)

// bridgeCmd represents the bridge command
var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Run an MCP server bridging to the debugger control API",
	Long: `The bridge command runs an MCP (Model Context Protocol) server that
exposes every control endpoint as a typed MCP tool.

Each tool performs one control API call and returns the JSON payload as
tool result text, so AI assistants can read registers and memory, step
execution, manage breakpoints and annotations, and patch the debuggee.

The bridge serves MCP over stdio by default, which is what AI assistant
MCP configurations expect. Use --server-transport streamable-http to
serve MCP over HTTP at /mcp instead.`,
	RunE: runBridge,
}

func init() {
	rootCmd.AddCommand(bridgeCmd)

	bridgeCmd.Flags().StringVar(&bridgeEndpoint, "endpoint", agent.DefaultEndpoint, "Control API base URL")
	bridgeCmd.Flags().DurationVar(&bridgeTimeout, "timeout", 0, "Per-request timeout (default 5s)")
	bridgeCmd.Flags().StringVar(&bridgeServerTransport, "server-transport", transportStdio, "Transport protocol for the MCP server itself (stdio, streamable-http)")
	bridgeCmd.Flags().StringVar(&bridgeListenAddr, "listen-addr", ":8899", "Listen address for streamable-http server (path is fixed to /mcp)")
}

func runBridge(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Stdio transport owns stdout, keep shutdown messages off it.
	quiet := bridgeServerTransport == transportStdio
	setupSignalHandler(cancel, quiet)

	logger := newLogger()

	client := agent.NewClient(agent.ClientConfig{
		Endpoint: bridgeEndpoint,
		Timeout:  bridgeTimeout,
		Logger:   logger,
	})

	server, err := agent.NewMCPServer(client, bridgeServerTransport, version, logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if bridgeServerTransport == transportStreamableHTTP {
		addr := bridgeListenAddr
		if !strings.Contains(addr, ":") {
			addr = ":" + addr
		}
		logger.Info("Starting x64dbg-mcp bridge on %s%s", addr, "/mcp")
	}

	if err := server.Start(ctx, bridgeListenAddr); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
