package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/x64dbg-mcp/x64dbg-mcp/internal/agent"
)

var (
	replEndpoint string
	replTimeout  time.Duration
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive shell over the debugger control API",
	Long: `The repl command starts an interactive shell for driving a
debugging session from a terminal.

Commands map one-to-one onto the control API: register and memory
access, execution control, breakpoints, disassembly, annotations, stack
manipulation and expression evaluation. Responses are pretty-printed
JSON. Use TAB for completion and 'help' for the full command list.`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().StringVar(&replEndpoint, "endpoint", agent.DefaultEndpoint, "Control API base URL")
	replCmd.Flags().DurationVar(&replTimeout, "timeout", 0, "Per-request timeout (default 5s)")
}

func runRepl(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	setupSignalHandler(cancel, false)

	logger := newLogger()

	client := agent.NewClient(agent.ClientConfig{
		Endpoint: replEndpoint,
		Timeout:  replTimeout,
		Logger:   logger,
	})

	// Probe the server so a dead endpoint fails fast with a useful hint
	// instead of on the first command.
	if _, err := client.Status(ctx); err != nil {
		return fmt.Errorf("failed to reach control API: %w", err)
	}

	repl := agent.NewREPL(client, logger)
	if err := repl.Run(ctx); err != nil {
		return fmt.Errorf("REPL error: %w", err)
	}
	return nil
}
