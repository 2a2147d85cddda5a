package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/x64dbg-mcp/x64dbg-mcp/internal/logging"
)

// errExit is a sentinel error used to signal REPL exit
var errExit = errors.New("exit")

// REPL is an interactive shell over the debugger control API.
type REPL struct {
	client          *Client
	logger          *logging.Logger
	rl              *readline.Instance
	commandHandlers map[string]commandHandler
}

// NewREPL creates a new REPL instance bound to the given client.
func NewREPL(client *Client, logger *logging.Logger) *REPL {
	r := &REPL{
		client: client,
		logger: logger,
	}
	r.commandHandlers = r.buildCommandHandlers()
	return r
}

// Run starts the REPL and blocks until exit or context cancellation.
func (r *REPL) Run(ctx context.Context) error {
	historyFile := filepath.Join(os.TempDir(), ".x64dbg_mcp_history")

	config := &readline.Config{
		Prompt:          "dbg> ",
		HistoryFile:     historyFile,
		AutoComplete:    r.createCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	}

	rl, err := readline.NewEx(config)
	if err != nil {
		return fmt.Errorf("failed to create readline instance: %w", err)
	}
	defer func() { _ = rl.Close() }()
	r.rl = rl

	r.logger.Info("Connected to %s. Type 'help' for available commands. Use TAB for completion.", r.client.Endpoint())
	fmt.Println()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("REPL shutting down...")
			return nil
		default:
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				continue
			}
		} else if err == io.EOF {
			r.logger.Info("Goodbye!")
			return nil
		} else if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if err := r.executeCommand(ctx, input); err != nil {
			if errors.Is(err, errExit) {
				r.logger.Info("Goodbye!")
				return nil
			}
			r.logger.Error("Error: %v", err)
		}

		fmt.Println()
	}
}

// createCompleter creates the tab completion configuration
func (r *REPL) createCompleter() *readline.PrefixCompleter {
	regItems := buildPcItems([]string{
		"eax", "ebx", "ecx", "edx", "esi", "edi", "ebp", "esp", "eip",
		"rax", "rbx", "rcx", "rdx", "rsi", "rdi", "rbp", "rsp", "rip",
	})
	flagItems := buildPcItems([]string{
		"ZF", "OF", "CF", "PF", "SF", "TF", "AF", "DF", "IF",
	})

	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("?"),
		readline.PcItem("exit"),
		readline.PcItem("quit"),
		readline.PcItem("status"),
		readline.PcItem("cmd"),
		readline.PcItem("reg", regItems...),
		readline.PcItem("read"),
		readline.PcItem("write"),
		readline.PcItem("run"),
		readline.PcItem("pause"),
		readline.PcItem("step"),
		readline.PcItem("stepover"),
		readline.PcItem("stepout"),
		readline.PcItem("bp"),
		readline.PcItem("bpc"),
		readline.PcItem("disasm"),
		readline.PcItem("modules"),
		readline.PcItem("symbols"),
		readline.PcItem("labels"),
		readline.PcItem("comments"),
		readline.PcItem("functions"),
		readline.PcItem("bookmarks"),
		readline.PcItem("stack",
			readline.PcItem("push"),
			readline.PcItem("pop"),
			readline.PcItem("peek"),
		),
		readline.PcItem("eval"),
		readline.PcItem("flag", flagItems...),
		readline.PcItem("flags"),
		readline.PcItem("raw"),
	)
}

// buildPcItems converts a slice of strings to readline completer items
func buildPcItems(names []string) []readline.PrefixCompleterInterface {
	items := make([]readline.PrefixCompleterInterface, len(names))
	for i, name := range names {
		items[i] = readline.PcItem(name)
	}
	return items
}

// filterInput filters input characters for readline
func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// commandHandler defines a REPL command with its handler and argument requirements
type commandHandler struct {
	minArgs int
	usage   string
	handler func(ctx context.Context, parts []string) error
}

// buildCommandHandlers creates the map of command handlers
func (r *REPL) buildCommandHandlers() map[string]commandHandler {
	return map[string]commandHandler{
		"help": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return r.showHelp()
		}},
		"?": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return r.showHelp()
		}},
		"exit": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return errExit
		}},
		"quit": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return errExit
		}},
		"status": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return r.show(ctx, "/status", nil)
		}},
		"cmd": {
			minArgs: 2,
			usage:   "usage: cmd <debugger command>",
			handler: func(ctx context.Context, parts []string) error {
				return r.show(ctx, "/cmd", url.Values{"cmd": {strings.Join(parts[1:], " ")}})
			},
		},
		"reg": {
			minArgs: 2,
			usage:   "usage: reg <name> [value]",
			handler: func(ctx context.Context, parts []string) error {
				return r.handleReg(ctx, parts)
			},
		},
		"read": {
			minArgs: 3,
			usage:   "usage: read <addr> <size>",
			handler: func(ctx context.Context, parts []string) error {
				return r.show(ctx, "/memory/read", url.Values{
					"addr": {parts[1]},
					"size": {parts[2]},
				})
			},
		},
		"write": {
			minArgs: 3,
			usage:   "usage: write <addr> <hex-bytes>",
			handler: func(ctx context.Context, parts []string) error {
				return r.show(ctx, "/memory/write", url.Values{
					"addr": {parts[1]},
					"data": {parts[2]},
				})
			},
		},
		"run": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return r.show(ctx, "/debug/run", nil)
		}},
		"pause": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return r.show(ctx, "/debug/pause", nil)
		}},
		"step": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return r.show(ctx, "/debug/step", nil)
		}},
		"stepover": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return r.show(ctx, "/debug/stepover", nil)
		}},
		"stepout": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return r.show(ctx, "/debug/stepout", nil)
		}},
		"bp": {
			minArgs: 2,
			usage:   "usage: bp <addr>",
			handler: func(ctx context.Context, parts []string) error {
				return r.show(ctx, "/breakpoint/set", url.Values{"addr": {parts[1]}})
			},
		},
		"bpc": {
			minArgs: 2,
			usage:   "usage: bpc <addr>",
			handler: func(ctx context.Context, parts []string) error {
				return r.show(ctx, "/breakpoint/delete", url.Values{"addr": {parts[1]}})
			},
		},
		"disasm": {
			minArgs: 2,
			usage:   "usage: disasm <addr>",
			handler: func(ctx context.Context, parts []string) error {
				return r.show(ctx, "/disasm", url.Values{"addr": {parts[1]}})
			},
		},
		"modules": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return r.show(ctx, "/modules", nil)
		}},
		"symbols": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return r.show(ctx, "/symbols/list", nil)
		}},
		"labels": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return r.show(ctx, "/label/list", nil)
		}},
		"comments": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return r.show(ctx, "/comment/list", nil)
		}},
		"functions": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return r.show(ctx, "/function/list", nil)
		}},
		"bookmarks": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return r.show(ctx, "/bookmark/list", nil)
		}},
		"stack": {
			minArgs: 2,
			usage:   "usage: stack <push|pop|peek> [value|offset]",
			handler: func(ctx context.Context, parts []string) error {
				return r.handleStack(ctx, parts)
			},
		},
		"eval": {
			minArgs: 2,
			usage:   "usage: eval <expression>",
			handler: func(ctx context.Context, parts []string) error {
				return r.show(ctx, "/misc/parse_expression", url.Values{
					"expr": {strings.Join(parts[1:], " ")},
				})
			},
		},
		"flag": {
			minArgs: 2,
			usage:   "usage: flag <name> [0|1]",
			handler: func(ctx context.Context, parts []string) error {
				return r.handleFlag(ctx, parts)
			},
		},
		"flags": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return r.show(ctx, "/flags/get_all", nil)
		}},
		"raw": {
			minArgs: 2,
			usage:   "usage: raw </endpoint?query>",
			handler: func(ctx context.Context, parts []string) error {
				return r.handleRaw(ctx, parts[1])
			},
		},
	}
}

// executeCommand parses and executes a command
func (r *REPL) executeCommand(ctx context.Context, input string) error {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	command := strings.ToLower(parts[0])

	handler, exists := r.commandHandlers[command]
	if !exists {
		return fmt.Errorf("unknown command: %s. Type 'help' for available commands", command)
	}

	if len(parts) < handler.minArgs {
		return errors.New(handler.usage)
	}

	return handler.handler(ctx, parts)
}

// show performs one API call and pretty-prints the JSON response.
func (r *REPL) show(ctx context.Context, endpoint string, query url.Values) error {
	body, err := r.client.Call(ctx, endpoint, query)
	if err != nil {
		return err
	}
	fmt.Println(PrettyJSON(body))
	return nil
}

// handleReg reads a register, or writes it when a value is given.
func (r *REPL) handleReg(ctx context.Context, parts []string) error {
	if len(parts) >= 3 {
		return r.show(ctx, "/register/set", url.Values{
			"name":  {parts[1]},
			"value": {parts[2]},
		})
	}
	return r.show(ctx, "/register/get", url.Values{"name": {parts[1]}})
}

// handleStack dispatches the stack subcommands.
func (r *REPL) handleStack(ctx context.Context, parts []string) error {
	switch strings.ToLower(parts[1]) {
	case "push":
		if len(parts) < 3 {
			return errors.New("usage: stack push <value>")
		}
		return r.show(ctx, "/stack/push", url.Values{"value": {parts[2]}})
	case "pop":
		return r.show(ctx, "/stack/pop", nil)
	case "peek":
		q := url.Values{}
		if len(parts) >= 3 {
			q.Set("offset", parts[2])
		}
		return r.show(ctx, "/stack/peek", q)
	default:
		return fmt.Errorf("unknown stack operation: %s. Use 'push', 'pop', or 'peek'", parts[1])
	}
}

// handleFlag reads a CPU flag, or sets it when a value is given.
func (r *REPL) handleFlag(ctx context.Context, parts []string) error {
	if len(parts) >= 3 {
		return r.show(ctx, "/flag/set", url.Values{
			"flag":  {parts[1]},
			"value": {parts[2]},
		})
	}
	return r.show(ctx, "/flag/get", url.Values{"flag": {parts[1]}})
}

// handleRaw sends an arbitrary endpoint with an inline query string.
func (r *REPL) handleRaw(ctx context.Context, target string) error {
	if !strings.HasPrefix(target, "/") {
		target = "/" + target
	}
	endpoint := target
	var query url.Values
	if i := strings.IndexByte(target, '?'); i >= 0 {
		endpoint = target[:i]
		q, err := url.ParseQuery(target[i+1:])
		if err != nil {
			return fmt.Errorf("invalid query string: %w", err)
		}
		query = q
	}
	return r.show(ctx, endpoint, query)
}

// showHelp displays available commands
func (r *REPL) showHelp() error {
	fmt.Println("Available commands:")
	fmt.Println("  help, ?                      - Show this help message")
	fmt.Println("  status                       - Show debugger status")
	fmt.Println("  cmd <command>                - Execute a raw debugger command")
	fmt.Println("  reg <name> [value]           - Read or write a CPU register")
	fmt.Println("  read <addr> <size>           - Read memory (hex dump)")
	fmt.Println("  write <addr> <hex>           - Write hex bytes to memory")
	fmt.Println("  run, pause                   - Resume or suspend the debuggee")
	fmt.Println("  step, stepover, stepout      - Single-step execution")
	fmt.Println("  bp <addr>, bpc <addr>        - Set or clear a breakpoint")
	fmt.Println("  disasm <addr>                - Disassemble at an address")
	fmt.Println("  modules, symbols             - List loaded modules / symbols")
	fmt.Println("  labels, comments             - List labels / comments")
	fmt.Println("  functions, bookmarks         - List functions / bookmarks")
	fmt.Println("  stack <push|pop|peek> [arg]  - Manipulate the debuggee stack")
	fmt.Println("  eval <expression>            - Evaluate an expression")
	fmt.Println("  flag <name> [0|1]            - Read or set a CPU flag")
	fmt.Println("  flags                        - Show all CPU flags")
	fmt.Println("  raw </endpoint?query>        - Send a raw API request")
	fmt.Println("  exit, quit                   - Exit the REPL")
	fmt.Println()
	fmt.Println("Keyboard shortcuts:")
	fmt.Println("  TAB                          - Auto-complete commands and arguments")
	fmt.Println("  ↑/↓ (arrow keys)             - Navigate command history")
	fmt.Println("  Ctrl+R                       - Search command history")
	fmt.Println("  Ctrl+C                       - Cancel current line")
	fmt.Println("  Ctrl+D                       - Exit REPL")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  reg eip")
	fmt.Println("  read 0x401000 64")
	fmt.Println("  bp 0x401000")
	fmt.Println("  eval eip+0x10")
	return nil
}
