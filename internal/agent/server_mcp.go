package agent

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/x64dbg-mcp/x64dbg-mcp/internal/logging"
)

// MCPServer exposes the debugger control API as MCP tools
type MCPServer struct {
	client          *Client
	logger          *logging.Logger
	mcpServer       *server.MCPServer
	serverTransport string
}

// NewMCPServer creates a new MCP server bridging to the control API
func NewMCPServer(client *Client, serverTransport string, version string, logger *logging.Logger) (*MCPServer, error) {
	mcpServer := server.NewMCPServer(
		"x64dbg-mcp",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithPromptCapabilities(false),
	)

	ms := &MCPServer{
		client:          client,
		logger:          logger,
		mcpServer:       mcpServer,
		serverTransport: serverTransport,
	}

	// Register all tools
	ms.registerTools()

	return ms, nil
}

// Start starts the MCP server using stdio or streamable-http transport
func (m *MCPServer) Start(ctx context.Context, listenAddr string) error {
	switch m.serverTransport {
	case "stdio":
		return server.ServeStdio(m.mcpServer)
	case "streamable-http":
		httpServer := server.NewStreamableHTTPServer(
			m.mcpServer,
			server.WithEndpointPath("/mcp"),
		)
		return httpServer.Start(listenAddr)
	default:
		return fmt.Errorf("unsupported server transport: %s", m.serverTransport)
	}
}

// registerTools registers all MCP tools
func (m *MCPServer) registerTools() {
	// Status and command execution
	m.mcpServer.AddTool(mcp.NewTool("get_status",
		mcp.WithDescription("Get debugger status: protocol version, architecture, whether a debuggee is loaded and running"),
	), m.handleGetStatus)

	m.mcpServer.AddTool(mcp.NewTool("execute_command",
		mcp.WithDescription("Execute a raw debugger command"),
		mcp.WithString("cmd",
			mcp.Required(),
			mcp.Description("Debugger command to execute"),
		),
	), m.handleExecuteCommand)

	// Registers
	m.mcpServer.AddTool(mcp.NewTool("get_register",
		mcp.WithDescription("Read a CPU register value"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Register name (e.g. eax, eip, rsp)"),
		),
	), m.handleGetRegister)

	m.mcpServer.AddTool(mcp.NewTool("set_register",
		mcp.WithDescription("Write a CPU register value"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Register name (e.g. eax, eip, rsp)"),
		),
		mcp.WithString("value",
			mcp.Required(),
			mcp.Description("New value (hex with 0x prefix, or decimal)"),
		),
	), m.handleSetRegister)

	// Memory
	m.mcpServer.AddTool(mcp.NewTool("read_memory",
		mcp.WithDescription("Read debuggee memory, returned as a hex string (max 1 MiB per call)"),
		mcp.WithString("addr",
			mcp.Required(),
			mcp.Description("Address to read from (hex with 0x prefix, or decimal)"),
		),
		mcp.WithString("size",
			mcp.Required(),
			mcp.Description("Number of bytes to read"),
		),
	), m.handleReadMemory)

	m.mcpServer.AddTool(mcp.NewTool("write_memory",
		mcp.WithDescription("Write bytes to debuggee memory"),
		mcp.WithString("addr",
			mcp.Required(),
			mcp.Description("Address to write to"),
		),
		mcp.WithString("data",
			mcp.Required(),
			mcp.Description("Bytes to write as a hex string (e.g. 9090c3)"),
		),
	), m.handleWriteMemory)

	// Execution control
	m.mcpServer.AddTool(mcp.NewTool("run_process",
		mcp.WithDescription("Resume debuggee execution"),
	), m.handleRunProcess)

	m.mcpServer.AddTool(mcp.NewTool("pause_process",
		mcp.WithDescription("Suspend debuggee execution"),
	), m.handlePauseProcess)

	m.mcpServer.AddTool(mcp.NewTool("step_execution",
		mcp.WithDescription("Single-step one instruction, following calls"),
	), m.handleStepExecution)

	m.mcpServer.AddTool(mcp.NewTool("step_over",
		mcp.WithDescription("Single-step one instruction, stepping over calls"),
	), m.handleStepOver)

	m.mcpServer.AddTool(mcp.NewTool("step_out",
		mcp.WithDescription("Run until the current function returns"),
	), m.handleStepOut)

	// Breakpoints
	m.mcpServer.AddTool(mcp.NewTool("set_breakpoint",
		mcp.WithDescription("Set a software breakpoint at an address"),
		mcp.WithString("addr",
			mcp.Required(),
			mcp.Description("Breakpoint address"),
		),
	), m.handleSetBreakpoint)

	m.mcpServer.AddTool(mcp.NewTool("delete_breakpoint",
		mcp.WithDescription("Delete the breakpoint at an address"),
		mcp.WithString("addr",
			mcp.Required(),
			mcp.Description("Breakpoint address"),
		),
	), m.handleDeleteBreakpoint)

	// Disassembly and modules
	m.mcpServer.AddTool(mcp.NewTool("disassemble_at",
		mcp.WithDescription("Disassemble the instruction at an address"),
		mcp.WithString("addr",
			mcp.Required(),
			mcp.Description("Address to disassemble"),
		),
	), m.handleDisassembleAt)

	m.mcpServer.AddTool(mcp.NewTool("get_modules",
		mcp.WithDescription("List loaded modules with base addresses, sizes and entry points"),
	), m.handleGetModules)

	m.mcpServer.AddTool(mcp.NewTool("analyze_current_location",
		mcp.WithDescription("Get the debugger status, the current instruction pointer and the disassembly at it in one call"),
	), m.handleAnalyzeCurrentLocation)

	// Pattern search
	m.mcpServer.AddTool(mcp.NewTool("find_pattern_in_memory",
		mcp.WithDescription("Find the first occurrence of a byte pattern in a memory range (?? wildcards supported)"),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Range start address"),
		),
		mcp.WithString("size",
			mcp.Required(),
			mcp.Description("Range size in bytes"),
		),
		mcp.WithString("pattern",
			mcp.Required(),
			mcp.Description("Byte pattern, e.g. '48 8B ?? 90'"),
		),
	), m.handleFindPattern)

	m.mcpServer.AddTool(mcp.NewTool("search_and_replace_pattern",
		mcp.WithDescription("Find a byte pattern and overwrite it in place"),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Range start address"),
		),
		mcp.WithString("size",
			mcp.Required(),
			mcp.Description("Range size in bytes"),
		),
		mcp.WithString("search",
			mcp.Required(),
			mcp.Description("Pattern to search for"),
		),
		mcp.WithString("replace",
			mcp.Required(),
			mcp.Description("Replacement bytes"),
		),
	), m.handleSearchAndReplace)

	m.mcpServer.AddTool(mcp.NewTool("memory_search",
		mcp.WithDescription("Find every occurrence of a byte pattern in a memory range"),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Range start address"),
		),
		mcp.WithString("size",
			mcp.Required(),
			mcp.Description("Range size in bytes"),
		),
		mcp.WithString("pattern",
			mcp.Required(),
			mcp.Description("Byte pattern, e.g. '48 8B ?? 90'"),
		),
		mcp.WithString("max",
			mcp.Description("Maximum number of results (default 100)"),
		),
	), m.handleMemorySearch)

	// Symbols
	m.mcpServer.AddTool(mcp.NewTool("get_symbols",
		mcp.WithDescription("List known symbols with addresses and types"),
	), m.handleGetSymbols)

	// Labels
	m.mcpServer.AddTool(mcp.NewTool("set_label",
		mcp.WithDescription("Attach a label to an address"),
		mcp.WithString("addr",
			mcp.Required(),
			mcp.Description("Address to label"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Label text"),
		),
		mcp.WithBoolean("manual",
			mcp.Description("Mark the label as manually placed"),
		),
	), m.handleSetLabel)

	m.mcpServer.AddTool(mcp.NewTool("get_label",
		mcp.WithDescription("Read the label at an address"),
		mcp.WithString("addr",
			mcp.Required(),
			mcp.Description("Address to query"),
		),
	), m.handleGetLabel)

	m.mcpServer.AddTool(mcp.NewTool("delete_label",
		mcp.WithDescription("Remove the label at an address"),
		mcp.WithString("addr",
			mcp.Required(),
			mcp.Description("Address to clear"),
		),
	), m.handleDeleteLabel)

	m.mcpServer.AddTool(mcp.NewTool("resolve_label",
		mcp.WithDescription("Resolve a label string to its address"),
		mcp.WithString("label",
			mcp.Required(),
			mcp.Description("Label text to resolve"),
		),
	), m.handleResolveLabel)

	m.mcpServer.AddTool(mcp.NewTool("get_all_labels",
		mcp.WithDescription("List every label with its address"),
	), m.handleGetAllLabels)

	// Comments
	m.mcpServer.AddTool(mcp.NewTool("set_comment",
		mcp.WithDescription("Attach a comment to an address"),
		mcp.WithString("addr",
			mcp.Required(),
			mcp.Description("Address to comment"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Comment text"),
		),
		mcp.WithBoolean("manual",
			mcp.Description("Mark the comment as manually placed"),
		),
	), m.handleSetComment)

	m.mcpServer.AddTool(mcp.NewTool("get_comment",
		mcp.WithDescription("Read the comment at an address"),
		mcp.WithString("addr",
			mcp.Required(),
			mcp.Description("Address to query"),
		),
	), m.handleGetComment)

	m.mcpServer.AddTool(mcp.NewTool("delete_comment",
		mcp.WithDescription("Remove the comment at an address"),
		mcp.WithString("addr",
			mcp.Required(),
			mcp.Description("Address to clear"),
		),
	), m.handleDeleteComment)

	m.mcpServer.AddTool(mcp.NewTool("get_all_comments",
		mcp.WithDescription("List every comment with its address"),
	), m.handleGetAllComments)

	// Stack
	m.mcpServer.AddTool(mcp.NewTool("stack_push",
		mcp.WithDescription("Push a value onto the debuggee stack"),
		mcp.WithString("value",
			mcp.Required(),
			mcp.Description("Value to push"),
		),
	), m.handleStackPush)

	m.mcpServer.AddTool(mcp.NewTool("stack_pop",
		mcp.WithDescription("Pop the top value from the debuggee stack"),
	), m.handleStackPop)

	m.mcpServer.AddTool(mcp.NewTool("stack_peek",
		mcp.WithDescription("Read a stack slot without popping"),
		mcp.WithString("offset",
			mcp.Description("Slot offset from the top of the stack (default 0)"),
		),
	), m.handleStackPeek)

	// Functions
	m.mcpServer.AddTool(mcp.NewTool("add_function",
		mcp.WithDescription("Define a function over an address range"),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Function start address"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("Function end address"),
		),
	), m.handleAddFunction)

	m.mcpServer.AddTool(mcp.NewTool("get_function_info",
		mcp.WithDescription("Get the function containing an address"),
		mcp.WithString("addr",
			mcp.Required(),
			mcp.Description("Address inside the function"),
		),
	), m.handleGetFunctionInfo)

	m.mcpServer.AddTool(mcp.NewTool("delete_function",
		mcp.WithDescription("Delete the function containing an address"),
		mcp.WithString("addr",
			mcp.Required(),
			mcp.Description("Address inside the function"),
		),
	), m.handleDeleteFunction)

	m.mcpServer.AddTool(mcp.NewTool("get_all_functions",
		mcp.WithDescription("List every defined function"),
	), m.handleGetAllFunctions)

	// Bookmarks
	m.mcpServer.AddTool(mcp.NewTool("set_bookmark",
		mcp.WithDescription("Place a bookmark at an address"),
		mcp.WithString("addr",
			mcp.Required(),
			mcp.Description("Address to bookmark"),
		),
	), m.handleSetBookmark)

	m.mcpServer.AddTool(mcp.NewTool("check_bookmark",
		mcp.WithDescription("Check whether an address is bookmarked"),
		mcp.WithString("addr",
			mcp.Required(),
			mcp.Description("Address to check"),
		),
	), m.handleCheckBookmark)

	m.mcpServer.AddTool(mcp.NewTool("delete_bookmark",
		mcp.WithDescription("Remove the bookmark at an address"),
		mcp.WithString("addr",
			mcp.Required(),
			mcp.Description("Address to clear"),
		),
	), m.handleDeleteBookmark)

	m.mcpServer.AddTool(mcp.NewTool("get_all_bookmarks",
		mcp.WithDescription("List every bookmarked address"),
	), m.handleGetAllBookmarks)

	// Expression and address resolution
	m.mcpServer.AddTool(mcp.NewTool("parse_expression",
		mcp.WithDescription("Evaluate a debugger expression (registers, labels, arithmetic)"),
		mcp.WithString("expr",
			mcp.Required(),
			mcp.Description("Expression to evaluate, e.g. 'eip+0x10'"),
		),
	), m.handleParseExpression)

	m.mcpServer.AddTool(mcp.NewTool("resolve_label_address",
		mcp.WithDescription("Resolve a label or symbol name to its address via the expression engine"),
		mcp.WithString("label",
			mcp.Required(),
			mcp.Description("Label or symbol name"),
		),
	), m.handleResolveLabelAddress)

	m.mcpServer.AddTool(mcp.NewTool("resolve_api_address",
		mcp.WithDescription("Resolve an exported API function to its address"),
		mcp.WithString("module",
			mcp.Required(),
			mcp.Description("Module name, e.g. kernel32.dll"),
		),
		mcp.WithString("api",
			mcp.Required(),
			mcp.Description("Exported function name, e.g. VirtualAlloc"),
		),
	), m.handleResolveAPIAddress)

	// Assembler
	m.mcpServer.AddTool(mcp.NewTool("assemble_instruction",
		mcp.WithDescription("Assemble an instruction at an address without writing it"),
		mcp.WithString("addr",
			mcp.Required(),
			mcp.Description("Address the instruction is assembled for"),
		),
		mcp.WithString("instruction",
			mcp.Required(),
			mcp.Description("Instruction mnemonic, e.g. 'nop' or 'xor eax, eax'"),
		),
	), m.handleAssembleInstruction)

	m.mcpServer.AddTool(mcp.NewTool("assemble_and_patch",
		mcp.WithDescription("Assemble an instruction and write it into debuggee memory"),
		mcp.WithString("addr",
			mcp.Required(),
			mcp.Description("Address to patch"),
		),
		mcp.WithString("instruction",
			mcp.Required(),
			mcp.Description("Instruction mnemonic to assemble and write"),
		),
	), m.handleAssembleAndPatch)

	// CPU flags
	m.mcpServer.AddTool(mcp.NewTool("get_cpu_flag",
		mcp.WithDescription("Read a CPU flag (ZF, OF, CF, PF, SF, TF, AF, DF, IF)"),
		mcp.WithString("flag",
			mcp.Required(),
			mcp.Description("Flag name"),
		),
	), m.handleGetCPUFlag)

	m.mcpServer.AddTool(mcp.NewTool("set_cpu_flag",
		mcp.WithDescription("Set or clear a CPU flag"),
		mcp.WithString("flag",
			mcp.Required(),
			mcp.Description("Flag name"),
		),
		mcp.WithBoolean("value",
			mcp.Required(),
			mcp.Description("New flag value"),
		),
	), m.handleSetCPUFlag)

	m.mcpServer.AddTool(mcp.NewTool("get_all_cpu_flags",
		mcp.WithDescription("Read every CPU flag at once"),
	), m.handleGetAllCPUFlags)
}
