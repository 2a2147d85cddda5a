package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"
)

// requestArgs extracts the argument map from a tool request. Absent
// arguments are treated as an empty map so tools with only optional
// arguments accept a bare call.
func requestArgs(request mcp.CallToolRequest) (map[string]interface{}, bool) {
	if request.Params.Arguments == nil {
		return map[string]interface{}{}, true
	}
	args, ok := request.Params.Arguments.(map[string]interface{})
	return args, ok
}

// stringArg extracts a required non-empty string argument
func stringArg(args map[string]interface{}, key string) (string, bool) {
	v, ok := args[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// boolArg extracts an optional boolean argument
func boolArg(args map[string]interface{}, key string) (bool, bool) {
	v, ok := args[key].(bool)
	return v, ok
}

// forward performs one control API call and wraps the result for MCP.
// API failures become tool errors rather than protocol errors, so the
// model sees them as text it can react to.
func (m *MCPServer) forward(ctx context.Context, endpoint string, query url.Values) (*mcp.CallToolResult, error) {
	body, err := m.client.Call(ctx, endpoint, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(body), nil
}

// forwardWithArgs validates the named required string arguments and
// forwards them as query parameters under the same names.
func (m *MCPServer) forwardWithArgs(ctx context.Context, request mcp.CallToolRequest, endpoint string, required ...string) (*mcp.CallToolResult, error) {
	args, ok := requestArgs(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments type"), nil
	}

	query := url.Values{}
	for _, key := range required {
		v, ok := stringArg(args, key)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("missing or invalid '%s' argument", key)), nil
		}
		query.Set(key, v)
	}
	return m.forward(ctx, endpoint, query)
}

// handleGetStatus handles the get_status tool request
func (m *MCPServer) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forward(ctx, "/status", nil)
}

// handleExecuteCommand handles the execute_command tool request
func (m *MCPServer) handleExecuteCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/cmd", "cmd")
}

// handleGetRegister handles the get_register tool request
func (m *MCPServer) handleGetRegister(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/register/get", "name")
}

// handleSetRegister handles the set_register tool request
func (m *MCPServer) handleSetRegister(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/register/set", "name", "value")
}

// handleReadMemory handles the read_memory tool request
func (m *MCPServer) handleReadMemory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/memory/read", "addr", "size")
}

// handleWriteMemory handles the write_memory tool request
func (m *MCPServer) handleWriteMemory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/memory/write", "addr", "data")
}

// handleRunProcess handles the run_process tool request
func (m *MCPServer) handleRunProcess(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forward(ctx, "/debug/run", nil)
}

// handlePauseProcess handles the pause_process tool request
func (m *MCPServer) handlePauseProcess(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forward(ctx, "/debug/pause", nil)
}

// handleStepExecution handles the step_execution tool request
func (m *MCPServer) handleStepExecution(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forward(ctx, "/debug/step", nil)
}

// handleStepOver handles the step_over tool request
func (m *MCPServer) handleStepOver(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forward(ctx, "/debug/stepover", nil)
}

// handleStepOut handles the step_out tool request
func (m *MCPServer) handleStepOut(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forward(ctx, "/debug/stepout", nil)
}

// handleSetBreakpoint handles the set_breakpoint tool request
func (m *MCPServer) handleSetBreakpoint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/breakpoint/set", "addr")
}

// handleDeleteBreakpoint handles the delete_breakpoint tool request
func (m *MCPServer) handleDeleteBreakpoint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/breakpoint/delete", "addr")
}

// handleDisassembleAt handles the disassemble_at tool request
func (m *MCPServer) handleDisassembleAt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/disasm", "addr")
}

// handleGetModules handles the get_modules tool request
func (m *MCPServer) handleGetModules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forward(ctx, "/modules", nil)
}

// handleAnalyzeCurrentLocation handles the analyze_current_location tool
// request. It chains status, instruction-pointer read and disassembly
// into one location summary, picking eip or rip from the reported
// architecture.
func (m *MCPServer) handleAnalyzeCurrentLocation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := m.client.Status(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ipName := "rip"
	if status.Arch == "x32" {
		ipName = "eip"
	}

	body, err := m.client.Call(ctx, "/register/get", url.Values{"name": {ipName}})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var reg struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal([]byte(body), &reg); err != nil || reg.Value == "" {
		return mcp.NewToolResultError("could not get current location"), nil
	}

	body, err = m.client.Call(ctx, "/disasm", url.Values{"addr": {reg.Value}})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var dis struct {
		Instruction string `json:"instruction"`
		Size        int    `json:"size"`
	}
	if err := json.Unmarshal([]byte(body), &dis); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("decode disassembly: %v", err)), nil
	}

	summary := struct {
		Status      *Status `json:"status"`
		Location    string  `json:"location"`
		Instruction string  `json:"instruction"`
		Size        int     `json:"instruction_size"`
	}{status, reg.Value, dis.Instruction, dis.Size}

	data, err := json.Marshal(summary)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal location summary: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleFindPattern handles the find_pattern_in_memory tool request
func (m *MCPServer) handleFindPattern(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/pattern/find_mem", "start", "size", "pattern")
}

// handleSearchAndReplace handles the search_and_replace_pattern tool request
func (m *MCPServer) handleSearchAndReplace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/pattern/search_replace_mem", "start", "size", "search", "replace")
}

// handleMemorySearch handles the memory_search tool request
func (m *MCPServer) handleMemorySearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := requestArgs(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments type"), nil
	}

	query := url.Values{}
	for _, key := range []string{"start", "size", "pattern"} {
		v, ok := stringArg(args, key)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("missing or invalid '%s' argument", key)), nil
		}
		query.Set(key, v)
	}
	if max, ok := stringArg(args, "max"); ok {
		query.Set("max", max)
	}
	return m.forward(ctx, "/memory/search", query)
}

// handleGetSymbols handles the get_symbols tool request
func (m *MCPServer) handleGetSymbols(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forward(ctx, "/symbols/list", nil)
}

// annotationSet forwards set_label / set_comment requests, which share
// the addr/text/manual argument shape.
func (m *MCPServer) annotationSet(ctx context.Context, request mcp.CallToolRequest, endpoint string) (*mcp.CallToolResult, error) {
	args, ok := requestArgs(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments type"), nil
	}

	query := url.Values{}
	for _, key := range []string{"addr", "text"} {
		v, ok := stringArg(args, key)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("missing or invalid '%s' argument", key)), nil
		}
		query.Set(key, v)
	}
	if manual, ok := boolArg(args, "manual"); ok && manual {
		query.Set("manual", "true")
	}
	return m.forward(ctx, endpoint, query)
}

// handleSetLabel handles the set_label tool request
func (m *MCPServer) handleSetLabel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.annotationSet(ctx, request, "/label/set")
}

// handleGetLabel handles the get_label tool request
func (m *MCPServer) handleGetLabel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/label/get", "addr")
}

// handleDeleteLabel handles the delete_label tool request
func (m *MCPServer) handleDeleteLabel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/label/delete", "addr")
}

// handleResolveLabel handles the resolve_label tool request
func (m *MCPServer) handleResolveLabel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/label/from_string", "label")
}

// handleGetAllLabels handles the get_all_labels tool request
func (m *MCPServer) handleGetAllLabels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forward(ctx, "/label/list", nil)
}

// handleSetComment handles the set_comment tool request
func (m *MCPServer) handleSetComment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.annotationSet(ctx, request, "/comment/set")
}

// handleGetComment handles the get_comment tool request
func (m *MCPServer) handleGetComment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/comment/get", "addr")
}

// handleDeleteComment handles the delete_comment tool request
func (m *MCPServer) handleDeleteComment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/comment/delete", "addr")
}

// handleGetAllComments handles the get_all_comments tool request
func (m *MCPServer) handleGetAllComments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forward(ctx, "/comment/list", nil)
}

// handleStackPush handles the stack_push tool request
func (m *MCPServer) handleStackPush(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/stack/push", "value")
}

// handleStackPop handles the stack_pop tool request
func (m *MCPServer) handleStackPop(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forward(ctx, "/stack/pop", nil)
}

// handleStackPeek handles the stack_peek tool request
func (m *MCPServer) handleStackPeek(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := requestArgs(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments type"), nil
	}

	query := url.Values{}
	if offset, ok := stringArg(args, "offset"); ok {
		query.Set("offset", offset)
	}
	return m.forward(ctx, "/stack/peek", query)
}

// handleAddFunction handles the add_function tool request
func (m *MCPServer) handleAddFunction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/function/add", "start", "end")
}

// handleGetFunctionInfo handles the get_function_info tool request
func (m *MCPServer) handleGetFunctionInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/function/get", "addr")
}

// handleDeleteFunction handles the delete_function tool request
func (m *MCPServer) handleDeleteFunction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/function/delete", "addr")
}

// handleGetAllFunctions handles the get_all_functions tool request
func (m *MCPServer) handleGetAllFunctions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forward(ctx, "/function/list", nil)
}

// handleSetBookmark handles the set_bookmark tool request
func (m *MCPServer) handleSetBookmark(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/bookmark/set", "addr")
}

// handleCheckBookmark handles the check_bookmark tool request
func (m *MCPServer) handleCheckBookmark(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/bookmark/get", "addr")
}

// handleDeleteBookmark handles the delete_bookmark tool request
func (m *MCPServer) handleDeleteBookmark(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/bookmark/delete", "addr")
}

// handleGetAllBookmarks handles the get_all_bookmarks tool request
func (m *MCPServer) handleGetAllBookmarks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forward(ctx, "/bookmark/list", nil)
}

// handleParseExpression handles the parse_expression tool request
func (m *MCPServer) handleParseExpression(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/misc/parse_expression", "expr")
}

// handleResolveLabelAddress handles the resolve_label_address tool request
func (m *MCPServer) handleResolveLabelAddress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/misc/resolve_label", "label")
}

// handleResolveAPIAddress handles the resolve_api_address tool request
func (m *MCPServer) handleResolveAPIAddress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/misc/get_proc_address", "module", "api")
}

// handleAssembleInstruction handles the assemble_instruction tool request
func (m *MCPServer) handleAssembleInstruction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/assembler/assemble", "addr", "instruction")
}

// handleAssembleAndPatch handles the assemble_and_patch tool request
func (m *MCPServer) handleAssembleAndPatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/assembler/assemble_mem", "addr", "instruction")
}

// handleGetCPUFlag handles the get_cpu_flag tool request
func (m *MCPServer) handleGetCPUFlag(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forwardWithArgs(ctx, request, "/flag/get", "flag")
}

// handleSetCPUFlag handles the set_cpu_flag tool request
func (m *MCPServer) handleSetCPUFlag(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := requestArgs(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments type"), nil
	}

	flag, ok := stringArg(args, "flag")
	if !ok {
		return mcp.NewToolResultError("missing or invalid 'flag' argument"), nil
	}
	value, ok := boolArg(args, "value")
	if !ok {
		return mcp.NewToolResultError("missing or invalid 'value' argument"), nil
	}

	query := url.Values{}
	query.Set("flag", flag)
	if value {
		query.Set("value", "1")
	} else {
		query.Set("value", "0")
	}
	return m.forward(ctx, "/flag/set", query)
}

// handleGetAllCPUFlags handles the get_all_cpu_flags tool request
func (m *MCPServer) handleGetAllCPUFlags(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.forward(ctx, "/flags/get_all", nil)
}
