package httpd

// buildRoutes assembles the exact-match route table. Paths never use
// wildcards or prefixes; anything unregistered is a 404.
func (s *Server) buildRoutes() map[string]handlerFunc {
	return map[string]handlerFunc{
		// Core status and control.
		"/status": s.handleStatus,
		"/cmd":    s.handleCmd,

		// Registers.
		"/register/get": s.handleRegisterGet,
		"/register/set": s.handleRegisterSet,

		// Memory.
		"/memory/read":  s.handleMemoryRead,
		"/memory/write": s.handleMemoryWrite,

		// Pattern search.
		"/pattern/find_mem":           s.handlePatternFindMem,
		"/pattern/search_replace_mem": s.handlePatternSearchReplace,
		"/memory/search":              s.handleMemorySearch,

		// Debug control.
		"/debug/run":      s.handleDebugRun,
		"/debug/pause":    s.handleDebugPause,
		"/debug/step":     s.handleDebugStep,
		"/debug/stepover": s.handleDebugStepOver,
		"/debug/stepout":  s.handleDebugStepOut,

		// Breakpoints.
		"/breakpoint/set":    s.handleBreakpointSet,
		"/breakpoint/delete": s.handleBreakpointDelete,

		// Disassembly and modules.
		"/disasm":  s.handleDisasm,
		"/modules": s.handleModules,

		// Symbols, labels and comments.
		"/symbols/list":      s.handleSymbolsList,
		"/label/set":         s.handleLabelSet,
		"/label/get":         s.handleLabelGet,
		"/label/delete":      s.handleLabelDelete,
		"/label/from_string": s.handleLabelFromString,
		"/label/list":        s.handleLabelList,
		"/comment/set":       s.handleCommentSet,
		"/comment/get":       s.handleCommentGet,
		"/comment/delete":    s.handleCommentDelete,
		"/comment/list":      s.handleCommentList,

		// Stack.
		"/stack/push": s.handleStackPush,
		"/stack/pop":  s.handleStackPop,
		"/stack/peek": s.handleStackPeek,

		// Functions and bookmarks.
		"/function/add":    s.handleFunctionAdd,
		"/function/get":    s.handleFunctionGet,
		"/function/delete": s.handleFunctionDelete,
		"/function/list":   s.handleFunctionList,
		"/bookmark/set":    s.handleBookmarkSet,
		"/bookmark/get":    s.handleBookmarkGet,
		"/bookmark/delete": s.handleBookmarkDelete,
		"/bookmark/list":   s.handleBookmarkList,

		// Misc utilities.
		"/misc/parse_expression": s.handleParseExpression,
		"/misc/resolve_label":    s.handleResolveLabel,
		"/misc/get_proc_address": s.handleGetProcAddress,

		// Assembler.
		"/assembler/assemble":     s.handleAssemble,
		"/assembler/assemble_mem": s.handleAssembleMem,

		// CPU flags.
		"/flag/get":      s.handleFlagGet,
		"/flag/set":      s.handleFlagSet,
		"/flags/get_all": s.handleFlagsGetAll,
	}
}
