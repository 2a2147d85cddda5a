// Package agent provides the client-side tooling for the debugger
// control server.
//
// This package includes a typed HTTP client for the control API, an
// interactive REPL for driving a debugging session from a terminal, and
// an MCP server that exposes every control endpoint as a typed MCP tool
// so language-model agents can debug a target process.
//
// # Key Components
//
//   - Client: typed HTTP client for the control API with wire tracing
//   - REPL: interactive Read-Eval-Print Loop over the control API
//   - MCPServer: exposes the control API as MCP tools (stdio or
//     streamable-http transport)
package agent
