package httpd

import (
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/x64dbg-mcp/x64dbg-mcp/internal/engine"
)

// mockEngine is a canned-response engine that records every capability
// call, so tests can assert both response bodies and the "validation
// failures never reach the engine" property.
type mockEngine struct {
	mu    sync.Mutex
	calls []string
	delay time.Duration

	execOK         bool
	failRead       bool
	failLists      bool
	patternResults []uint64
}

func newMockEngine() *mockEngine {
	return &mockEngine{execOK: true}
}

func (m *mockEngine) record(name string) {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	m.mu.Unlock()
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
}

func (m *mockEngine) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockEngine) callNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockEngine) Debugging() bool { m.record("Debugging"); return true }
func (m *mockEngine) Running() bool   { m.record("Running"); return false }

func (m *mockEngine) ExecCommand(cmd string) bool { m.record("ExecCommand"); return m.execOK }

func (m *mockEngine) Register(reg engine.Register) uint64 { m.record("Register"); return 0x1000 }
func (m *mockEngine) SetRegister(reg engine.Register, value uint64) bool {
	m.record("SetRegister")
	return true
}

func (m *mockEngine) ReadMemory(addr, size uint64) ([]byte, bool) {
	m.record("ReadMemory")
	if m.failRead {
		return nil, false
	}
	return make([]byte, size), true
}

func (m *mockEngine) WriteMemory(addr uint64, data []byte) (uint64, bool) {
	m.record("WriteMemory")
	return uint64(len(data)), true
}

func (m *mockEngine) FindPattern(start, size uint64, pattern string) uint64 {
	m.record("FindPattern")
	if len(m.patternResults) == 0 {
		return 0
	}
	next := m.patternResults[0]
	m.patternResults = m.patternResults[1:]
	return next
}

func (m *mockEngine) SearchAndReplace(start, size uint64, search, replace string) bool {
	m.record("SearchAndReplace")
	return true
}

func (m *mockEngine) Run()      { m.record("Run") }
func (m *mockEngine) Pause()    { m.record("Pause") }
func (m *mockEngine) StepIn()   { m.record("StepIn") }
func (m *mockEngine) StepOver() { m.record("StepOver") }
func (m *mockEngine) StepOut()  { m.record("StepOut") }

func (m *mockEngine) SetBreakpoint(addr uint64) bool    { m.record("SetBreakpoint"); return true }
func (m *mockEngine) DeleteBreakpoint(addr uint64) bool { m.record("DeleteBreakpoint"); return true }

func (m *mockEngine) Disassemble(addr uint64) engine.Disassembly {
	m.record("Disassemble")
	return engine.Disassembly{Instruction: "mov eax, 1", Size: 5}
}

func (m *mockEngine) Modules() ([]engine.ModuleInfo, bool) {
	m.record("Modules")
	if m.failLists {
		return nil, false
	}
	return []engine.ModuleInfo{
		{Name: "test.exe", Base: 0x400000, Size: 0x10000, Entry: 0x401000, Path: `C:\test.exe`},
	}, true
}

func (m *mockEngine) Symbols() ([]engine.SymbolInfo, bool) {
	m.record("Symbols")
	if m.failLists {
		return nil, false
	}
	return []engine.SymbolInfo{
		{Module: "test.exe", RVA: 0x1000, Name: "main", Type: engine.SymbolFunction},
	}, true
}

func (m *mockEngine) SetLabel(addr uint64, text string, manual bool) bool {
	m.record("SetLabel")
	return true
}

func (m *mockEngine) Label(addr uint64) (string, bool) { m.record("Label"); return "entry", true }
func (m *mockEngine) DeleteLabel(addr uint64) bool     { m.record("DeleteLabel"); return true }

func (m *mockEngine) LabelAddress(label string) (uint64, bool) {
	m.record("LabelAddress")
	return 0x401000, true
}

func (m *mockEngine) Labels() ([]engine.LabelInfo, bool) {
	m.record("Labels")
	if m.failLists {
		return nil, false
	}
	return []engine.LabelInfo{
		{Module: "test.exe", RVA: 0x1000, Text: "entry", Manual: true},
	}, true
}

func (m *mockEngine) SetComment(addr uint64, text string, manual bool) bool {
	m.record("SetComment")
	return true
}

func (m *mockEngine) Comment(addr uint64) (string, bool) { m.record("Comment"); return "note", true }
func (m *mockEngine) DeleteComment(addr uint64) bool     { m.record("DeleteComment"); return true }

func (m *mockEngine) Comments() ([]engine.CommentInfo, bool) {
	m.record("Comments")
	if m.failLists {
		return nil, false
	}
	return []engine.CommentInfo{
		{Module: "test.exe", RVA: 0x1000, Text: "note", Manual: false},
	}, true
}

func (m *mockEngine) StackPush(value uint64) uint64 { m.record("StackPush"); return 0x2000 }
func (m *mockEngine) StackPop() uint64              { m.record("StackPop"); return 0x3000 }
func (m *mockEngine) StackPeek(offset int) uint64   { m.record("StackPeek"); return 0x4000 }

func (m *mockEngine) AddFunction(start, end uint64, manual bool, instructionCount uint64) bool {
	m.record("AddFunction")
	return true
}

func (m *mockEngine) FunctionAt(addr uint64) (uint64, uint64, uint64, bool) {
	m.record("FunctionAt")
	return 0x401000, 0x401010, 5, true
}

func (m *mockEngine) DeleteFunction(addr uint64) bool { m.record("DeleteFunction"); return true }

func (m *mockEngine) Functions() ([]engine.FunctionInfo, bool) {
	m.record("Functions")
	if m.failLists {
		return nil, false
	}
	return []engine.FunctionInfo{
		{Module: "test.exe", RVAStart: 0x1000, RVAEnd: 0x1010, Manual: true, InstructionCount: 5},
	}, true
}

func (m *mockEngine) SetBookmark(addr uint64, manual bool) bool { m.record("SetBookmark"); return true }
func (m *mockEngine) HasBookmark(addr uint64) bool              { m.record("HasBookmark"); return true }
func (m *mockEngine) DeleteBookmark(addr uint64) bool           { m.record("DeleteBookmark"); return true }

func (m *mockEngine) Bookmarks() ([]engine.BookmarkInfo, bool) {
	m.record("Bookmarks")
	if m.failLists {
		return nil, false
	}
	return []engine.BookmarkInfo{
		{Module: "test.exe", RVA: 0x1000, Manual: true},
	}, true
}

func (m *mockEngine) ParseExpression(expr string) (uint64, bool) {
	m.record("ParseExpression")
	return 0x1234, true
}

func (m *mockEngine) ResolveLabel(label string) uint64 { m.record("ResolveLabel"); return 0x5678 }

func (m *mockEngine) ProcAddress(module, api string) uint64 {
	m.record("ProcAddress")
	return 0x9abc
}

func (m *mockEngine) Assemble(addr uint64, instruction string) ([]byte, bool) {
	m.record("Assemble")
	return []byte{0x90}, true
}

func (m *mockEngine) AssembleAt(addr uint64, instruction string) bool {
	m.record("AssembleAt")
	return true
}

func (m *mockEngine) Flag(flag engine.Flag) bool { m.record("Flag"); return true }

func (m *mockEngine) SetFlag(flag engine.Flag, value bool) bool {
	m.record("SetFlag")
	return true
}

// parseResponse splits a raw HTTP response into status code, headers and
// body, failing the test on any framing defect.
func parseResponse(t *testing.T, raw string) (int, map[string]string, string) {
	t.Helper()

	sep := strings.Index(raw, "\r\n\r\n")
	if sep < 0 {
		t.Fatalf("response has no header terminator: %q", raw)
	}
	head := raw[:sep]
	body := raw[sep+4:]

	lines := strings.Split(head, "\r\n")
	statusParts := strings.SplitN(lines[0], " ", 3)
	if len(statusParts) < 2 || statusParts[0] != "HTTP/1.1" {
		t.Fatalf("bad status line: %q", lines[0])
	}
	code, err := strconv.Atoi(statusParts[1])
	if err != nil {
		t.Fatalf("bad status code in %q: %v", lines[0], err)
	}

	headers := map[string]string{}
	for _, line := range lines[1:] {
		if colon := strings.Index(line, ": "); colon > 0 {
			headers[strings.ToLower(line[:colon])] = line[colon+2:]
		}
	}

	if cl, ok := headers["content-length"]; ok {
		want, _ := strconv.Atoi(cl)
		if want != len(body) {
			t.Fatalf("Content-Length %d does not match body length %d", want, len(body))
		}
	}

	return code, headers, body
}
