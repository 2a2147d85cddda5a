// Package engine defines the synchronous debugger capability set consumed
// by the HTTP control server, together with the record types its list
// operations return. The production engine is the debugger process hosting
// the server; Sim provides an in-memory stand-in for development and tests.
package engine

// SymbolType classifies a symbol record.
type SymbolType int

const (
	SymbolFunction SymbolType = iota
	SymbolImport
	SymbolExport
)

// String returns the wire name of the symbol type.
func (t SymbolType) String() string {
	switch t {
	case SymbolFunction:
		return "function"
	case SymbolImport:
		return "import"
	case SymbolExport:
		return "export"
	default:
		return "unknown"
	}
}

// ModuleInfo describes one loaded module.
type ModuleInfo struct {
	Name  string
	Base  uint64
	Size  uint64
	Entry uint64
	Path  string
}

// SymbolInfo describes one symbol, relative to its module base.
type SymbolInfo struct {
	Module string
	RVA    uint64
	Name   string
	Manual bool
	Type   SymbolType
}

// LabelInfo describes one user or auto label.
type LabelInfo struct {
	Module string
	RVA    uint64
	Text   string
	Manual bool
}

// CommentInfo describes one address comment.
type CommentInfo struct {
	Module string
	RVA    uint64
	Text   string
	Manual bool
}

// FunctionInfo describes one defined function range.
type FunctionInfo struct {
	Module           string
	RVAStart         uint64
	RVAEnd           uint64
	Manual           bool
	InstructionCount uint64
}

// BookmarkInfo describes one address bookmark.
type BookmarkInfo struct {
	Module string
	RVA    uint64
	Manual bool
}

// Disassembly is the decode of a single instruction.
type Disassembly struct {
	Instruction string
	Size        int
}

// Engine is the debugger capability set. Every call is synchronous and
// reports failure through its boolean result rather than an error: the
// control server translates both outcomes into its response contract.
//
// The implementation is not required to be safe for concurrent use; the
// control server serializes all calls onto one goroutine.
type Engine interface {
	// Debugging reports whether a debuggee is loaded.
	Debugging() bool
	// Running reports whether the debuggee is currently executing.
	Running() bool
	// ExecCommand executes a raw debugger command string.
	ExecCommand(cmd string) bool

	Register(reg Register) uint64
	SetRegister(reg Register, value uint64) bool

	// ReadMemory reads up to size bytes at addr. The returned slice holds
	// the bytes actually read.
	ReadMemory(addr, size uint64) ([]byte, bool)
	// WriteMemory writes data at addr and reports the bytes written.
	WriteMemory(addr uint64, data []byte) (uint64, bool)

	// FindPattern searches [start, start+size) for a hex pattern with "??"
	// wildcard tokens, returning the match address or 0.
	FindPattern(start, size uint64, pattern string) uint64
	// SearchAndReplace replaces the first occurrence of a pattern in the range.
	SearchAndReplace(start, size uint64, search, replace string) bool

	Run()
	Pause()
	StepIn()
	StepOver()
	StepOut()

	SetBreakpoint(addr uint64) bool
	DeleteBreakpoint(addr uint64) bool

	// Disassemble decodes the single instruction at addr.
	Disassemble(addr uint64) Disassembly

	Modules() ([]ModuleInfo, bool)
	Symbols() ([]SymbolInfo, bool)

	SetLabel(addr uint64, text string, manual bool) bool
	Label(addr uint64) (string, bool)
	DeleteLabel(addr uint64) bool
	// LabelAddress resolves a label name to its address.
	LabelAddress(label string) (uint64, bool)
	Labels() ([]LabelInfo, bool)

	SetComment(addr uint64, text string, manual bool) bool
	Comment(addr uint64) (string, bool)
	DeleteComment(addr uint64) bool
	Comments() ([]CommentInfo, bool)

	// StackPush pushes value and returns the previous stack top.
	StackPush(value uint64) uint64
	StackPop() uint64
	// StackPeek reads the stack word at the given offset from the top.
	StackPeek(offset int) uint64

	AddFunction(start, end uint64, manual bool, instructionCount uint64) bool
	// FunctionAt returns the bounds of the function containing addr.
	FunctionAt(addr uint64) (start, end, instructionCount uint64, ok bool)
	DeleteFunction(addr uint64) bool
	Functions() ([]FunctionInfo, bool)

	SetBookmark(addr uint64, manual bool) bool
	HasBookmark(addr uint64) bool
	DeleteBookmark(addr uint64) bool
	Bookmarks() ([]BookmarkInfo, bool)

	// ParseExpression evaluates a debugger expression to a value.
	ParseExpression(expr string) (uint64, bool)
	// ResolveLabel resolves a label through the expression engine, 0 if unknown.
	ResolveLabel(label string) uint64
	// ProcAddress resolves module!api in the debuggee, 0 if unknown.
	ProcAddress(module, api string) uint64

	// Assemble encodes an instruction at addr without writing it.
	Assemble(addr uint64, instruction string) ([]byte, bool)
	// AssembleAt encodes an instruction and writes it at addr.
	AssembleAt(addr uint64, instruction string) bool

	Flag(flag Flag) bool
	SetFlag(flag Flag, value bool) bool
}
