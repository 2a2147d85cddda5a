package engine

import (
	"sort"
	"strconv"
	"strings"
)

// Stand-in module layout for the simulated debuggee.
const (
	simModuleBase  = 0x00400000
	simModuleSize  = 0x10000
	simEntryOffset = 0x1000
	simStackBase   = 0x0019f000
	simStackSize   = 0x1000
)

type simAnnotation struct {
	text   string
	manual bool
}

type simFunction struct {
	start            uint64
	end              uint64
	manual           bool
	instructionCount uint64
}

type simRegion struct {
	base uint64
	data []byte
}

func (r *simRegion) contains(addr uint64) bool {
	return addr >= r.base && addr < r.base+uint64(len(r.data))
}

// Sim is an in-memory debugger engine. It backs `x64dbg-mcp serve` and the
// test suite so the control server can run without a live debugger attached.
// Like a real engine it is single-threaded: the caller serializes access.
type Sim struct {
	debugging bool
	running   bool

	regs        map[Register]uint64
	flags       map[Flag]bool
	regions     []*simRegion
	breakpoints map[uint64]bool
	labels      map[uint64]simAnnotation
	comments    map[uint64]simAnnotation
	bookmarks   map[uint64]bool
	functions   map[uint64]simFunction
	stack       []uint64
	exports     map[string]map[string]uint64
	lastCommand string
}

// NewSim creates a simulated engine with one loaded module, a slice of
// stack, and a handful of seeded exports.
func NewSim() *Sim {
	code := make([]byte, simModuleSize)
	// Recognizable prologue at the entry point: push ebp; mov ebp, esp;
	// xor eax, eax; ret.
	copy(code[simEntryOffset:], []byte{0x55, 0x89, 0xe5, 0x31, 0xc0, 0xc3})

	s := &Sim{
		debugging: true,
		regs:      make(map[Register]uint64),
		flags:     make(map[Flag]bool),
		regions: []*simRegion{
			{base: simModuleBase, data: code},
			{base: simStackBase, data: make([]byte, simStackSize)},
		},
		breakpoints: make(map[uint64]bool),
		labels:      make(map[uint64]simAnnotation),
		comments:    make(map[uint64]simAnnotation),
		bookmarks:   make(map[uint64]bool),
		functions:   make(map[uint64]simFunction),
		exports: map[string]map[string]uint64{
			"kernel32.dll": {
				"LoadLibraryA":   0x76a10000,
				"GetProcAddress": 0x76a10010,
			},
		},
	}
	s.regs[EIP] = simModuleBase + simEntryOffset
	s.regs[ESP] = simStackBase + simStackSize
	s.labels[simModuleBase+simEntryOffset] = simAnnotation{text: "EntryPoint", manual: false}
	return s
}

func (s *Sim) region(addr uint64) *simRegion {
	for _, r := range s.regions {
		if r.contains(addr) {
			return r
		}
	}
	return nil
}

func (s *Sim) moduleFor(addr uint64) (string, uint64) {
	if addr >= simModuleBase && addr < simModuleBase+simModuleSize {
		return "sim.exe", addr - simModuleBase
	}
	return "", addr
}

// Debugging reports whether the simulated debuggee is loaded (always true).
func (s *Sim) Debugging() bool { return s.debugging }

// Running reports whether the simulated debuggee is executing.
func (s *Sim) Running() bool { return s.running }

// ExecCommand records the command and succeeds for any nonempty string.
func (s *Sim) ExecCommand(cmd string) bool {
	if cmd == "" {
		return false
	}
	s.lastCommand = cmd
	return true
}

// LastCommand returns the most recent command passed to ExecCommand.
func (s *Sim) LastCommand() string { return s.lastCommand }

func (s *Sim) Register(reg Register) uint64 { return s.regs[reg] }

func (s *Sim) SetRegister(reg Register, value uint64) bool {
	s.regs[reg] = value
	return true
}

func (s *Sim) ReadMemory(addr, size uint64) ([]byte, bool) {
	r := s.region(addr)
	if r == nil {
		return nil, false
	}
	off := addr - r.base
	avail := uint64(len(r.data)) - off
	if size > avail {
		size = avail
	}
	out := make([]byte, size)
	copy(out, r.data[off:off+size])
	return out, true
}

func (s *Sim) WriteMemory(addr uint64, data []byte) (uint64, bool) {
	r := s.region(addr)
	if r == nil {
		return 0, false
	}
	off := addr - r.base
	n := copy(r.data[off:], data)
	return uint64(n), true
}

// parsePattern decodes a hex byte pattern. Each byte is two hex digits or
// "??" for a wildcard; spaces between bytes are optional.
func parsePattern(pattern string) ([]int, bool) {
	compact := strings.ReplaceAll(pattern, " ", "")
	if len(compact) == 0 || len(compact)%2 != 0 {
		return nil, false
	}
	out := make([]int, 0, len(compact)/2)
	for i := 0; i < len(compact); i += 2 {
		pair := compact[i : i+2]
		if pair == "??" {
			out = append(out, -1)
			continue
		}
		v, err := strconv.ParseUint(pair, 16, 8)
		if err != nil {
			return nil, false
		}
		out = append(out, int(v))
	}
	return out, true
}

func (s *Sim) FindPattern(start, size uint64, pattern string) uint64 {
	pat, ok := parsePattern(pattern)
	if !ok || len(pat) == 0 {
		return 0
	}
	r := s.region(start)
	if r == nil {
		return 0
	}
	off := int(start - r.base)
	end := int(start - r.base + size)
	if end > len(r.data) {
		end = len(r.data)
	}
	for i := off; i+len(pat) <= end; i++ {
		match := true
		for j, p := range pat {
			if p >= 0 && int(r.data[i+j]) != p {
				match = false
				break
			}
		}
		if match {
			return r.base + uint64(i)
		}
	}
	return 0
}

func (s *Sim) SearchAndReplace(start, size uint64, search, replace string) bool {
	addr := s.FindPattern(start, size, search)
	if addr == 0 {
		return false
	}
	rep, ok := parsePattern(replace)
	if !ok {
		return false
	}
	r := s.region(addr)
	off := int(addr - r.base)
	for i, b := range rep {
		if off+i >= len(r.data) {
			break
		}
		if b >= 0 {
			r.data[off+i] = byte(b)
		}
	}
	return true
}

func (s *Sim) Run()   { s.running = true }
func (s *Sim) Pause() { s.running = false }

func (s *Sim) step() {
	d := s.Disassemble(s.regs[EIP])
	s.regs[EIP] += uint64(d.Size)
	s.running = false
}

func (s *Sim) StepIn()   { s.step() }
func (s *Sim) StepOver() { s.step() }
func (s *Sim) StepOut()  { s.step() }

func (s *Sim) SetBreakpoint(addr uint64) bool {
	if s.region(addr) == nil {
		return false
	}
	s.breakpoints[addr] = true
	return true
}

func (s *Sim) DeleteBreakpoint(addr uint64) bool {
	if !s.breakpoints[addr] {
		return false
	}
	delete(s.breakpoints, addr)
	return true
}

// Single-byte opcode table shared by the toy assembler and disassembler.
var simOpcodes = map[string]byte{
	"nop":      0x90,
	"ret":      0xc3,
	"int3":     0xcc,
	"leave":    0xc9,
	"cdq":      0x99,
	"hlt":      0xf4,
	"pushad":   0x60,
	"popad":    0x61,
	"push ebp": 0x55,
	"pop ebp":  0x5d,
}

var simTwoByte = map[string][2]byte{
	"xor eax, eax": {0x31, 0xc0},
	"mov ebp, esp": {0x89, 0xe5},
}

func (s *Sim) Disassemble(addr uint64) Disassembly {
	buf, ok := s.ReadMemory(addr, 2)
	if !ok || len(buf) == 0 {
		return Disassembly{Instruction: "???", Size: 1}
	}
	if len(buf) == 2 {
		for text, enc := range simTwoByte {
			if buf[0] == enc[0] && buf[1] == enc[1] {
				return Disassembly{Instruction: text, Size: 2}
			}
		}
	}
	for text, op := range simOpcodes {
		if buf[0] == op {
			return Disassembly{Instruction: text, Size: 1}
		}
	}
	return Disassembly{Instruction: "db 0x" + strconv.FormatUint(uint64(buf[0]), 16), Size: 1}
}

func (s *Sim) Modules() ([]ModuleInfo, bool) {
	return []ModuleInfo{
		{
			Name:  "sim.exe",
			Base:  simModuleBase,
			Size:  simModuleSize,
			Entry: simModuleBase + simEntryOffset,
			Path:  `C:\sim\sim.exe`,
		},
	}, true
}

func (s *Sim) Symbols() ([]SymbolInfo, bool) {
	syms := []SymbolInfo{
		{Module: "sim.exe", RVA: simEntryOffset, Name: "EntryPoint", Type: SymbolFunction},
	}
	return syms, true
}

func (s *Sim) SetLabel(addr uint64, text string, manual bool) bool {
	if text == "" {
		return false
	}
	s.labels[addr] = simAnnotation{text: text, manual: manual}
	return true
}

func (s *Sim) Label(addr uint64) (string, bool) {
	a, ok := s.labels[addr]
	return a.text, ok
}

func (s *Sim) DeleteLabel(addr uint64) bool {
	if _, ok := s.labels[addr]; !ok {
		return false
	}
	delete(s.labels, addr)
	return true
}

func (s *Sim) LabelAddress(label string) (uint64, bool) {
	for addr, a := range s.labels {
		if a.text == label {
			return addr, true
		}
	}
	return 0, false
}

func (s *Sim) Labels() ([]LabelInfo, bool) {
	out := make([]LabelInfo, 0, len(s.labels))
	for addr, a := range s.labels {
		mod, rva := s.moduleFor(addr)
		out = append(out, LabelInfo{Module: mod, RVA: rva, Text: a.text, Manual: a.manual})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RVA < out[j].RVA })
	return out, true
}

func (s *Sim) SetComment(addr uint64, text string, manual bool) bool {
	if text == "" {
		return false
	}
	s.comments[addr] = simAnnotation{text: text, manual: manual}
	return true
}

func (s *Sim) Comment(addr uint64) (string, bool) {
	a, ok := s.comments[addr]
	return a.text, ok
}

func (s *Sim) DeleteComment(addr uint64) bool {
	if _, ok := s.comments[addr]; !ok {
		return false
	}
	delete(s.comments, addr)
	return true
}

func (s *Sim) Comments() ([]CommentInfo, bool) {
	out := make([]CommentInfo, 0, len(s.comments))
	for addr, a := range s.comments {
		mod, rva := s.moduleFor(addr)
		out = append(out, CommentInfo{Module: mod, RVA: rva, Text: a.text, Manual: a.manual})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RVA < out[j].RVA })
	return out, true
}

func (s *Sim) StackPush(value uint64) uint64 {
	var prev uint64
	if len(s.stack) > 0 {
		prev = s.stack[len(s.stack)-1]
	}
	s.stack = append(s.stack, value)
	s.regs[ESP] -= 4
	return prev
}

func (s *Sim) StackPop() uint64 {
	if len(s.stack) == 0 {
		return 0
	}
	v := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.regs[ESP] += 4
	return v
}

func (s *Sim) StackPeek(offset int) uint64 {
	i := len(s.stack) - 1 - offset
	if i < 0 || i >= len(s.stack) {
		return 0
	}
	return s.stack[i]
}

func (s *Sim) AddFunction(start, end uint64, manual bool, instructionCount uint64) bool {
	if end < start {
		return false
	}
	s.functions[start] = simFunction{
		start:            start,
		end:              end,
		manual:           manual,
		instructionCount: instructionCount,
	}
	return true
}

func (s *Sim) FunctionAt(addr uint64) (uint64, uint64, uint64, bool) {
	for _, f := range s.functions {
		if addr >= f.start && addr <= f.end {
			return f.start, f.end, f.instructionCount, true
		}
	}
	return 0, 0, 0, false
}

func (s *Sim) DeleteFunction(addr uint64) bool {
	for start, f := range s.functions {
		if addr >= f.start && addr <= f.end {
			delete(s.functions, start)
			return true
		}
	}
	return false
}

func (s *Sim) Functions() ([]FunctionInfo, bool) {
	out := make([]FunctionInfo, 0, len(s.functions))
	for _, f := range s.functions {
		mod, rvaStart := s.moduleFor(f.start)
		_, rvaEnd := s.moduleFor(f.end)
		out = append(out, FunctionInfo{
			Module:           mod,
			RVAStart:         rvaStart,
			RVAEnd:           rvaEnd,
			Manual:           f.manual,
			InstructionCount: f.instructionCount,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RVAStart < out[j].RVAStart })
	return out, true
}

func (s *Sim) SetBookmark(addr uint64, manual bool) bool {
	s.bookmarks[addr] = manual
	return true
}

func (s *Sim) HasBookmark(addr uint64) bool {
	_, ok := s.bookmarks[addr]
	return ok
}

func (s *Sim) DeleteBookmark(addr uint64) bool {
	if _, ok := s.bookmarks[addr]; !ok {
		return false
	}
	delete(s.bookmarks, addr)
	return true
}

func (s *Sim) Bookmarks() ([]BookmarkInfo, bool) {
	out := make([]BookmarkInfo, 0, len(s.bookmarks))
	for addr, manual := range s.bookmarks {
		mod, rva := s.moduleFor(addr)
		out = append(out, BookmarkInfo{Module: mod, RVA: rva, Manual: manual})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RVA < out[j].RVA })
	return out, true
}

// ParseExpression evaluates a flat sum of terms separated by + and -.
// A term is a register name, a label, or a numeric literal (0x hex or
// decimal), which covers the expressions the bridge actually sends.
func (s *Sim) ParseExpression(expr string) (uint64, bool) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 0, false
	}
	var total uint64
	add := true
	term := strings.Builder{}

	flush := func() bool {
		t := strings.TrimSpace(term.String())
		term.Reset()
		if t == "" {
			return false
		}
		v, ok := s.resolveTerm(t)
		if !ok {
			return false
		}
		if add {
			total += v
		} else {
			total -= v
		}
		return true
	}

	for _, ch := range expr {
		switch ch {
		case '+':
			if !flush() {
				return 0, false
			}
			add = true
		case '-':
			if !flush() {
				return 0, false
			}
			add = false
		default:
			term.WriteRune(ch)
		}
	}
	if !flush() {
		return 0, false
	}
	return total, true
}

func (s *Sim) resolveTerm(t string) (uint64, bool) {
	if reg, err := ParseRegister(t); err == nil {
		return s.regs[reg], true
	}
	if addr, ok := s.LabelAddress(t); ok {
		return addr, true
	}
	v, err := strconv.ParseUint(t, 0, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (s *Sim) ResolveLabel(label string) uint64 {
	addr, _ := s.LabelAddress(label)
	return addr
}

func (s *Sim) ProcAddress(module, api string) uint64 {
	return s.exports[strings.ToLower(module)][api]
}

func normalizeInstruction(instruction string) string {
	return strings.Join(strings.Fields(strings.ToLower(instruction)), " ")
}

func (s *Sim) Assemble(addr uint64, instruction string) ([]byte, bool) {
	norm := normalizeInstruction(instruction)
	// The two-byte table keys carry a comma-space separator.
	norm = strings.ReplaceAll(norm, ",", ", ")
	norm = strings.Join(strings.Fields(norm), " ")
	if enc, ok := simTwoByte[norm]; ok {
		return []byte{enc[0], enc[1]}, true
	}
	if op, ok := simOpcodes[norm]; ok {
		return []byte{op}, true
	}
	return nil, false
}

func (s *Sim) AssembleAt(addr uint64, instruction string) bool {
	enc, ok := s.Assemble(addr, instruction)
	if !ok {
		return false
	}
	n, ok := s.WriteMemory(addr, enc)
	return ok && n == uint64(len(enc))
}

func (s *Sim) Flag(flag Flag) bool { return s.flags[flag] }

func (s *Sim) SetFlag(flag Flag, value bool) bool {
	s.flags[flag] = value
	return true
}
