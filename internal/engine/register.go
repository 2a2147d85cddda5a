package engine

import (
	"fmt"
	"strings"
)

// Register identifies one CPU register.
type Register int

const (
	EAX Register = iota
	EBX
	ECX
	EDX
	ESI
	EDI
	EBP
	ESP
	EIP
	RAX
	RBX
	RCX
	RDX
	RSI
	RDI
	RBP
	RSP
	RIP
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
)

var registerNames = map[string]Register{
	"eax": EAX, "ebx": EBX, "ecx": ECX, "edx": EDX,
	"esi": ESI, "edi": EDI, "ebp": EBP, "esp": ESP, "eip": EIP,
	"rax": RAX, "rbx": RBX, "rcx": RCX, "rdx": RDX,
	"rsi": RSI, "rdi": RDI, "rbp": RBP, "rsp": RSP, "rip": RIP,
	"r8": R8, "r9": R9, "r10": R10, "r11": R11,
	"r12": R12, "r13": R13, "r14": R14, "r15": R15,
}

// String returns the lowercase register name.
func (r Register) String() string {
	for name, reg := range registerNames {
		if reg == r {
			return name
		}
	}
	return fmt.Sprintf("register(%d)", int(r))
}

// ParseRegister resolves a register name, case-insensitively. The error
// message is part of the HTTP API surface.
func ParseRegister(name string) (Register, error) {
	reg, ok := registerNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("Unknown register: %s", name)
	}
	return reg, nil
}
