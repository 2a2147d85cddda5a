package engine

import (
	"strings"
	"testing"
)

func TestParseRegister(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Register
		wantErr bool
	}{
		{name: "lowercase 32-bit", input: "eax", want: EAX},
		{name: "uppercase", input: "EAX", want: EAX},
		{name: "mixed case", input: "EsP", want: ESP},
		{name: "64-bit", input: "rip", want: RIP},
		{name: "numbered", input: "r15", want: R15},
		{name: "unknown", input: "xmm0", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRegister(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				if !strings.Contains(err.Error(), tt.input) {
					t.Errorf("error %q should name the register %q", err, tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseRegister(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFlag(t *testing.T) {
	tests := []struct {
		input string
		want  Flag
		ok    bool
	}{
		{input: "zf", want: ZF, ok: true},
		{input: "ZF", want: ZF, ok: true},
		{input: "If", want: IF, ok: true},
		{input: "xf", ok: false},
		{input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseFlag(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseFlag(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseFlag(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFlagStrings(t *testing.T) {
	if len(AllFlags) != 9 {
		t.Fatalf("expected 9 flags, got %d", len(AllFlags))
	}
	want := []string{"ZF", "OF", "CF", "PF", "SF", "TF", "AF", "DF", "IF"}
	for i, f := range AllFlags {
		if f.String() != want[i] {
			t.Errorf("flag %d = %q, want %q", i, f.String(), want[i])
		}
	}
}
