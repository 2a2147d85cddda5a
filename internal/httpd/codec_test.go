package httpd

import (
	"bytes"
	"testing"
)

func TestJsonEscape(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "hello", want: "hello"},
		{name: "quote", input: `say "hi"`, want: `say \"hi\"`},
		{name: "backslash", input: `C:\sim\sim.exe`, want: `C:\\sim\\sim.exe`},
		{name: "newline", input: "a\nb", want: `a\nb`},
		{name: "carriage return", input: "a\rb", want: `a\rb`},
		{name: "tab", input: "a\tb", want: `a\tb`},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := jsonEscape(tt.input); got != tt.want {
				t.Errorf("jsonEscape(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHexUint(t *testing.T) {
	tests := []struct {
		value uint64
		want  string
	}{
		{value: 0, want: "0x0"},
		{value: 4096, want: "0x1000"},
		{value: 0xdeadbeef, want: "0xdeadbeef"},
		{value: 0xffffffffffffffff, want: "0xffffffffffffffff"},
	}

	for _, tt := range tests {
		if got := hexUint(tt.value); got != tt.want {
			t.Errorf("hexUint(%d) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestHexBytes(t *testing.T) {
	if got := hexBytes([]byte{0x00, 0x0f, 0xff}); got != "000fff" {
		t.Errorf("hexBytes = %q, want 000fff", got)
	}
	if got := hexBytes(nil); got != "" {
		t.Errorf("hexBytes(nil) = %q, want empty", got)
	}
}

func TestParseHexBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{name: "valid", input: "9090c3", want: []byte{0x90, 0x90, 0xc3}},
		{name: "odd nibble dropped", input: "90c", want: []byte{0x90}},
		{name: "empty", input: "", want: []byte{}},
		{name: "invalid digit", input: "zz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseHexBytes(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("parseHexBytes(%q) = %x, want %x", tt.input, got, tt.want)
			}
		})
	}
}

func TestBoolJSON(t *testing.T) {
	if boolJSON(true) != "true" || boolJSON(false) != "false" {
		t.Error("boolJSON should render bare JSON literals")
	}
}
