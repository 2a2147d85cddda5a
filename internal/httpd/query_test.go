package httpd

import (
	"net/url"
	"testing"
)

func TestUrlDecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "hello", want: "hello"},
		{name: "plus is space", input: "a+b", want: "a b"},
		{name: "percent escape", input: "a%20b", want: "a b"},
		{name: "reserved characters", input: "%25%2B%26%3D", want: "%+&="},
		{name: "invalid escape passes through", input: "100%zz", want: "100%zz"},
		{name: "truncated escape", input: "abc%2", want: "abc%2"},
		{name: "trailing percent", input: "abc%", want: "abc%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := urlDecode(tt.input); got != tt.want {
				t.Errorf("urlDecode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Encoding a string holding every reserved character and decoding it
// must reproduce the original exactly.
func TestQueryDecodeRoundTrip(t *testing.T) {
	original := `x=1&y%2 +"quoted"\back`
	encoded := url.QueryEscape(original)
	p := parseQuery("value=" + encoded)
	if got := p["value"]; got != original {
		t.Errorf("round trip = %q, want %q", got, original)
	}
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  params
	}{
		{
			name:  "single pair",
			query: "name=eax",
			want:  params{"name": "eax"},
		},
		{
			name:  "multiple pairs",
			query: "addr=0x1000&size=16",
			want:  params{"addr": "0x1000", "size": "16"},
		},
		{
			name:  "last occurrence wins",
			query: "name=eax&name=ebx",
			want:  params{"name": "ebx"},
		},
		{
			name:  "segment without equals ignored",
			query: "flagonly&name=eax",
			want:  params{"name": "eax"},
		},
		{
			name:  "decoded key and value",
			query: "pattern=55+%3F%3F+e5",
			want:  params{"pattern": "55 ?? e5"},
		},
		{
			name:  "empty query",
			query: "",
			want:  params{},
		},
		{
			name:  "empty value kept",
			query: "text=",
			want:  params{"text": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseQuery(tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("parseQuery(%q) = %v, want %v", tt.query, got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("parseQuery(%q)[%q] = %q, want %q", tt.query, k, got[k], v)
				}
			}
		})
	}
}
