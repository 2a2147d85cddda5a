package httpd

import (
	"fmt"
	"strconv"
	"strings"
)

// jsonEscape escapes a string for embedding in a JSON body. Only the
// characters the protocol promises to escape are handled; payloads that
// need arbitrary bytes travel as hex strings instead.
func jsonEscape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// hexUint renders a value as "0x" + lowercase hex without leading zeros.
func hexUint(v uint64) string {
	return "0x" + strconv.FormatUint(v, 16)
}

// boolJSON renders a bool as a bare JSON literal.
func boolJSON(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// hexBytes renders a byte buffer as flat lowercase hex, two digits per byte.
func hexBytes(data []byte) string {
	var b strings.Builder
	b.Grow(len(data) * 2)
	for _, c := range data {
		fmt.Fprintf(&b, "%02x", c)
	}
	return b.String()
}

// parseHexBytes decodes a flat hex string into bytes. A trailing odd
// nibble is dropped, matching the original wire behavior.
func parseHexBytes(s string) ([]byte, error) {
	out := make([]byte, 0, len(s)/2)
	for i := 0; i+1 < len(s); i += 2 {
		v, err := strconv.ParseUint(s[i:i+2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid hex byte %q", s[i:i+2])
		}
		out = append(out, byte(v))
	}
	return out, nil
}
