package httpd

import (
	"strconv"
	"strings"
)

// urlDecode percent-decodes a query component. Invalid escapes pass the
// '%' through untouched; '+' decodes to space.
func urlDecode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '%':
			if i+2 < len(s) {
				if v, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
					b.WriteByte(byte(v))
					i += 2
					continue
				}
			}
			b.WriteByte(c)
		case '+':
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// parseQuery decodes a URL-encoded query string into a flat key→value
// map. Duplicate keys keep the last occurrence; segments without '='
// are ignored.
func parseQuery(query string) params {
	p := params{}
	for _, segment := range strings.Split(query, "&") {
		eq := strings.IndexByte(segment, '=')
		if eq < 0 {
			continue
		}
		key := urlDecode(segment[:eq])
		value := urlDecode(segment[eq+1:])
		p[key] = value
	}
	return p
}
