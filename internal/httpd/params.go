package httpd

import "strconv"

// params holds the decoded query parameters of one request.
type params map[string]string

// get returns the raw value for key.
func (p params) get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

// getAddr parses key as an unsigned base-prefixed integer ("0x" hex,
// otherwise decimal). Absent and unparsable values both report false.
func (p params) getAddr(key string) (uint64, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(v, 0, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// getInt parses key as a signed base-prefixed integer.
func (p params) getInt(key string) (int, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 0, 64)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

// getBool reports the value as true only for the literal strings
// "true", "1" and "yes". Absence reports false in the second result so
// callers can apply their own default.
func (p params) getBool(key string) (bool, bool) {
	v, ok := p[key]
	if !ok {
		return false, false
	}
	return v == "true" || v == "1" || v == "yes", true
}
