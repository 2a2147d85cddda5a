package httpd

import "strings"

// rawRequest is the split of one request buffer. Immutable once parsed.
type rawRequest struct {
	method string
	path   string
	query  string
	body   string
}

// parseFrame splits a raw request buffer into method, path, query and
// body. It returns false when the request line cannot be split into a
// method and a target; such requests are dropped without a response.
func parseFrame(buf []byte) (rawRequest, bool) {
	request := string(buf)

	lineEnd := strings.Index(request, "\r\n")
	if lineEnd < 0 {
		return rawRequest{}, false
	}
	requestLine := request[:lineEnd]

	methodEnd := strings.IndexByte(requestLine, ' ')
	if methodEnd < 0 {
		return rawRequest{}, false
	}
	targetEnd := strings.IndexByte(requestLine[methodEnd+1:], ' ')
	if targetEnd < 0 {
		return rawRequest{}, false
	}
	target := requestLine[methodEnd+1 : methodEnd+1+targetEnd]

	req := rawRequest{method: requestLine[:methodEnd]}
	if q := strings.IndexByte(target, '?'); q >= 0 {
		req.path = target[:q]
		req.query = target[q+1:]
	} else {
		req.path = target
	}

	if bodyStart := strings.Index(request, "\r\n\r\n"); bodyStart >= 0 {
		req.body = request[bodyStart+4:]
	}

	return req, true
}
