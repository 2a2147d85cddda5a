package httpd

import (
	"fmt"
	"io"
	"strings"
)

// Pattern and memory search endpoints.

func (s *Server) handlePatternFindMem(w io.Writer, p params) {
	start, startOK := p.getAddr("start")
	size, sizeOK := p.getAddr("size")
	pattern, patternOK := p.get("pattern")
	if !startOK || !sizeOK || !patternOK {
		writeResponse(w, 400, "text/plain", "Missing 'start', 'size', or 'pattern' parameter")
		return
	}

	result := s.eng.FindPattern(start, size, pattern)
	body := fmt.Sprintf(`{"found":%s,"address":"%s"}`,
		boolJSON(result != 0), hexUint(result))
	writeResponse(w, 200, "application/json", body)
}

func (s *Server) handlePatternSearchReplace(w io.Writer, p params) {
	start, startOK := p.getAddr("start")
	size, sizeOK := p.getAddr("size")
	search, searchOK := p.get("search")
	replace, replaceOK := p.get("replace")
	if !startOK || !sizeOK || !searchOK || !replaceOK {
		writeResponse(w, 400, "text/plain",
			"Missing 'start', 'size', 'search', or 'replace' parameter")
		return
	}

	success := s.eng.SearchAndReplace(start, size, search, replace)
	writeResponse(w, 200, "application/json",
		fmt.Sprintf(`{"success":%s}`, boolJSON(success)))
}

func (s *Server) handleMemorySearch(w io.Writer, p params) {
	start, startOK := p.getAddr("start")
	size, sizeOK := p.getAddr("size")
	pattern, patternOK := p.get("pattern")
	if !startOK || !sizeOK || !patternOK {
		writeResponse(w, 400, "text/plain", "Missing 'start', 'size', or 'pattern' parameter")
		return
	}

	maxResults := 100
	if v, ok := p.getInt("max"); ok {
		maxResults = v
	}

	var results []uint64
	searchAddr := start
	endAddr := start + size
	for searchAddr < endAddr && len(results) < maxResults {
		found := s.eng.FindPattern(searchAddr, endAddr-searchAddr, pattern)
		if found == 0 {
			break
		}
		results = append(results, found)
		searchAddr = found + 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, `{"count":%d,"results":[`, len(results))
	for i, addr := range results {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `"%s"`, hexUint(addr))
	}
	b.WriteString("]}")
	writeResponse(w, 200, "application/json", b.String())
}
