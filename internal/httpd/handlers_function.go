package httpd

import (
	"fmt"
	"io"
	"strings"
)

// Function range and bookmark endpoints.

func (s *Server) handleFunctionAdd(w io.Writer, p params) {
	start, startOK := p.getAddr("start")
	end, endOK := p.getAddr("end")
	if !startOK || !endOK {
		writeResponse(w, 400, "text/plain", "Missing 'start' or 'end' parameter")
		return
	}

	manual, _ := p.getBool("manual")
	instructionCount, _ := p.getInt("instruction_count")

	success := s.eng.AddFunction(start, end, manual, uint64(instructionCount))
	writeResponse(w, 200, "application/json",
		fmt.Sprintf(`{"success":%s}`, boolJSON(success)))
}

func (s *Server) handleFunctionGet(w io.Writer, p params) {
	addr, ok := p.getAddr("addr")
	if !ok {
		writeResponse(w, 400, "text/plain", "Missing 'addr' parameter")
		return
	}

	start, end, instructionCount, success := s.eng.FunctionAt(addr)
	body := fmt.Sprintf(`{"success":%s,"start":"%s","end":"%s","instruction_count":%d}`,
		boolJSON(success), hexUint(start), hexUint(end), instructionCount)
	writeResponse(w, 200, "application/json", body)
}

func (s *Server) handleFunctionDelete(w io.Writer, p params) {
	addr, ok := p.getAddr("addr")
	if !ok {
		writeResponse(w, 400, "text/plain", "Missing 'addr' parameter")
		return
	}

	success := s.eng.DeleteFunction(addr)
	writeResponse(w, 200, "application/json",
		fmt.Sprintf(`{"success":%s}`, boolJSON(success)))
}

func (s *Server) handleFunctionList(w io.Writer, p params) {
	functions, ok := s.eng.Functions()
	if !ok {
		writeResponse(w, 500, "text/plain", "Failed to get function list")
		return
	}

	var b strings.Builder
	b.WriteString("[")
	for i, f := range functions {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"module":"%s","rva_start":"%s","rva_end":"%s","manual":%s,"instruction_count":%d}`,
			jsonEscape(f.Module), hexUint(f.RVAStart), hexUint(f.RVAEnd),
			boolJSON(f.Manual), f.InstructionCount)
	}
	b.WriteString("]")
	writeResponse(w, 200, "application/json", b.String())
}

func (s *Server) handleBookmarkSet(w io.Writer, p params) {
	addr, ok := p.getAddr("addr")
	if !ok {
		writeResponse(w, 400, "text/plain", "Missing 'addr' parameter")
		return
	}

	manual, _ := p.getBool("manual")
	success := s.eng.SetBookmark(addr, manual)
	writeResponse(w, 200, "application/json",
		fmt.Sprintf(`{"success":%s}`, boolJSON(success)))
}

func (s *Server) handleBookmarkGet(w io.Writer, p params) {
	addr, ok := p.getAddr("addr")
	if !ok {
		writeResponse(w, 400, "text/plain", "Missing 'addr' parameter")
		return
	}

	exists := s.eng.HasBookmark(addr)
	writeResponse(w, 200, "application/json",
		fmt.Sprintf(`{"exists":%s}`, boolJSON(exists)))
}

func (s *Server) handleBookmarkDelete(w io.Writer, p params) {
	addr, ok := p.getAddr("addr")
	if !ok {
		writeResponse(w, 400, "text/plain", "Missing 'addr' parameter")
		return
	}

	success := s.eng.DeleteBookmark(addr)
	writeResponse(w, 200, "application/json",
		fmt.Sprintf(`{"success":%s}`, boolJSON(success)))
}

func (s *Server) handleBookmarkList(w io.Writer, p params) {
	bookmarks, ok := s.eng.Bookmarks()
	if !ok {
		writeResponse(w, 500, "text/plain", "Failed to get bookmark list")
		return
	}

	var b strings.Builder
	b.WriteString("[")
	for i, bm := range bookmarks {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"module":"%s","rva":"%s","manual":%s}`,
			jsonEscape(bm.Module), hexUint(bm.RVA), boolJSON(bm.Manual))
	}
	b.WriteString("]")
	writeResponse(w, 200, "application/json", b.String())
}
