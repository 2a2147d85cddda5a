package httpd

import (
	"fmt"
	"io"
	"strings"
)

// Symbol, label and comment endpoints.

func (s *Server) handleSymbolsList(w io.Writer, p params) {
	symbols, ok := s.eng.Symbols()
	if !ok {
		writeResponse(w, 500, "text/plain", "Failed to get symbol list")
		return
	}

	var b strings.Builder
	b.WriteString("[")
	for i, sym := range symbols {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"module":"%s","rva":"%s","name":"%s","manual":%s,"type":"%s"}`,
			jsonEscape(sym.Module), hexUint(sym.RVA), jsonEscape(sym.Name),
			boolJSON(sym.Manual), sym.Type)
	}
	b.WriteString("]")
	writeResponse(w, 200, "application/json", b.String())
}

func (s *Server) handleLabelSet(w io.Writer, p params) {
	addr, addrOK := p.getAddr("addr")
	text, textOK := p.get("text")
	if !addrOK || !textOK {
		writeResponse(w, 400, "text/plain", "Missing 'addr' or 'text' parameter")
		return
	}

	manual, _ := p.getBool("manual")
	success := s.eng.SetLabel(addr, text, manual)
	writeResponse(w, 200, "application/json",
		fmt.Sprintf(`{"success":%s}`, boolJSON(success)))
}

func (s *Server) handleLabelGet(w io.Writer, p params) {
	addr, ok := p.getAddr("addr")
	if !ok {
		writeResponse(w, 400, "text/plain", "Missing 'addr' parameter")
		return
	}

	text, success := s.eng.Label(addr)
	body := fmt.Sprintf(`{"success":%s,"text":"%s"}`, boolJSON(success), jsonEscape(text))
	writeResponse(w, 200, "application/json", body)
}

func (s *Server) handleLabelDelete(w io.Writer, p params) {
	addr, ok := p.getAddr("addr")
	if !ok {
		writeResponse(w, 400, "text/plain", "Missing 'addr' parameter")
		return
	}

	success := s.eng.DeleteLabel(addr)
	writeResponse(w, 200, "application/json",
		fmt.Sprintf(`{"success":%s}`, boolJSON(success)))
}

func (s *Server) handleLabelFromString(w io.Writer, p params) {
	label, ok := p.get("label")
	if !ok {
		writeResponse(w, 400, "text/plain", "Missing 'label' parameter")
		return
	}

	addr, success := s.eng.LabelAddress(label)
	body := fmt.Sprintf(`{"success":%s,"address":"%s"}`, boolJSON(success), hexUint(addr))
	writeResponse(w, 200, "application/json", body)
}

func (s *Server) handleLabelList(w io.Writer, p params) {
	labels, ok := s.eng.Labels()
	if !ok {
		writeResponse(w, 500, "text/plain", "Failed to get label list")
		return
	}

	var b strings.Builder
	b.WriteString("[")
	for i, l := range labels {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"module":"%s","rva":"%s","text":"%s","manual":%s}`,
			jsonEscape(l.Module), hexUint(l.RVA), jsonEscape(l.Text), boolJSON(l.Manual))
	}
	b.WriteString("]")
	writeResponse(w, 200, "application/json", b.String())
}

func (s *Server) handleCommentSet(w io.Writer, p params) {
	addr, addrOK := p.getAddr("addr")
	text, textOK := p.get("text")
	if !addrOK || !textOK {
		writeResponse(w, 400, "text/plain", "Missing 'addr' or 'text' parameter")
		return
	}

	manual, _ := p.getBool("manual")
	success := s.eng.SetComment(addr, text, manual)
	writeResponse(w, 200, "application/json",
		fmt.Sprintf(`{"success":%s}`, boolJSON(success)))
}

func (s *Server) handleCommentGet(w io.Writer, p params) {
	addr, ok := p.getAddr("addr")
	if !ok {
		writeResponse(w, 400, "text/plain", "Missing 'addr' parameter")
		return
	}

	text, success := s.eng.Comment(addr)
	body := fmt.Sprintf(`{"success":%s,"text":"%s"}`, boolJSON(success), jsonEscape(text))
	writeResponse(w, 200, "application/json", body)
}

func (s *Server) handleCommentDelete(w io.Writer, p params) {
	addr, ok := p.getAddr("addr")
	if !ok {
		writeResponse(w, 400, "text/plain", "Missing 'addr' parameter")
		return
	}

	success := s.eng.DeleteComment(addr)
	writeResponse(w, 200, "application/json",
		fmt.Sprintf(`{"success":%s}`, boolJSON(success)))
}

func (s *Server) handleCommentList(w io.Writer, p params) {
	comments, ok := s.eng.Comments()
	if !ok {
		writeResponse(w, 500, "text/plain", "Failed to get comment list")
		return
	}

	var b strings.Builder
	b.WriteString("[")
	for i, c := range comments {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"module":"%s","rva":"%s","text":"%s","manual":%s}`,
			jsonEscape(c.Module), hexUint(c.RVA), jsonEscape(c.Text), boolJSON(c.Manual))
	}
	b.WriteString("]")
	writeResponse(w, 200, "application/json", b.String())
}
