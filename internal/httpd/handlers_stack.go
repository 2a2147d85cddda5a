package httpd

import (
	"fmt"
	"io"
)

// Stack manipulation endpoints.

func (s *Server) handleStackPush(w io.Writer, p params) {
	value, ok := p.getAddr("value")
	if !ok {
		writeResponse(w, 400, "text/plain", "Missing 'value' parameter")
		return
	}

	prevTop := s.eng.StackPush(value)
	body := fmt.Sprintf(`{"success":true,"previous_top":"%s"}`, hexUint(prevTop))
	writeResponse(w, 200, "application/json", body)
}

func (s *Server) handleStackPop(w io.Writer, p params) {
	value := s.eng.StackPop()
	body := fmt.Sprintf(`{"success":true,"value":"%s"}`, hexUint(value))
	writeResponse(w, 200, "application/json", body)
}

func (s *Server) handleStackPeek(w io.Writer, p params) {
	offset, _ := p.getInt("offset")

	value := s.eng.StackPeek(offset)
	body := fmt.Sprintf(`{"success":true,"offset":%d,"value":"%s"}`, offset, hexUint(value))
	writeResponse(w, 200, "application/json", body)
}
