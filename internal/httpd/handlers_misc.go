package httpd

import (
	"fmt"
	"io"
)

// Expression, label resolution and remote API address endpoints.

func (s *Server) handleParseExpression(w io.Writer, p params) {
	expression, ok := p.get("expr")
	if !ok {
		writeResponse(w, 400, "text/plain", "Missing 'expr' parameter")
		return
	}

	value, success := s.eng.ParseExpression(expression)
	body := fmt.Sprintf(`{"success":%s,"expression":"%s","value":"%s"}`,
		boolJSON(success), jsonEscape(expression), hexUint(value))
	writeResponse(w, 200, "application/json", body)
}

func (s *Server) handleResolveLabel(w io.Writer, p params) {
	label, ok := p.get("label")
	if !ok {
		writeResponse(w, 400, "text/plain", "Missing 'label' parameter")
		return
	}

	addr := s.eng.ResolveLabel(label)
	body := fmt.Sprintf(`{"success":%s,"label":"%s","address":"%s"}`,
		boolJSON(addr != 0), jsonEscape(label), hexUint(addr))
	writeResponse(w, 200, "application/json", body)
}

func (s *Server) handleGetProcAddress(w io.Writer, p params) {
	module, moduleOK := p.get("module")
	api, apiOK := p.get("api")
	if !moduleOK || !apiOK {
		writeResponse(w, 400, "text/plain", "Missing 'module' or 'api' parameter")
		return
	}

	addr := s.eng.ProcAddress(module, api)
	body := fmt.Sprintf(`{"success":%s,"module":"%s","api":"%s","address":"%s"}`,
		boolJSON(addr != 0), jsonEscape(module), jsonEscape(api), hexUint(addr))
	writeResponse(w, 200, "application/json", body)
}
