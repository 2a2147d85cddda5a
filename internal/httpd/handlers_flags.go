package httpd

import (
	"fmt"
	"io"
	"strings"

	"github.com/x64dbg-mcp/x64dbg-mcp/internal/engine"
)

// CPU flag endpoints.

const invalidFlagMessage = "Invalid flag name (use: ZF, OF, CF, PF, SF, TF, AF, DF, IF)"

func (s *Server) handleFlagGet(w io.Writer, p params) {
	flagName, ok := p.get("flag")
	if !ok {
		writeResponse(w, 400, "text/plain", "Missing 'flag' parameter")
		return
	}

	flag, ok := engine.ParseFlag(flagName)
	if !ok {
		writeResponse(w, 400, "text/plain", invalidFlagMessage)
		return
	}

	value := s.eng.Flag(flag)
	body := fmt.Sprintf(`{"flag":"%s","value":%s}`, flagName, boolJSON(value))
	writeResponse(w, 200, "application/json", body)
}

func (s *Server) handleFlagSet(w io.Writer, p params) {
	flagName, nameOK := p.get("flag")
	value, valueOK := p.getBool("value")
	if !nameOK || !valueOK {
		writeResponse(w, 400, "text/plain", "Missing 'flag' or 'value' parameter")
		return
	}

	flag, ok := engine.ParseFlag(flagName)
	if !ok {
		writeResponse(w, 400, "text/plain", invalidFlagMessage)
		return
	}

	success := s.eng.SetFlag(flag, value)
	writeResponse(w, 200, "application/json",
		fmt.Sprintf(`{"success":%s}`, boolJSON(success)))
}

func (s *Server) handleFlagsGetAll(w io.Writer, p params) {
	var b strings.Builder
	b.WriteString("{")
	for i, flag := range engine.AllFlags {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `"%s":%s`, flag, boolJSON(s.eng.Flag(flag)))
	}
	b.WriteString("}")
	writeResponse(w, 200, "application/json", b.String())
}
