package httpd

import (
	"fmt"
	"io"
)

// Assembler endpoints.

func (s *Server) handleAssemble(w io.Writer, p params) {
	addr, addrOK := p.getAddr("addr")
	instruction, instrOK := p.get("instruction")
	if !addrOK || !instrOK {
		writeResponse(w, 400, "text/plain", "Missing 'addr' or 'instruction' parameter")
		return
	}

	encoded, success := s.eng.Assemble(addr, instruction)
	body := fmt.Sprintf(`{"success":%s,"size":%d,"bytes":"%s"}`,
		boolJSON(success), len(encoded), hexBytes(encoded))
	writeResponse(w, 200, "application/json", body)
}

func (s *Server) handleAssembleMem(w io.Writer, p params) {
	addr, addrOK := p.getAddr("addr")
	instruction, instrOK := p.get("instruction")
	if !addrOK || !instrOK {
		writeResponse(w, 400, "text/plain", "Missing 'addr' or 'instruction' parameter")
		return
	}

	success := s.eng.AssembleAt(addr, instruction)
	writeResponse(w, 200, "application/json",
		fmt.Sprintf(`{"success":%s}`, boolJSON(success)))
}
