package httpd

import (
	"fmt"
	"io"
	"strings"

	"github.com/x64dbg-mcp/x64dbg-mcp/internal/engine"
)

// Core status, control, register, memory, breakpoint, disassembly and
// module endpoints.

func (s *Server) handleStatus(w io.Writer, p params) {
	body := fmt.Sprintf(`{"version":%d,"arch":"%s","debugging":%s,"running":%s}`,
		ServerVersion, archName,
		boolJSON(s.eng.Debugging()), boolJSON(s.eng.Running()))
	writeResponse(w, 200, "application/json", body)
}

func (s *Server) handleCmd(w io.Writer, p params) {
	cmd, ok := p.get("cmd")
	if !ok {
		writeResponse(w, 400, "text/plain", "Missing 'cmd' parameter")
		return
	}

	success := s.eng.ExecCommand(cmd)
	body := fmt.Sprintf(`{"success":%s,"command":"%s"}`, boolJSON(success), jsonEscape(cmd))
	writeResponse(w, 200, "application/json", body)
}

func (s *Server) handleRegisterGet(w io.Writer, p params) {
	name, ok := p.get("name")
	if !ok {
		writeResponse(w, 400, "text/plain", "Missing 'name' parameter")
		return
	}

	reg, err := engine.ParseRegister(name)
	if err != nil {
		writeResponse(w, 400, "text/plain", err.Error())
		return
	}

	value := s.eng.Register(reg)
	body := fmt.Sprintf(`{"register":"%s","value":"%s"}`, name, hexUint(value))
	writeResponse(w, 200, "application/json", body)
}

func (s *Server) handleRegisterSet(w io.Writer, p params) {
	name, nameOK := p.get("name")
	value, valueOK := p.getAddr("value")
	if !nameOK || !valueOK {
		writeResponse(w, 400, "text/plain", "Missing 'name' or 'value' parameter")
		return
	}

	reg, err := engine.ParseRegister(name)
	if err != nil {
		writeResponse(w, 400, "text/plain", err.Error())
		return
	}

	success := s.eng.SetRegister(reg, value)
	writeResponse(w, 200, "application/json",
		fmt.Sprintf(`{"success":%s}`, boolJSON(success)))
}

func (s *Server) handleMemoryRead(w io.Writer, p params) {
	addr, addrOK := p.getAddr("addr")
	size, sizeOK := p.getAddr("size")
	if !addrOK || !sizeOK {
		writeResponse(w, 400, "text/plain", "Missing 'addr' or 'size' parameter")
		return
	}

	if size > memoryReadLimit {
		writeResponse(w, 400, "text/plain", "Size too large (max 1MB)")
		return
	}

	data, ok := s.eng.ReadMemory(addr, size)
	if !ok {
		writeResponse(w, 500, "text/plain", "Failed to read memory")
		return
	}

	body := fmt.Sprintf(`{"address":"%s","size":%d,"data":"%s"}`,
		hexUint(addr), len(data), hexBytes(data))
	writeResponse(w, 200, "application/json", body)
}

func (s *Server) handleMemoryWrite(w io.Writer, p params) {
	addr, addrOK := p.getAddr("addr")
	hexData, dataOK := p.get("data")
	if !addrOK || !dataOK {
		writeResponse(w, 400, "text/plain", "Missing 'addr' or 'data' parameter")
		return
	}

	data, err := parseHexBytes(hexData)
	if err != nil {
		writeResponse(w, 400, "text/plain", "Invalid hex in 'data' parameter")
		return
	}

	written, success := s.eng.WriteMemory(addr, data)
	body := fmt.Sprintf(`{"success":%s,"bytes_written":%d}`, boolJSON(success), written)
	writeResponse(w, 200, "application/json", body)
}

func (s *Server) handleDebugRun(w io.Writer, p params) {
	s.eng.Run()
	writeResponse(w, 200, "application/json", `{"success":true}`)
}

func (s *Server) handleDebugPause(w io.Writer, p params) {
	s.eng.Pause()
	writeResponse(w, 200, "application/json", `{"success":true}`)
}

func (s *Server) handleDebugStep(w io.Writer, p params) {
	s.eng.StepIn()
	writeResponse(w, 200, "application/json", `{"success":true}`)
}

func (s *Server) handleDebugStepOver(w io.Writer, p params) {
	s.eng.StepOver()
	writeResponse(w, 200, "application/json", `{"success":true}`)
}

func (s *Server) handleDebugStepOut(w io.Writer, p params) {
	s.eng.StepOut()
	writeResponse(w, 200, "application/json", `{"success":true}`)
}

func (s *Server) handleBreakpointSet(w io.Writer, p params) {
	addr, ok := p.getAddr("addr")
	if !ok {
		writeResponse(w, 400, "text/plain", "Missing 'addr' parameter")
		return
	}

	success := s.eng.SetBreakpoint(addr)
	writeResponse(w, 200, "application/json",
		fmt.Sprintf(`{"success":%s}`, boolJSON(success)))
}

func (s *Server) handleBreakpointDelete(w io.Writer, p params) {
	addr, ok := p.getAddr("addr")
	if !ok {
		writeResponse(w, 400, "text/plain", "Missing 'addr' parameter")
		return
	}

	success := s.eng.DeleteBreakpoint(addr)
	writeResponse(w, 200, "application/json",
		fmt.Sprintf(`{"success":%s}`, boolJSON(success)))
}

func (s *Server) handleDisasm(w io.Writer, p params) {
	addr, ok := p.getAddr("addr")
	if !ok {
		writeResponse(w, 400, "text/plain", "Missing 'addr' parameter")
		return
	}

	d := s.eng.Disassemble(addr)
	body := fmt.Sprintf(`{"address":"%s","instruction":"%s","size":%d}`,
		hexUint(addr), jsonEscape(d.Instruction), d.Size)
	writeResponse(w, 200, "application/json", body)
}

func (s *Server) handleModules(w io.Writer, p params) {
	modules, ok := s.eng.Modules()
	if !ok {
		writeResponse(w, 500, "text/plain", "Failed to get module list")
		return
	}

	var b strings.Builder
	b.WriteString("[")
	for i, m := range modules {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"name":"%s","base":"%s","size":"%s","entry":"%s","path":"%s"}`,
			jsonEscape(m.Name), hexUint(m.Base), hexUint(m.Size),
			hexUint(m.Entry), jsonEscape(m.Path))
	}
	b.WriteString("]")
	writeResponse(w, 200, "application/json", b.String())
}
