package httpd

import (
	"bytes"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/x64dbg-mcp/x64dbg-mcp/internal/engine"
	"github.com/x64dbg-mcp/x64dbg-mcp/internal/logging"
)

func startServer(t *testing.T, eng engine.Engine, cfg Config) *Server {
	t.Helper()
	cfg.Addr = "127.0.0.1:0"
	cfg.Engine = eng
	cfg.Logger = logging.NewLoggerWithWriter(false, false, false, io.Discard)
	srv := New(cfg)
	if err := srv.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(srv.Stop)
	return srv
}

// sendRaw writes exactly the given bytes and returns everything the
// server sends back before closing the connection.
func sendRaw(t *testing.T, addr, raw string) string {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if raw != "" {
		if _, err := conn.Write([]byte(raw)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	resp, err := io.ReadAll(conn)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(resp)
}

func httpGet(t *testing.T, addr, target string) string {
	return sendRaw(t, addr, "GET "+target+" HTTP/1.1\r\nHost: 127.0.0.1\r\n\r\n")
}

func TestServerStatusEndToEnd(t *testing.T) {
	srv := startServer(t, engine.NewSim(), Config{})

	code, headers, body := parseResponse(t, httpGet(t, srv.Addr().String(), "/status"))
	if code != 200 {
		t.Fatalf("status = %d, want 200", code)
	}
	if body != `{"version":3,"arch":"x64","debugging":true,"running":false}` {
		t.Errorf("unexpected body %q", body)
	}
	if headers["access-control-allow-origin"] != "*" {
		t.Error("missing CORS header")
	}
	if headers["connection"] != "close" {
		t.Error("missing Connection: close header")
	}
}

func TestServerUnknownPath(t *testing.T) {
	srv := startServer(t, engine.NewSim(), Config{})

	code, _, body := parseResponse(t, httpGet(t, srv.Addr().String(), "/no/such/endpoint"))
	if code != 404 {
		t.Errorf("status = %d, want 404", code)
	}
	if !strings.Contains(strings.ToLower(body), "not found") {
		t.Errorf("body %q should mention not found", body)
	}
}

func TestServerMalformedRequestDropped(t *testing.T) {
	srv := startServer(t, engine.NewSim(), Config{})

	tests := []struct {
		name string
		raw  string
	}{
		{name: "no spaces in request line", raw: "GARBAGE\r\n\r\n"},
		{name: "missing version token", raw: "GET /status\r\n\r\n"},
		{name: "no line terminator", raw: "GET /status HTTP/1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := sendRaw(t, srv.Addr().String(), tt.raw)
			if resp != "" {
				t.Errorf("expected connection closed with zero bytes, got %q", resp)
			}
		})
	}
}

func TestServerReadDeadline(t *testing.T) {
	srv := startServer(t, engine.NewSim(), Config{ReadTimeout: 100 * time.Millisecond})

	// Dial and send nothing; the server must drop the connection without
	// writing a response once the read deadline expires.
	resp := sendRaw(t, srv.Addr().String(), "")
	if resp != "" {
		t.Errorf("expected silent drop on read timeout, got %q", resp)
	}
}

func TestServerIdempotentRegisterRead(t *testing.T) {
	srv := startServer(t, engine.NewSim(), Config{})

	first := httpGet(t, srv.Addr().String(), "/register/get?name=eax")
	second := httpGet(t, srv.Addr().String(), "/register/get?name=eax")
	if first != second {
		t.Errorf("repeated reads differ:\n%q\n%q", first, second)
	}
}

func TestServerQueryDecodingOverWire(t *testing.T) {
	srv := startServer(t, engine.NewSim(), Config{})
	addr := srv.Addr().String()

	code, _, body := parseResponse(t,
		httpGet(t, addr, "/label/set?addr=0x401000&text=hello+world%21&manual=true"))
	if code != 200 || body != `{"success":true}` {
		t.Fatalf("label set = %d %q", code, body)
	}

	code, _, body = parseResponse(t, httpGet(t, addr, "/label/get?addr=0x401000"))
	if code != 200 || body != `{"success":true,"text":"hello world!"}` {
		t.Errorf("label get = %d %q", code, body)
	}
}

func TestServerSerializesRequests(t *testing.T) {
	m := newMockEngine()
	m.delay = 200 * time.Millisecond
	srv := startServer(t, m, Config{})
	addr := srv.Addr().String()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		httpGet(t, addr, "/cmd?cmd=slow")
	}()

	// Give request A time to be accepted and enter its engine call.
	time.Sleep(50 * time.Millisecond)

	go func() {
		defer wg.Done()
		httpGet(t, addr, "/status")
	}()

	wg.Wait()

	calls := m.callNames()
	if len(calls) < 2 {
		t.Fatalf("expected calls from both requests, got %v", calls)
	}
	if calls[0] != "ExecCommand" {
		t.Errorf("request B was served before request A finished: %v", calls)
	}
}

type panicEngine struct {
	*mockEngine
}

func (p *panicEngine) ExecCommand(cmd string) bool {
	panic("engine exploded")
}

func TestServerPanicBoundary(t *testing.T) {
	srv := startServer(t, &panicEngine{newMockEngine()}, Config{})

	code, headers, body := parseResponse(t, httpGet(t, srv.Addr().String(), "/cmd?cmd=x"))
	if code != 500 {
		t.Errorf("status = %d, want 500", code)
	}
	if headers["content-type"] != "application/json" {
		t.Errorf("content type = %q, want application/json", headers["content-type"])
	}
	if body != `{"error":"engine exploded"}` {
		t.Errorf("body = %q", body)
	}
}

func TestServerStop(t *testing.T) {
	srv := startServer(t, engine.NewSim(), Config{})
	addr := srv.Addr().String()

	srv.Stop()
	srv.Stop() // second stop must be a no-op

	if _, err := net.DialTimeout("tcp", addr, 200*time.Millisecond); err == nil {
		t.Error("expected dial to fail after Stop")
	}
}

func TestServerPacesAcceptErrors(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		Addr:   "127.0.0.1:0",
		Engine: engine.NewSim(),
		Logger: logging.NewLoggerWithWriter(false, false, false, &buf),
	}
	srv := New(cfg)
	if err := srv.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}

	// Kill the listener out from under the serve loop; every Accept now
	// fails with a non-timeout error until Stop flips the running flag.
	_ = srv.ln.Close()
	time.Sleep(100 * time.Millisecond)
	srv.Stop()

	warnings := strings.Count(buf.String(), "Accept error")
	if warnings == 0 {
		t.Fatal("expected accept errors to be logged")
	}
	// With the error path paced at the poll interval, 100ms admits on
	// the order of ten failures; a hot spin would log thousands.
	if warnings > 50 {
		t.Errorf("accept error path is not paced: %d log entries in 100ms", warnings)
	}
}

func TestServerTruncatedOversizedRequest(t *testing.T) {
	srv := startServer(t, engine.NewSim(), Config{})

	// A request line longer than the read cap gets truncated mid-line and
	// must be dropped, not crash the server.
	huge := "GET /" + strings.Repeat("a", maxRequestSize*2)
	resp := sendRaw(t, srv.Addr().String(), huge)
	if resp != "" {
		t.Errorf("expected oversized request to be dropped, got %q", resp)
	}

	// The server must still serve subsequent requests.
	code, _, _ := parseResponse(t, httpGet(t, srv.Addr().String(), "/status"))
	if code != 200 {
		t.Errorf("server unhealthy after oversized request: status %d", code)
	}
}
