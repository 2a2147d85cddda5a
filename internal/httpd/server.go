// Package httpd implements the loopback HTTP control server embedded in
// the debugger host. The wire protocol is deliberately minimal: one
// bounded read per connection, exact-path dispatch, hand-built JSON
// bodies, no keep-alive. All requests are served from a single goroutine
// because the engine is not reentrant.
package httpd

import (
	"fmt"
	"io"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/x64dbg-mcp/x64dbg-mcp/internal/engine"
	"github.com/x64dbg-mcp/x64dbg-mcp/internal/logging"
)

const (
	// ServerVersion is reported by /status.
	ServerVersion = 3
	// DefaultAddr is the default loopback listen address.
	DefaultAddr = "127.0.0.1:8888"

	archName = "x64"

	// maxRequestSize caps the single read per connection. Larger requests
	// are truncated, which normally surfaces as a frame parse failure.
	maxRequestSize = 16 * 1024

	// memoryReadLimit caps /memory/read to 1 MiB per request.
	memoryReadLimit = 1024 * 1024

	acceptPoll         = 10 * time.Millisecond
	defaultReadTimeout = 5 * time.Second
)

// handlerFunc serves one routed request. Every handler writes exactly
// one response on every path through its logic.
type handlerFunc func(w io.Writer, p params)

// Config configures a control server.
type Config struct {
	// Addr is the listen address; defaults to DefaultAddr. The server is
	// designed for loopback binding only.
	Addr string
	// Engine provides the debugger capabilities handlers invoke.
	Engine engine.Engine
	// Logger receives lifecycle and request logs; may be nil.
	Logger *logging.Logger
	// ReadTimeout bounds the per-connection read; connections that expire
	// are dropped without a response.
	ReadTimeout time.Duration
}

// Server owns the listening socket and the serve goroutine. The route
// table is built once at construction and never mutated afterwards.
type Server struct {
	cfg     Config
	eng     engine.Engine
	logger  *logging.Logger
	routes  map[string]handlerFunc
	ln      net.Listener
	running atomic.Bool
	done    chan struct{}
}

// New creates a server for the given engine. Start must be called before
// the server accepts connections.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	s := &Server{
		cfg:    cfg,
		eng:    cfg.Engine,
		logger: cfg.Logger,
		done:   make(chan struct{}),
	}
	s.routes = s.buildRoutes()
	return s
}

// Start binds the listening socket and launches the serve goroutine.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.cfg.Addr, err)
	}
	s.ln = ln
	s.running.Store(true)
	s.logger.Info("Control server listening on http://%s", ln.Addr())
	go s.serve()
	return nil
}

// Addr returns the bound listen address, valid after Start.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Stop requests shutdown and waits for the in-flight request, if any,
// to complete. Safe to call more than once.
func (s *Server) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	_ = s.ln.Close()
	<-s.done
	s.logger.Info("Control server stopped")
}

// serve accepts and fully processes one connection at a time. Accept
// uses a short deadline poll so the running flag is observed promptly;
// serializing everything here is what makes the engine calls safe.
func (s *Server) serve() {
	defer close(s.done)

	for s.running.Load() {
		if d, ok := s.ln.(interface{ SetDeadline(time.Time) error }); ok {
			_ = d.SetDeadline(time.Now().Add(acceptPoll))
		}
		conn, err := s.ln.Accept()
		if err != nil {
			if !s.running.Load() {
				return
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			s.logger.Warning("Accept error: %v", err)
			// Pace persistent accept failures (fd exhaustion and the
			// like) instead of hot-spinning on them.
			time.Sleep(acceptPoll)
			continue
		}
		s.handleConn(conn)
	}
}

// handleConn drives one request to completion: bounded read, frame
// parse, dispatch, close. Unreadable or malformed requests are dropped
// without a response.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))

	buf := make([]byte, maxRequestSize)
	n, err := conn.Read(buf)
	if err != nil || n <= 0 {
		return
	}

	req, ok := parseFrame(buf[:n])
	if !ok {
		s.logger.Debug("Dropped malformed request line")
		return
	}

	reqID := uuid.NewString()[:8]
	s.logger.Request("[%s] %s %s", reqID, req.method, req.path)

	s.dispatch(conn, req, parseQuery(req.query))
}

// dispatch resolves the route and runs the handler inside the recover
// boundary that guarantees at most one response per connection even
// when a handler fails unexpectedly.
func (s *Server) dispatch(w io.Writer, req rawRequest, p params) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Handler panic on %s: %v", req.path, r)
			writeResponse(w, 500, "application/json",
				`{"error":"`+jsonEscape(fmt.Sprint(r))+`"}`)
		}
	}()

	h, ok := s.routes[req.path]
	if !ok {
		writeResponse(w, 404, "text/plain", "Endpoint not found")
		return
	}
	h(w, p)
}

func statusText(code int) string {
	switch code {
	case 200:
		return "OK"
	case 400:
		return "Bad Request"
	case 404:
		return "Not Found"
	default:
		return "Internal Server Error"
	}
}

// writeResponse serializes one complete response in a single write.
func writeResponse(w io.Writer, code int, contentType, body string) {
	var b strings.Builder
	fmt.Fprintf(&b, "HTTP/1.1 %d %s\r\n", code, statusText(code))
	fmt.Fprintf(&b, "Content-Type: %s\r\n", contentType)
	fmt.Fprintf(&b, "Content-Length: %d\r\n", len(body))
	b.WriteString("Access-Control-Allow-Origin: *\r\n")
	b.WriteString("Connection: close\r\n\r\n")
	b.WriteString(body)
	_, _ = io.WriteString(w, b.String())
}
