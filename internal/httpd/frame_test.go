package httpd

import "testing"

func TestParseFrame(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		ok         bool
		wantMethod string
		wantPath   string
		wantQuery  string
		wantBody   string
	}{
		{
			name:       "simple GET",
			raw:        "GET /status HTTP/1.1\r\nHost: localhost\r\n\r\n",
			ok:         true,
			wantMethod: "GET",
			wantPath:   "/status",
		},
		{
			name:       "with query",
			raw:        "GET /register/get?name=eax HTTP/1.1\r\nHost: x\r\n\r\n",
			ok:         true,
			wantMethod: "GET",
			wantPath:   "/register/get",
			wantQuery:  "name=eax",
		},
		{
			name:       "with body",
			raw:        "POST /cmd HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello",
			ok:         true,
			wantMethod: "POST",
			wantPath:   "/cmd",
			wantBody:   "hello",
		},
		{
			name:       "empty query after question mark",
			raw:        "GET /modules? HTTP/1.1\r\n\r\n",
			ok:         true,
			wantMethod: "GET",
			wantPath:   "/modules",
			wantQuery:  "",
		},
		{
			name: "no line terminator",
			raw:  "GET /status HTTP/1.1",
			ok:   false,
		},
		{
			name: "missing version token",
			raw:  "GET /status\r\n\r\n",
			ok:   false,
		},
		{
			name: "bare method",
			raw:  "GET\r\n\r\n",
			ok:   false,
		},
		{
			name: "empty buffer",
			raw:  "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, ok := parseFrame([]byte(tt.raw))
			if ok != tt.ok {
				t.Fatalf("parseFrame ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if req.method != tt.wantMethod {
				t.Errorf("method = %q, want %q", req.method, tt.wantMethod)
			}
			if req.path != tt.wantPath {
				t.Errorf("path = %q, want %q", req.path, tt.wantPath)
			}
			if req.query != tt.wantQuery {
				t.Errorf("query = %q, want %q", req.query, tt.wantQuery)
			}
			if req.body != tt.wantBody {
				t.Errorf("body = %q, want %q", req.body, tt.wantBody)
			}
		})
	}
}
