package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/x64dbg-mcp/x64dbg-mcp/internal/logging"
)

const (
	// DefaultEndpoint is where the control server listens by default.
	DefaultEndpoint = "http://127.0.0.1:8888"

	// defaultTimeout bounds every control API call. The server handles one
	// request at a time, so a stuck engine call would otherwise hang every
	// client forever.
	defaultTimeout = 5 * time.Second
)

// Client is a typed HTTP client for the debugger control API.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *logging.Logger
}

// ClientConfig holds configuration for creating a new Client.
type ClientConfig struct {
	// Endpoint is the control server base URL; defaults to DefaultEndpoint.
	Endpoint string
	// Timeout bounds each request; defaults to defaultTimeout.
	Timeout time.Duration
	// Logger receives wire traces; may be nil.
	Logger *logging.Logger
}

// NewClient creates a client for the control API.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   cfg.Logger,
	}
}

// Endpoint returns the configured control server base URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Call performs one control API request and returns the response body.
// Non-200 responses and transport failures are returned as errors with
// an operator-facing hint where the cause is a dead or absent server.
func (c *Client) Call(ctx context.Context, endpoint string, query url.Values) (string, error) {
	target := c.endpoint + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", endpoint, err)
	}

	c.logger.Request("GET %s", target)

	resp, err := c.http.Do(req)
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return "", fmt.Errorf("request timed out - is the debugger running?")
		}
		return "", fmt.Errorf("cannot connect to %s - is the plugin loaded?", c.endpoint)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response from %s: %w", endpoint, err)
	}

	c.logger.Response("%d %s", resp.StatusCode, string(body))

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return string(body), nil
}

// Status is the decoded /status payload.
type Status struct {
	Version   int    `json:"version"`
	Arch      string `json:"arch"`
	Debugging bool   `json:"debugging"`
	Running   bool   `json:"running"`
}

// Status fetches and decodes the server status.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	body, err := c.Call(ctx, "/status", nil)
	if err != nil {
		return nil, err
	}
	var st Status
	if err := json.Unmarshal([]byte(body), &st); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	return &st, nil
}

// PrettyJSON re-indents a JSON document for terminal display. Input that
// is not valid JSON is returned unchanged.
func PrettyJSON(raw string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(raw), "", "  "); err != nil {
		return raw
	}
	return buf.String()
}
