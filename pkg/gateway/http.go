package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/grovetools/surround/errors"
)

// baseURL is the dummy host used for Unix socket HTTP requests.
// The actual connection goes through the Unix socket, not this URL.
const baseURL = "http://unix"

type callRequest struct {
	Args []interface{} `json:"args"`
}

type callResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error,omitempty"`
}

// HTTPCaller calls the backend's HTTP API over a Unix socket.
type HTTPCaller struct {
	httpClient *http.Client
	socketPath string
}

// NewHTTPCaller creates a caller connected to the backend socket.
func NewHTTPCaller(socketPath string, timeout time.Duration) *HTTPCaller {
	transport := &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", socketPath)
		},
		DisableKeepAlives: false,
		MaxIdleConns:      10,
		IdleConnTimeout:   90 * time.Second,
	}

	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HTTPCaller{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		socketPath: socketPath,
	}
}

// Call posts {"args": [...]} to /api/call/<method>.
func (c *HTTPCaller) Call(ctx context.Context, method string, args []interface{}, out interface{}) error {
	body, err := json.Marshal(callRequest{Args: args})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "failed to encode call arguments").
			WithDetail("method", method)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/call/"+method, bytes.NewReader(body))
	if err != nil {
		return errors.CallFailed(method, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.CallFailed(method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.CallFailed(method, fmt.Errorf("backend returned status %d", resp.StatusCode)).
			WithDetail("status", resp.StatusCode)
	}

	var reply callResponse
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return errors.Malformed(method, err)
	}
	return decodeReply(method, reply, out)
}

// IsRunning returns true if the backend is available and responding.
func (c *HTTPCaller) IsRunning(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Ping returns BACKEND_UNAVAILABLE when the health check fails.
func (c *HTTPCaller) Ping(ctx context.Context) error {
	if !c.IsRunning(ctx) {
		return errors.Unavailable(c.socketPath, fmt.Errorf("health check failed"))
	}
	return nil
}

// Close cleans up any resources used by the caller.
func (c *HTTPCaller) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func decodeReply(method string, reply callResponse, out interface{}) error {
	if reply.Error != "" {
		return errors.Rejected(method, reply.Error)
	}
	if out == nil {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], reply.Result...)
		return nil
	}
	if len(reply.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(reply.Result, out); err != nil {
		return errors.Malformed(method, err)
	}
	return nil
}

var _ Caller = (*HTTPCaller)(nil)
