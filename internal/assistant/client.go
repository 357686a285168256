// Package assistant is the client for the conversational assistant endpoint.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dohr-michael/taskchat/internal/reply"
)

// Request is the body POSTed to the assistant endpoint. ThreadID encodes as
// null when there is no continuity token.
type Request struct {
	Message  string  `json:"message"`
	ThreadID *string `json:"thread_id"`
}

// NewRequest builds a request, mapping an empty token to null.
func NewRequest(message, threadID string) Request {
	r := Request{Message: message}
	if threadID != "" {
		r.ThreadID = &threadID
	}
	return r
}

// TransportError covers every way the round trip can fail: network errors,
// timeouts, non-2xx statuses and bodies that are not a JSON object.
type TransportError struct {
	Status int // 0 when no response was received
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("assistant transport (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("assistant transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client posts messages to the assistant endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	timeout  time.Duration
}

// NewClient creates an assistant client. A zero timeout disables the per-call
// deadline; a nil httpClient uses http.DefaultClient.
func NewClient(endpoint string, httpClient *http.Client, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{endpoint: endpoint, http: httpClient, timeout: timeout}
}

// Endpoint returns the assistant URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Send posts req and decodes the reply. Any failure is a *TransportError.
func (c *Client) Send(ctx context.Context, req Request) (reply.Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(req)
	if err != nil {
		return reply.Response{}, &TransportError{Err: fmt.Errorf("marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return reply.Response{}, &TransportError{Err: fmt.Errorf("build request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return reply.Response{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return reply.Response{}, &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return reply.Response{}, &TransportError{Status: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return reply.Response{}, &TransportError{Status: resp.StatusCode, Err: errors.New("body is not a JSON object")}
	}

	var out reply.Response
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return reply.Response{}, &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("decode reply: %w", err)}
	}
	return out, nil
}
