// Package panel is the Pterodactyl API client. Every call is a single
// attempt with a bounded timeout; retry policy belongs to callers (and
// nothing in this service retries).
package panel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const acceptHeader = "application/vnd.pterodactyl.v1+json"

// Options carries the injected configuration. The API key lives only here
// and in outbound request headers; it must never be logged or echoed.
type Options struct {
	Domain  string // e.g. https://panel.example.com, no trailing slash
	APIKey  string
	Timeout time.Duration // default 15s
}

type Client struct {
	base   string
	apiKey string
	http   *http.Client
}

func New(opt Options) *Client {
	timeout := opt.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		base:   strings.TrimRight(opt.Domain, "/"),
		apiKey: opt.APIKey,
		http:   &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx response from the panel. Body is captured for
// server-side logs only and is never forwarded to dashboard clients.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
	Cause      error
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("panel %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("panel %s: status %d", e.Op, e.StatusCode)
}

func (e *APIError) Unwrap() error { return e.Cause }

// Timeout reports whether the failure was a timed-out round trip.
func (e *APIError) Timeout() bool {
	var ne net.Error
	if errors.As(e.Cause, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(e.Cause, context.DeadlineExceeded)
}

const maxBodyBytes = 2 << 20

// do performs one request and decodes a 2xx JSON body into out (out may be
// nil for 204-style responses).
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &APIError{Op: op, Cause: err}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return &APIError{Op: op, Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", acceptHeader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Op: op, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		return &APIError{Op: op, StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return &APIError{Op: op, Cause: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
