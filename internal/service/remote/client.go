// Package remote talks to the college query service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gcet-assistant/backend/internal/model/profile"
)

// ErrUnavailable covers every way the service can fail to answer: transport
// errors, timeouts, non-2xx statuses and malformed bodies.
var ErrUnavailable = errors.New("query service unavailable")

// maxBody caps how much of a response is read.
const maxBody = 1 << 20

// Response types the service may return.
const (
	TypeTimetable = "timetable"
	TypeExam      = "exam"
	TypePDFs      = "pdfs"
)

// Query is the request body.
type Query struct {
	Text    string              `json:"text"`
	Context profile.UserContext `json:"context"`
}

// Response is the decoded reply. Data is kept raw; its shape depends on Type.
type Response struct {
	OK      bool            `json:"ok"`
	Type    string          `json:"type,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Client posts queries to a single endpoint.
type Client struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

// NewClient returns a client for url that gives up after timeout.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Client{
		url:     url,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

// Query sends q. Any failure is reported as ErrUnavailable wrapping the cause.
func (c *Client) Query(ctx context.Context, q Query) (Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(q)
	if err != nil {
		return Response{}, fmt.Errorf("%w: marshal request: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("%w: create request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Response{}, fmt.Errorf("%w: status=%d", ErrUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return Response{}, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return Response{}, fmt.Errorf("%w: unmarshal response: %v", ErrUnavailable, err)
	}
	return out, nil
}
