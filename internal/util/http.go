package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultHTTPTimeout bounds a single download.
const DefaultHTTPTimeout = 10 * time.Second

// Response is the part of an HTTP response callers need.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// NewHTTPClient returns a client with timeout (DefaultHTTPTimeout if zero).
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

// GetBytes performs a GET and reads at most limit bytes of the body
// (unlimited when limit <= 0). Non-2xx statuses are returned as a Response
// without error; callers decide what to accept.
func GetBytes(ctx context.Context, client *http.Client, url string, limit int64) (*Response, error) {
	if client == nil {
		client = NewHTTPClient(0)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if limit > 0 {
		body = io.LimitReader(resp.Body, limit+1)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if limit > 0 && int64(len(b)) > limit {
		return nil, fmt.Errorf("response body exceeds %d bytes", limit)
	}
	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        b,
	}, nil
}
