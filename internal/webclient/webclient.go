// Package webclient abstracts page transport behind a small interface so the
// scraper can run on either a plain HTTP client or a headless browser.
package webclient

import (
	"context"
	"net/http"
	"time"
)

// Request describes one fetch. Options carries backend-specific hints.
type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
	Options map[string]string
}

// Response is the backend-independent fetch result. For the chromedp
// backend, Body holds the rendered DOM rather than the raw transfer bytes.
type Response struct {
	Request    *Request
	Headers    http.Header
	Body       []byte
	StatusCode int
	FetchedAt  time.Time
}

// WebClient executes requests. Implementations must honor ctx deadlines and
// release all resources on Close.
type WebClient interface {
	Do(ctx context.Context, req *Request) (*Response, error)
	Close() error
}
