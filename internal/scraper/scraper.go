// Package scraper turns a URL into an immutable model.SiteContent snapshot.
// It is the only component that performs network I/O during an analysis.
package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/raysh454/sitecheck/internal/config"
	"github.com/raysh454/sitecheck/internal/logging"
	"github.com/raysh454/sitecheck/internal/model"
	"github.com/raysh454/sitecheck/internal/webclient"
)

// FetchError reports a failed page fetch. The analyzer folds it into a
// degraded report instead of propagating it.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Scraper is the page-fetch collaborator contract. Implementations own a
// scoped resource (browser session, HTTP client) released by Close on every
// exit path.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*model.SiteContent, error)
	Close() error
}

// WebScraper fetches pages through a webclient backend and extracts the
// structural signals the assessor needs.
type WebScraper struct {
	client  webclient.WebClient
	timeout time.Duration
	logger  logging.Logger
}

// New builds a WebScraper on the configured webclient backend.
func New(cfg *config.Config, logger logging.Logger) (*WebScraper, error) {
	logger = logging.OrNop(logger)

	client, err := webclient.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("creating webclient: %w", err)
	}

	timeout := config.DefaultFetchTimeout
	if cfg != nil && cfg.FetchTimeout > 0 {
		timeout = cfg.FetchTimeout
	}

	return &WebScraper{
		client:  client,
		timeout: timeout,
		logger:  logger.With(logging.Field{Key: "component", Value: "scraper"}),
	}, nil
}

// NewWithClient builds a WebScraper on an existing webclient. Used by tests
// and by callers that manage the client lifecycle themselves.
func NewWithClient(client webclient.WebClient, timeout time.Duration, logger logging.Logger) *WebScraper {
	if timeout <= 0 {
		timeout = config.DefaultFetchTimeout
	}
	return &WebScraper{
		client:  client,
		timeout: timeout,
		logger:  logging.OrNop(logger).With(logging.Field{Key: "component", Value: "scraper"}),
	}
}

// Scrape fetches url under the configured timeout and extracts title, meta
// tags, links, forms and plain text. The returned SiteContent is complete
// and never mutated afterwards.
func (s *WebScraper) Scrape(ctx context.Context, url string) (*model.SiteContent, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.logger.Info("fetching page", logging.Field{Key: "url", Value: url})

	resp, err := s.client.Do(ctx, &webclient.Request{Method: "GET", URL: url})
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	content := ExtractContent(url, resp.Body)
	content.ResponseTime = time.Since(start).Seconds()
	content.StatusCode = resp.StatusCode

	s.logger.Debug("page fetched",
		logging.Field{Key: "url", Value: url},
		logging.Field{Key: "status", Value: resp.StatusCode},
		logging.Field{Key: "forms", Value: len(content.Forms)},
		logging.Field{Key: "links", Value: len(content.Links)})

	return content, nil
}

// Close releases the underlying webclient.
func (s *WebScraper) Close() error {
	return s.client.Close()
}
