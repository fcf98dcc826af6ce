// Package testutil provides shared test doubles for use across package
// tests. All dummies implement the corresponding production interfaces,
// allowing injection into components under test without real I/O.
package testutil

import (
	"context"
	"sync"

	"github.com/raysh454/sitecheck/internal/agent"
	"github.com/raysh454/sitecheck/internal/logging"
	"github.com/raysh454/sitecheck/internal/model"
	"github.com/raysh454/sitecheck/internal/scraper"
	"github.com/raysh454/sitecheck/internal/webclient"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Debugs []string
	Infos  []string
	Warns  []string
	Errors []string
}

func (l *DummyLogger) Debug(msg string, _ ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, _ ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, _ ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, _ ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// ─── WebClient ─────────────────────────────────────────────────────────

// DummyWebClient implements webclient.WebClient. By default it answers
// status 200 with Bodies[url] (or "ok:<url>"). Set Fail[url] to force an
// error for that URL.
type DummyWebClient struct {
	Bodies map[string]string
	Fail   map[string]error

	mu       sync.Mutex
	Requests []*webclient.Request
	Closed   bool
}

func (d *DummyWebClient) Do(_ context.Context, req *webclient.Request) (*webclient.Response, error) {
	d.mu.Lock()
	d.Requests = append(d.Requests, req)
	d.mu.Unlock()

	if err, ok := d.Fail[req.URL]; ok {
		return nil, err
	}
	body := "ok:" + req.URL
	if b, ok := d.Bodies[req.URL]; ok {
		body = b
	}
	return &webclient.Response{
		Request:    req,
		Body:       []byte(body),
		StatusCode: 200,
	}, nil
}

func (d *DummyWebClient) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Closed = true
	return nil
}

// ─── Scraper ───────────────────────────────────────────────────────────

// DummyScraper implements scraper.Scraper, returning canned content per URL.
type DummyScraper struct {
	Content map[string]*model.SiteContent
	Err     error

	mu     sync.Mutex
	Calls  []string
	Closed bool
}

func (d *DummyScraper) Scrape(_ context.Context, url string) (*model.SiteContent, error) {
	d.mu.Lock()
	d.Calls = append(d.Calls, url)
	d.mu.Unlock()

	if d.Err != nil {
		return nil, d.Err
	}
	if c, ok := d.Content[url]; ok {
		return c, nil
	}
	return &model.SiteContent{URL: url}, nil
}

func (d *DummyScraper) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Closed = true
	return nil
}

var _ scraper.Scraper = (*DummyScraper)(nil)

// ─── Agent ─────────────────────────────────────────────────────────────

// DummyAgent implements agent.Agent with a canned answer or error.
type DummyAgent struct {
	Answer string
	Err    error

	mu      sync.Mutex
	Prompts []string
}

func (d *DummyAgent) Assess(_ context.Context, prompt string) (string, error) {
	d.mu.Lock()
	d.Prompts = append(d.Prompts, prompt)
	d.mu.Unlock()

	if d.Err != nil {
		return "", d.Err
	}
	return d.Answer, nil
}

var _ agent.Agent = (*DummyAgent)(nil)
