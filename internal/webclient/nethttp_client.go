package webclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/raysh454/sitecheck/internal/config"
	"github.com/raysh454/sitecheck/internal/logging"
)

func init() {
	RegisterBackend("nethttp", func(cfg *config.Config, logger logging.Logger) (WebClient, error) {
		return NewNetHTTPClient(cfg, logger, nil)
	})
}

// NetHTTPClient is the net/http backed WebClient. It fetches raw bytes
// without rendering, which is enough for static pages.
type NetHTTPClient struct {
	client    *http.Client
	userAgent string
	logger    logging.Logger
}

// NewNetHTTPClient builds a NetHTTPClient. Pass a non-nil httpClient to
// override the transport (tests inject httptest clients here).
func NewNetHTTPClient(cfg *config.Config, logger logging.Logger, httpClient *http.Client) (*NetHTTPClient, error) {
	componentLogger := logging.OrNop(logger).With(logging.Field{Key: "component", Value: "webclient-nethttp"})

	if httpClient == nil {
		timeout := config.DefaultFetchTimeout
		if cfg != nil && cfg.FetchTimeout > 0 {
			timeout = cfg.FetchTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	userAgent := config.DefaultUserAgent
	if cfg != nil && cfg.UserAgent != "" {
		userAgent = cfg.UserAgent
	}

	componentLogger.Info("created nethttp webclient",
		logging.Field{Key: "timeout", Value: httpClient.Timeout.String()})

	return &NetHTTPClient{
		client:    httpClient,
		userAgent: userAgent,
		logger:    componentLogger,
	}, nil
}

// Do executes the request with net/http.
func (c *NetHTTPClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	c.logger.Debug("sending http request",
		logging.Field{Key: "method", Value: method},
		logging.Field{Key: "url", Value: req.URL})

	var bodyReader io.Reader
	if len(req.Body) > 0 {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("User-Agent", c.userAgent)
	for k, vs := range req.Headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Warn("http request failed",
			logging.Field{Key: "url", Value: req.URL},
			logging.Field{Key: "error", Value: err.Error()})
		return nil, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{
		Request:    req,
		Body:       body,
		Headers:    resp.Header,
		StatusCode: resp.StatusCode,
		FetchedAt:  time.Now(),
	}, nil
}

// Get is a convenience wrapper for simple GET requests.
func (c *NetHTTPClient) Get(ctx context.Context, url string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, URL: url})
}

func (c *NetHTTPClient) Close() error {
	c.logger.Debug("closing nethttp webclient")
	return nil
}
