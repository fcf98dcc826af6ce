package webclient

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/raysh454/sitecheck/internal/config"
	"github.com/raysh454/sitecheck/internal/logging"
)

func init() {
	RegisterBackend("chromedp", func(cfg *config.Config, logger logging.Logger) (WebClient, error) {
		return NewChromeDPClient(cfg, logger)
	})
}

// networkIdleAfter is how long the network must stay quiet before the page
// is considered fully loaded.
const networkIdleAfter = 2 * time.Second

// ChromeDPClient renders pages in a headless browser so script-built DOM
// (the common case on phishing kits) is visible to the scraper.
type ChromeDPClient struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	logger      logging.Logger
}

// NewChromeDPClient starts a shared browser allocator. Each Do call opens
// its own tab; Close tears the browser down.
func NewChromeDPClient(cfg *config.Config, logger logging.Logger) (*ChromeDPClient, error) {
	componentLogger := logging.OrNop(logger).With(logging.Field{Key: "component", Value: "webclient-chromedp"})

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if cfg != nil && cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	componentLogger.Info("created chromedp webclient")

	return &ChromeDPClient{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		logger:      componentLogger,
	}, nil
}

// waitNetworkIdle returns a channel that closes once no request has been in
// flight for idleAfter. The listener must be attached before navigation.
func waitNetworkIdle(ctx context.Context, idleAfter time.Duration) <-chan struct{} {
	idleChan := make(chan struct{})
	var activeReqs int32
	var timer *time.Timer
	var timerMutex sync.Mutex
	var once sync.Once

	startTimer := func() {
		timerMutex.Lock()
		defer timerMutex.Unlock()

		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(idleAfter, func() {
			if atomic.LoadInt32(&activeReqs) == 0 {
				once.Do(func() { close(idleChan) })
			}
		})
	}

	// Arm the timer immediately so pages that load no subresources still
	// become idle.
	startTimer()

	chromedp.ListenTarget(ctx, func(ev any) {
		switch ev.(type) {
		case *network.EventRequestWillBeSent:
			atomic.AddInt32(&activeReqs, 1)
		case *network.EventLoadingFinished, *network.EventLoadingFailed:
			if atomic.AddInt32(&activeReqs, -1) <= 0 {
				startTimer()
			}
		}
	})

	return idleChan
}

// Do navigates a fresh tab to req.URL, waits for network idle, and returns
// the rendered DOM. The caller's ctx deadline bounds the whole operation.
func (c *ChromeDPClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}

	tabCtx, tabCancel := chromedp.NewContext(c.allocCtx)
	defer tabCancel()

	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		tabCtx, cancel = context.WithDeadline(tabCtx, deadline)
		defer cancel()
	}

	c.logger.Debug("navigating", logging.Field{Key: "url", Value: req.URL})

	// Capture the status and headers of the main document response.
	var (
		docMutex   sync.Mutex
		statusCode int
		headers    = http.Header{}
	)
	chromedp.ListenTarget(tabCtx, func(ev any) {
		resp, ok := ev.(*network.EventResponseReceived)
		if !ok || resp.Type != network.ResourceTypeDocument {
			return
		}
		docMutex.Lock()
		defer docMutex.Unlock()
		if statusCode != 0 {
			return
		}
		statusCode = int(resp.Response.Status)
		for k, v := range resp.Response.Headers {
			headers.Set(k, fmt.Sprint(v))
		}
	})

	idleChan := waitNetworkIdle(tabCtx, networkIdleAfter)

	if err := chromedp.Run(tabCtx, network.Enable(), chromedp.Navigate(req.URL)); err != nil {
		return nil, fmt.Errorf("chromedp navigate: %w", err)
	}

	select {
	case <-idleChan:
	case <-tabCtx.Done():
		return nil, fmt.Errorf("chromedp wait for idle: %w", tabCtx.Err())
	case <-ctx.Done():
		return nil, fmt.Errorf("chromedp wait for idle: %w", ctx.Err())
	}

	var html string
	if err := chromedp.Run(tabCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return nil, fmt.Errorf("chromedp outer html: %w", err)
	}

	docMutex.Lock()
	defer docMutex.Unlock()
	return &Response{
		Request:    req,
		Body:       []byte(html),
		Headers:    headers,
		StatusCode: statusCode,
		FetchedAt:  time.Now(),
	}, nil
}

func (c *ChromeDPClient) Close() error {
	c.logger.Debug("closing chromedp webclient")
	if c.allocCancel != nil {
		c.allocCancel()
	}
	return nil
}
