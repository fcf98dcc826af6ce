package webclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/raysh454/sitecheck/internal/config"
)

func TestNetHTTPClientDo(t *testing.T) {
	t.Parallel()

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer srv.Close()

	client, err := NewNetHTTPClient(config.Default(), nil, srv.Client())
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	defer client.Close()

	resp, err := client.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if string(resp.Body) != "<html><body>hello</body></html>" {
		t.Errorf("unexpected body %q", resp.Body)
	}
	if gotUA != config.DefaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, config.DefaultUserAgent)
	}
	if resp.Headers.Get("Content-Type") != "text/html" {
		t.Errorf("Content-Type header not propagated")
	}
}

func TestNetHTTPClientContextCancel(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	client, err := NewNetHTTPClient(config.Default(), nil, srv.Client())
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := client.Get(ctx, srv.URL); err == nil {
		t.Fatal("expected error on cancelled context")
	}
}

func TestNetHTTPClientNilRequest(t *testing.T) {
	t.Parallel()

	client, err := NewNetHTTPClient(config.Default(), nil, nil)
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	defer client.Close()

	if _, err := client.Do(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil request")
	}
}

func TestFactory(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Backend = "nethttp"

	wc, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer wc.Close()

	if _, ok := wc.(*NetHTTPClient); !ok {
		t.Errorf("expected *NetHTTPClient, got %T", wc)
	}
}

func TestFactoryUnknownBackend(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Backend = "carrier-pigeon"

	if _, err := New(cfg, nil); err == nil {
		t.Fatal("expected error for unregistered backend")
	}
}
