package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config fails validation: %v", err)
	}
	if cfg.FetchTimeout != 30*time.Second {
		t.Errorf("FetchTimeout = %s, want 30s", cfg.FetchTimeout)
	}
	if cfg.Backend != "chromedp" {
		t.Errorf("Backend = %q, want chromedp", cfg.Backend)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults valid", mutate: func(*Config) {}},
		{name: "zero timeout", mutate: func(c *Config) { c.FetchTimeout = 0 }, wantErr: true},
		{name: "unknown backend", mutate: func(c *Config) { c.Backend = "curl" }, wantErr: true},
		{name: "nethttp backend", mutate: func(c *Config) { c.Backend = "nethttp" }},
		{name: "zero batch size", mutate: func(c *Config) { c.BatchSize = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "fetch_timeout: 10s\nbackend: nethttp\nopenai_model: gpt-4o\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Errorf("FetchTimeout = %s, want 10s", cfg.FetchTimeout)
	}
	if cfg.Backend != "nethttp" {
		t.Errorf("Backend = %q, want nethttp", cfg.Backend)
	}
	// Omitted fields keep defaults.
	if cfg.ListenAddr != DefaultListenAddr {
		t.Errorf("ListenAddr = %q, want default %q", cfg.ListenAddr, DefaultListenAddr)
	}
}

func TestLoadFileNotFound(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != ErrConfigNotFound {
		t.Errorf("err = %v, want ErrConfigNotFound", err)
	}
}

func TestHistoryDBPath(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if cfg.HistoryDBPath() == "" {
		t.Error("default HistoryDBPath should not be empty")
	}

	cfg.HistoryPath = "-"
	if cfg.HistoryDBPath() != "" {
		t.Error("HistoryPath \"-\" should disable history")
	}

	cfg.HistoryPath = "/tmp/custom.db"
	if cfg.HistoryDBPath() != "/tmp/custom.db" {
		t.Errorf("HistoryDBPath = %q", cfg.HistoryDBPath())
	}
}
