// Package config holds runtime configuration for sitecheck.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// AppName is used for XDG data paths.
const AppName = "sitecheck"

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".sitecheck.yaml"

// Defaults.
const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultBackend      = "chromedp"
	DefaultListenAddr   = ":8343"
	DefaultOpenAIModel  = "gpt-4o-mini"
	DefaultBatchSize    = 4
	DefaultUserAgent    = "sitecheck/1.0"
)

// OpenAIKeyEnv is the environment variable holding the API key. When unset,
// analysis falls back to the rule-based scorer.
const OpenAIKeyEnv = "OPENAI_API_KEY"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Config contains every runtime option the modules need. Zero values are
// filled from defaults in Default(); Validate catches impossible settings.
type Config struct {
	// FetchTimeout bounds the scrape step, the only blocking operation.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// Backend selects the webclient backend: "nethttp" or "chromedp".
	Backend string `yaml:"backend"`

	// UserAgent is sent on nethttp fetches.
	UserAgent string `yaml:"user_agent"`

	// OpenAIModel is the model used for content assessment.
	OpenAIModel string `yaml:"openai_model"`

	// OpenAIBaseURL overrides the API endpoint (tests, proxies).
	OpenAIBaseURL string `yaml:"openai_base_url"`

	// ListenAddr is the serve command bind address.
	ListenAddr string `yaml:"listen_addr"`

	// HistoryPath locates the report history database. Empty means the
	// XDG data directory; "-" disables history entirely.
	HistoryPath string `yaml:"history_path"`

	// BatchSize bounds concurrent analyses in batch mode.
	BatchSize int `yaml:"batch_size"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		FetchTimeout: DefaultFetchTimeout,
		Backend:      DefaultBackend,
		UserAgent:    DefaultUserAgent,
		OpenAIModel:  DefaultOpenAIModel,
		ListenAddr:   DefaultListenAddr,
		BatchSize:    DefaultBatchSize,
	}
}

// Validate checks the configuration for impossible settings.
func (c *Config) Validate() error {
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive, got %s", c.FetchTimeout)
	}
	if c.Backend != "nethttp" && c.Backend != "chromedp" {
		return fmt.Errorf("unknown backend %q (want nethttp or chromedp)", c.Backend)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1, got %d", c.BatchSize)
	}
	return nil
}

// OpenAIKey reads the API key from the environment. Empty means no agent.
func (c *Config) OpenAIKey() string {
	return os.Getenv(OpenAIKeyEnv)
}

// HistoryDBPath resolves the history database location. Returns "" when
// history is disabled.
func (c *Config) HistoryDBPath() string {
	if c.HistoryPath == "-" {
		return ""
	}
	if c.HistoryPath != "" {
		return c.HistoryPath
	}
	return filepath.Join(xdg.DataHome, AppName, "history.db")
}

// LoadFile loads a Config from a YAML file, applying defaults for fields
// the file omits. A missing file yields ErrConfigNotFound.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// FindConfigFile looks for the configuration file: an explicit path first,
// then the current directory, then the home directory. Empty string means
// not found.
func FindConfigFile(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
