package server

import (
	"github.com/raysh454/sitecheck/internal/analyzer"
	"github.com/raysh454/sitecheck/internal/config"
	"github.com/raysh454/sitecheck/internal/logging"
)

// Config configures the API server.
type Config struct {
	// ListenAddr is the HTTP listen address, e.g. ":8343".
	ListenAddr string

	// AppConfig configures the analyzer built by NewServer when Analyzer
	// is nil.
	AppConfig *config.Config

	// Analyzer overrides the analyzer built from AppConfig. Mainly for
	// tests.
	Analyzer *analyzer.Analyzer

	Logger logging.Logger
}
