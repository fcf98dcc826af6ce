// Package server exposes the analyzer over HTTP and WebSocket.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/raysh454/sitecheck/internal/analyzer"
	"github.com/raysh454/sitecheck/internal/config"
	"github.com/raysh454/sitecheck/internal/history"
	"github.com/raysh454/sitecheck/internal/logging"
	"github.com/raysh454/sitecheck/internal/model"
	"github.com/raysh454/sitecheck/internal/urlx"
)

const defaultListLimit = 50

// Server is the HTTP + WebSocket API surface.
type Server struct {
	cfg      Config
	analyzer *analyzer.Analyzer
	router   chi.Router
	upgrader websocket.Upgrader
	logger   logging.Logger
}

// NewServer creates a Server, building an analyzer from cfg.AppConfig when
// none is injected.
func NewServer(cfg Config) (*Server, error) {
	if cfg.AppConfig == nil {
		cfg.AppConfig = config.Default()
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = cfg.AppConfig.ListenAddr
	}

	logger := logging.OrNop(cfg.Logger).With(logging.Field{Key: "component", Value: "server"})

	a := cfg.Analyzer
	if a == nil {
		var err error
		a, err = analyzer.New(cfg.AppConfig, cfg.Logger)
		if err != nil {
			return nil, fmt.Errorf("creating analyzer: %w", err)
		}
	}

	s := &Server{
		cfg:      cfg,
		analyzer: a,
		router:   chi.NewRouter(),
		logger:   logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: tighten for production
				return true
			},
		},
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	r.Options("/api/analyze", s.optionsHandler("POST"))
	r.Options("/api/reports", s.optionsHandler("GET"))
	r.Options("/api/reports/{id}", s.optionsHandler("GET"))

	r.Get("/healthz", s.handleHealth)

	r.Post("/api/analyze", s.handleAnalyze)
	r.Get("/api/reports", s.handleListReports)
	r.Get("/api/reports/{id}", s.handleGetReport)

	r.Get("/ws/analyze", s.handleAnalyzeWS)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler with request logging.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}

	if r.Body != nil && r.Method == http.MethodPost {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, logging.Field{Key: "body", Value: string(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close releases the analyzer and its resources.
func (s *Server) Close() {
	if s.analyzer != nil {
		_ = s.analyzer.Close()
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // analyses can outlive any fixed write deadline
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// --- HTTP handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL  string   `json:"url"`
		URLs []string `json:"urls"`

		// TimeoutSeconds optionally tightens the fetch deadline below the
		// configured one.
		TimeoutSeconds float64 `json:"timeout"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	ctx := r.Context()
	if body.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(body.TimeoutSeconds*float64(time.Second)))
		defer cancel()
	}

	switch {
	case len(body.URLs) > 0:
		urls := make([]string, 0, len(body.URLs))
		for _, raw := range body.URLs {
			url, err := urlx.Normalize(raw, urlx.Options{DefaultScheme: "https"})
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid url %q: %v", raw, err))
				return
			}
			urls = append(urls, url)
		}
		reports := s.analyzer.AnalyzeAll(ctx, urls)
		s.logger.Info("analyzed batch", logging.Field{Key: "count", Value: len(reports)})
		writeJSON(w, http.StatusOK, reports)

	case body.URL != "":
		url, err := urlx.Normalize(body.URL, urlx.Options{DefaultScheme: "https"})
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid url %q: %v", body.URL, err))
			return
		}
		report := s.analyzer.Analyze(ctx, url)
		s.logger.Info("analyzed", logging.Field{Key: "url", Value: url}, logging.Field{Key: "risk_score", Value: report.AnalysisResult.RiskScore})
		writeJSON(w, http.StatusOK, report)

	default:
		writeError(w, http.StatusBadRequest, "missing url")
	}
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	store := s.analyzer.Store()
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "history disabled")
		return
	}

	limit := defaultListLimit
	if ls := r.URL.Query().Get("limit"); ls != "" {
		if v, err := strconv.Atoi(ls); err == nil && v > 0 {
			limit = v
		}
	}

	entries, err := store.List(r.Context(), limit)
	if err != nil {
		s.logger.Warn("listing reports", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	summaries := make([]reportSummary, 0, len(entries))
	for _, e := range entries {
		summaries = append(summaries, reportSummary{
			ID:             e.ID,
			URL:            e.URL,
			RiskScore:      e.RiskScore,
			Confidence:     e.Confidence,
			Recommendation: e.Recommendation,
			CreatedAt:      e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	store := s.analyzer.Store()
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "history disabled")
		return
	}

	id := chi.URLParam(r, "id")
	entry, err := store.Get(r.Context(), id)
	if errors.Is(err, history.ErrNotFound) {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		s.logger.Warn("getting report", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entry.Report)
}

// --- WebSocket ---

// analyzeEvent is one progress message on /ws/analyze.
type analyzeEvent struct {
	Stage  string        `json:"stage"`
	URL    string        `json:"url"`
	Report *model.Report `json:"report,omitempty"`
	Error  string        `json:"error,omitempty"`
}

func (s *Server) handleAnalyzeWS(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "missing url query parameter")
		return
	}

	url, err := urlx.Normalize(raw, urlx.Options{DefaultScheme: "https"})
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid url %q: %v", raw, err))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	_ = conn.WriteJSON(analyzeEvent{Stage: "started", URL: url})

	report := s.analyzer.Analyze(r.Context(), url)

	ev := analyzeEvent{Stage: "completed", URL: url, Report: report}
	if len(report.Errors) > 0 {
		ev.Error = report.Errors[0]
	}
	if err := conn.WriteJSON(ev); err != nil {
		s.logger.Warn("writing websocket event", logging.Field{Key: "error", Value: err.Error()})
	}
}
