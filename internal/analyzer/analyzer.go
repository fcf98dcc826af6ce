// Package analyzer orchestrates one analysis: fetch, classify, assess,
// assemble. Analyze is total from the caller's perspective: every failure
// below the CLI boundary degrades to a well-formed report.
package analyzer

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raysh454/sitecheck/internal/agent"
	"github.com/raysh454/sitecheck/internal/assessor"
	"github.com/raysh454/sitecheck/internal/config"
	"github.com/raysh454/sitecheck/internal/history"
	"github.com/raysh454/sitecheck/internal/logging"
	"github.com/raysh454/sitecheck/internal/model"
	"github.com/raysh454/sitecheck/internal/scraper"
	"github.com/raysh454/sitecheck/internal/webclient"
)

// Analyzer runs phishing triage for URLs. Construct with New for the full
// wiring or NewWithCollaborators to inject doubles.
type Analyzer struct {
	scraper   scraper.Scraper
	agent     agent.Agent // nil means rule-based scoring only
	store     *history.Store
	batchSize int
	logger    logging.Logger
}

// New wires an Analyzer from configuration: scraper on the configured
// backend, OpenAI agent when a key is present, history store unless
// disabled.
func New(cfg *config.Config, logger logging.Logger) (*Analyzer, error) {
	logger = logging.OrNop(logger)

	sc, err := scraper.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("creating scraper: %w", err)
	}

	var ag agent.Agent
	if key := cfg.OpenAIKey(); key != "" {
		// The agent always talks plain HTTP, independent of the page backend.
		apiClient, err := webclient.NewNetHTTPClient(cfg, logger, nil)
		if err != nil {
			sc.Close()
			return nil, fmt.Errorf("creating agent transport: %w", err)
		}
		ag, err = agent.NewOpenAIAgent(apiClient, key, cfg.OpenAIModel, cfg.OpenAIBaseURL, assessor.Instructions, logger)
		if err != nil {
			sc.Close()
			return nil, fmt.Errorf("creating agent: %w", err)
		}
	} else {
		logger.Warn("no API key set; analysis will use rule-based scoring only",
			logging.Field{Key: "env", Value: config.OpenAIKeyEnv})
	}

	var store *history.Store
	if path := cfg.HistoryDBPath(); path != "" {
		store, err = history.Open(path, logger)
		if err != nil {
			// History is optional context, not a precondition for triage.
			logger.Warn("history store unavailable", logging.Field{Key: "error", Value: err.Error()})
			store = nil
		}
	}

	return &Analyzer{
		scraper:   sc,
		agent:     ag,
		store:     store,
		batchSize: cfg.BatchSize,
		logger:    logger.With(logging.Field{Key: "component", Value: "analyzer"}),
	}, nil
}

// NewWithCollaborators builds an Analyzer from explicit collaborators.
// agent and store may be nil.
func NewWithCollaborators(sc scraper.Scraper, ag agent.Agent, store *history.Store, logger logging.Logger) *Analyzer {
	return &Analyzer{
		scraper:   sc,
		agent:     ag,
		store:     store,
		batchSize: config.DefaultBatchSize,
		logger:    logging.OrNop(logger).With(logging.Field{Key: "component", Value: "analyzer"}),
	}
}

// Store returns the history store, or nil when history is disabled.
func (a *Analyzer) Store() *history.Store {
	return a.store
}

// Analyze runs the full triage for one URL. It never returns an error and
// never panics: fetch failures, agent failures and internal panics all
// degrade to a valid report with a populated errors list.
func (a *Analyzer) Analyze(ctx context.Context, url string) (report *model.Report) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("analysis panic", logging.Field{Key: "url", Value: url}, logging.Field{Key: "panic", Value: fmt.Sprint(r)})
			report = a.errorReport(url, fmt.Sprintf("internal error: %v", r), start)
		}
	}()

	a.logger.Info("analyzing", logging.Field{Key: "url", Value: url})

	content, err := a.scraper.Scrape(ctx, url)
	if err != nil {
		a.logger.Warn("fetch failed",
			logging.Field{Key: "url", Value: url},
			logging.Field{Key: "error", Value: err.Error()})
		return a.errorReport(url, err.Error(), start)
	}

	flags := assessor.Classify(content)
	assessment := a.assess(ctx, content)

	report = &model.Report{
		SiteContent: content,
		AnalysisResult: model.AnalysisResult{
			URL:                  content.URL,
			RiskScore:            assessment.RiskScore,
			Confidence:           assessment.Confidence,
			AnalysisTimestamp:    time.Now().UTC(),
			SecurityFlags:        flags,
			SuspiciousElements:   assessment.SuspiciousElements,
			LegitimateIndicators: assessment.LegitimateIndicators,
			Recommendation:       assessment.Recommendation,
			Explanation:          assessment.Explanation,
			BrandImpersonation:   assessment.BrandImpersonation,
		},
		ProcessingTime: time.Since(start).Seconds(),
	}

	a.persist(ctx, report)
	return report
}

// assess asks the agent and parses its answer; any agent failure falls back
// to the rule-based scorer.
func (a *Analyzer) assess(ctx context.Context, content *model.SiteContent) model.Assessment {
	if a.agent == nil {
		return assessor.ScoreHeuristically(content)
	}

	raw, err := a.agent.Assess(ctx, assessor.BuildPrompt(content))
	if err != nil {
		a.logger.Warn("agent unavailable, falling back to rule-based scoring",
			logging.Field{Key: "url", Value: content.URL},
			logging.Field{Key: "error", Value: err.Error()})
		return assessor.ScoreHeuristically(content)
	}
	return assessor.ParseResponse(raw)
}

// persist saves the report to history and logs whether the page content
// changed since the previous scan of the same URL. Failures become report
// error entries, never analysis failures.
func (a *Analyzer) persist(ctx context.Context, report *model.Report) {
	if a.store == nil {
		return
	}

	if prev, err := a.store.LastForURL(ctx, report.AnalysisResult.URL); err == nil {
		chunks := history.DiffContent(prev.TextContent, report.SiteContent.TextContent)
		if history.Changed(chunks) {
			a.logger.Info("page content changed since last scan",
				logging.Field{Key: "url", Value: report.AnalysisResult.URL},
				logging.Field{Key: "previous_scan", Value: prev.CreatedAt.Format(time.RFC3339)},
				logging.Field{Key: "chunks", Value: len(chunks)})
		}
	}

	if _, err := a.store.Save(ctx, report); err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("history save error: %v", err))
	}
}

// errorReport builds the degraded report for a failed analysis.
func (a *Analyzer) errorReport(url, message string, start time.Time) *model.Report {
	report := &model.Report{
		SiteContent: &model.SiteContent{
			URL:         url,
			TextContent: "Error: " + message,
		},
		AnalysisResult: model.AnalysisResult{
			URL:                  url,
			RiskScore:            5.0,
			Confidence:           0.1,
			AnalysisTimestamp:    time.Now().UTC(),
			SuspiciousElements:   []string{},
			LegitimateIndicators: []string{},
			Recommendation:       "Unable to analyze due to error",
			Explanation:          "Analysis failed: " + message,
		},
		ProcessingTime: time.Since(start).Seconds(),
		Errors:         []string{"Analysis error: " + message},
	}
	return report
}

// AnalyzeAll triages each URL independently with bounded concurrency.
// Results keep the input order. Individual failures surface only inside
// the corresponding report.
func (a *Analyzer) AnalyzeAll(ctx context.Context, urls []string) []*model.Report {
	reports := make([]*model.Report, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.batchSize)
	for i, url := range urls {
		g.Go(func() error {
			reports[i] = a.Analyze(gctx, url)
			return nil
		})
	}
	_ = g.Wait() // Analyze never errors

	return reports
}

// Close releases the scraper session and the history store.
func (a *Analyzer) Close() error {
	var firstErr error
	if a.scraper != nil {
		firstErr = a.scraper.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
