package analyzer_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raysh454/sitecheck/internal/analyzer"
	"github.com/raysh454/sitecheck/internal/history"
	"github.com/raysh454/sitecheck/internal/model"
	"github.com/raysh454/sitecheck/internal/testutil"
)

func phishingContent(url string) *model.SiteContent {
	return &model.SiteContent{
		URL:         url,
		Title:       "Account Verification",
		TextContent: "urgent verify your suspended account before it expires",
		Forms: []model.Form{
			{Action: "/login", Method: "post", Fields: []model.FormField{
				{Type: "email", Name: "email"},
				{Type: "password", Name: "password"},
			}},
		},
	}
}

func TestAnalyzeWithAgent(t *testing.T) {
	t.Parallel()

	sc := &testutil.DummyScraper{Content: map[string]*model.SiteContent{
		"https://bad.example": phishingContent("https://bad.example"),
	}}
	ag := &testutil.DummyAgent{Answer: `{"risk_score": 9.2, "confidence": 0.85, "recommendation": "Block", "explanation": "Credential harvesting page"}`}
	a := analyzer.NewWithCollaborators(sc, ag, nil, nil)

	report := a.Analyze(context.Background(), "https://bad.example")

	if report == nil {
		t.Fatal("Analyze returned nil")
	}
	if got := report.AnalysisResult.RiskScore; got != 9.2 {
		t.Errorf("RiskScore = %v, want 9.2", got)
	}
	if got := report.AnalysisResult.Recommendation; got != "Block" {
		t.Errorf("Recommendation = %q, want %q", got, "Block")
	}
	if !report.AnalysisResult.SecurityFlags.HasHTTPS {
		t.Error("HasHTTPS = false, want true")
	}
	if !report.AnalysisResult.SecurityFlags.HasLoginForms {
		t.Error("HasLoginForms = false, want true")
	}
	if len(report.Errors) != 0 {
		t.Errorf("Errors = %v, want empty", report.Errors)
	}
	if len(ag.Prompts) != 1 || !strings.Contains(ag.Prompts[0], "https://bad.example") {
		t.Errorf("agent prompts = %v, want one prompt mentioning the URL", ag.Prompts)
	}
}

func TestAnalyzeFallsBackWhenAgentFails(t *testing.T) {
	t.Parallel()

	url := "http://bad.example"
	content := phishingContent(url)
	sc := &testutil.DummyScraper{Content: map[string]*model.SiteContent{url: content}}
	ag := &testutil.DummyAgent{Err: errors.New("rate limited")}
	a := analyzer.NewWithCollaborators(sc, ag, nil, nil)

	report := a.Analyze(context.Background(), url)

	// no https +2, four keywords +4, password form +1 => 7 * 1.5 = 10.5 -> 10
	if got := report.AnalysisResult.RiskScore; got != 10.0 {
		t.Errorf("RiskScore = %v, want 10.0", got)
	}
	if got := report.AnalysisResult.Confidence; got != 0.7 {
		t.Errorf("Confidence = %v, want 0.7", got)
	}
	if len(report.Errors) != 0 {
		t.Errorf("Errors = %v, want empty on agent fallback", report.Errors)
	}
}

func TestAnalyzeWithoutAgent(t *testing.T) {
	t.Parallel()

	sc := &testutil.DummyScraper{}
	a := analyzer.NewWithCollaborators(sc, nil, nil, nil)

	report := a.Analyze(context.Background(), "https://clean.example")

	if got := report.AnalysisResult.RiskScore; got != 0.0 {
		t.Errorf("RiskScore = %v, want 0.0", got)
	}
	if got := report.AnalysisResult.Recommendation; got != "Low risk" {
		t.Errorf("Recommendation = %q, want %q", got, "Low risk")
	}
}

func TestAnalyzeFetchFailure(t *testing.T) {
	t.Parallel()

	sc := &testutil.DummyScraper{Err: errors.New("connection refused")}
	a := analyzer.NewWithCollaborators(sc, nil, nil, nil)

	report := a.Analyze(context.Background(), "https://down.example")

	if report == nil {
		t.Fatal("Analyze returned nil")
	}
	if got := report.AnalysisResult.RiskScore; got != 5.0 {
		t.Errorf("RiskScore = %v, want 5.0", got)
	}
	if got := report.AnalysisResult.Confidence; got != 0.1 {
		t.Errorf("Confidence = %v, want 0.1", got)
	}
	if got := report.AnalysisResult.Recommendation; got != "Unable to analyze due to error" {
		t.Errorf("Recommendation = %q", got)
	}
	if len(report.Errors) != 1 || !strings.Contains(report.Errors[0], "connection refused") {
		t.Errorf("Errors = %v, want one entry mentioning the cause", report.Errors)
	}
	if !strings.HasPrefix(report.SiteContent.TextContent, "Error: ") {
		t.Errorf("TextContent = %q, want Error: prefix", report.SiteContent.TextContent)
	}
}

func TestAnalyzeSavesHistory(t *testing.T) {
	t.Parallel()

	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	sc := &testutil.DummyScraper{Content: map[string]*model.SiteContent{
		"https://bad.example": phishingContent("https://bad.example"),
	}}
	a := analyzer.NewWithCollaborators(sc, nil, store, nil)

	report := a.Analyze(context.Background(), "https://bad.example")
	if len(report.Errors) != 0 {
		t.Fatalf("Errors = %v, want empty", report.Errors)
	}

	entries, err := store.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].URL != "https://bad.example" {
		t.Errorf("entry URL = %q", entries[0].URL)
	}
}

func TestAnalyzeAll(t *testing.T) {
	t.Parallel()

	urls := []string{"https://a.example", "https://b.example", "https://c.example"}
	sc := &testutil.DummyScraper{}
	a := analyzer.NewWithCollaborators(sc, nil, nil, nil)

	reports := a.AnalyzeAll(context.Background(), urls)

	if len(reports) != len(urls) {
		t.Fatalf("len(reports) = %d, want %d", len(reports), len(urls))
	}
	for i, r := range reports {
		if r == nil {
			t.Fatalf("reports[%d] is nil", i)
		}
		if r.AnalysisResult.URL != urls[i] {
			t.Errorf("reports[%d].URL = %q, want %q", i, r.AnalysisResult.URL, urls[i])
		}
	}
}

func TestCloseReleasesScraper(t *testing.T) {
	t.Parallel()

	sc := &testutil.DummyScraper{}
	a := analyzer.NewWithCollaborators(sc, nil, nil, nil)

	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !sc.Closed {
		t.Error("scraper not closed")
	}
}
