package assessor_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/raysh454/sitecheck/internal/assessor"
	"github.com/raysh454/sitecheck/internal/model"
)

func TestScoreHeuristicallyEmptyHTTPS(t *testing.T) {
	t.Parallel()

	a := assessor.ScoreHeuristically(&model.SiteContent{URL: "https://example.com"})
	if a.RiskScore != 0.0 {
		t.Errorf("RiskScore = %v, want 0.0", a.RiskScore)
	}
	if a.Recommendation != "Low risk" {
		t.Errorf("Recommendation = %q, want Low risk", a.Recommendation)
	}
	if a.Confidence != 0.7 {
		t.Errorf("Confidence = %v, want 0.7", a.Confidence)
	}
	if !slices.Contains(a.LegitimateIndicators, "HTTPS encryption present") {
		t.Errorf("LegitimateIndicators = %v", a.LegitimateIndicators)
	}
	if len(a.SuspiciousElements) != 0 {
		t.Errorf("SuspiciousElements = %v, want empty", a.SuspiciousElements)
	}
	if a.Explanation != "Rule-based analysis found 0 risk factors" {
		t.Errorf("Explanation = %q", a.Explanation)
	}
	if a.BrandImpersonation != nil {
		t.Error("BrandImpersonation should be nil on the rule-based path")
	}
}

func TestScoreHeuristicallyNoHTTPS(t *testing.T) {
	t.Parallel()

	a := assessor.ScoreHeuristically(&model.SiteContent{URL: "http://example.com"})
	// No HTTPS contributes two risk factors.
	if a.RiskScore != 3.0 {
		t.Errorf("RiskScore = %v, want 3.0", a.RiskScore)
	}
	if !slices.Contains(a.SuspiciousElements, "No HTTPS encryption") {
		t.Errorf("SuspiciousElements = %v", a.SuspiciousElements)
	}
	if a.Recommendation != "Medium risk" {
		t.Errorf("Recommendation = %q", a.Recommendation)
	}
}

func TestScoreHeuristicallyKeywordScenario(t *testing.T) {
	t.Parallel()

	a := assessor.ScoreHeuristically(&model.SiteContent{
		URL:         "https://example.com",
		TextContent: "Please verify your account, it will be suspended",
	})

	if !slices.Contains(a.SuspiciousElements, "Suspicious keyword: verify") ||
		!slices.Contains(a.SuspiciousElements, "Suspicious keyword: suspended") {
		t.Errorf("SuspiciousElements = %v", a.SuspiciousElements)
	}
	if !slices.Contains(a.LegitimateIndicators, "HTTPS encryption present") {
		t.Errorf("LegitimateIndicators = %v", a.LegitimateIndicators)
	}
	if a.RiskScore != 3.0 {
		t.Errorf("RiskScore = %v, want 3.0", a.RiskScore)
	}
	if a.Recommendation != "Medium risk" {
		t.Errorf("Recommendation = %q, want Medium risk", a.Recommendation)
	}
	if a.Explanation != "Rule-based analysis found 2 risk factors" {
		t.Errorf("Explanation = %q", a.Explanation)
	}
}

func TestScoreHeuristicallyKeywordCountedOncePerWord(t *testing.T) {
	t.Parallel()

	a := assessor.ScoreHeuristically(&model.SiteContent{
		URL:         "https://example.com",
		TextContent: "verify verify verify",
	})

	count := 0
	for _, el := range a.SuspiciousElements {
		if el == "Suspicious keyword: verify" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("keyword listed %d times, want once", count)
	}
	if a.RiskScore != 1.5 {
		t.Errorf("RiskScore = %v, want 1.5", a.RiskScore)
	}
}

func TestScoreHeuristicallyPasswordForm(t *testing.T) {
	t.Parallel()

	a := assessor.ScoreHeuristically(&model.SiteContent{
		URL: "https://example.com",
		Forms: []model.Form{
			{Fields: []model.FormField{{Type: "password"}}},
			{Fields: []model.FormField{{Type: "password"}}},
		},
	})

	// Password forms are one factor no matter how many forms carry one.
	if a.RiskScore != 1.5 {
		t.Errorf("RiskScore = %v, want 1.5", a.RiskScore)
	}
	if !slices.Contains(a.SuspiciousElements, "Password input forms detected") {
		t.Errorf("SuspiciousElements = %v", a.SuspiciousElements)
	}
}

func TestScoreHeuristicallyClampedAtTen(t *testing.T) {
	t.Parallel()

	a := assessor.ScoreHeuristically(&model.SiteContent{
		URL:         "http://example.com",
		TextContent: "urgent verify suspended expires",
		Forms:       []model.Form{{Fields: []model.FormField{{Type: "password"}}}},
	})

	// 2 + 4 + 1 = 7 factors; 10.5 clamps to 10.
	if a.RiskScore != 10.0 {
		t.Errorf("RiskScore = %v, want 10.0", a.RiskScore)
	}
	if a.Recommendation != "High risk" {
		t.Errorf("Recommendation = %q, want High risk", a.Recommendation)
	}
	if !strings.Contains(a.Explanation, "7 risk factors") {
		t.Errorf("Explanation = %q", a.Explanation)
	}
}

func TestScoreHeuristicallyNilContent(t *testing.T) {
	t.Parallel()

	a := assessor.ScoreHeuristically(nil)
	if a.RiskScore < 0 || a.RiskScore > 10 {
		t.Errorf("RiskScore out of range: %v", a.RiskScore)
	}
}
