package assessor_test

import (
	"strings"
	"testing"

	"github.com/raysh454/sitecheck/internal/assessor"
)

func TestParseResponseEmbeddedJSON(t *testing.T) {
	t.Parallel()

	a := assessor.ParseResponse(`blah {"risk_score": 9.2, "confidence": 0.8} blah`)

	if a.RiskScore != 9.2 {
		t.Errorf("RiskScore = %v, want 9.2", a.RiskScore)
	}
	if a.Confidence != 0.8 {
		t.Errorf("Confidence = %v, want 0.8", a.Confidence)
	}
	// Absent fields take their documented defaults.
	if a.Recommendation != "Requires manual review" {
		t.Errorf("Recommendation = %q", a.Recommendation)
	}
	if a.Explanation != "Automated analysis completed" {
		t.Errorf("Explanation = %q", a.Explanation)
	}
	if len(a.SuspiciousElements) != 0 || len(a.LegitimateIndicators) != 0 {
		t.Errorf("lists should default to empty: %v / %v", a.SuspiciousElements, a.LegitimateIndicators)
	}
	if a.BrandImpersonation != nil {
		t.Errorf("BrandImpersonation = %v, want nil", *a.BrandImpersonation)
	}
}

func TestParseResponseFullJSON(t *testing.T) {
	t.Parallel()

	raw := `{"risk_score": 7.5, "confidence": 0.9,
		"suspicious_elements": ["login form on http"],
		"legitimate_indicators": ["real domain"],
		"recommendation": "Block", "explanation": "looks bad",
		"brand_impersonation": "ExampleBank"}`

	a := assessor.ParseResponse(raw)
	if a.RiskScore != 7.5 || a.Confidence != 0.9 {
		t.Errorf("score/confidence = %v/%v", a.RiskScore, a.Confidence)
	}
	if len(a.SuspiciousElements) != 1 || a.SuspiciousElements[0] != "login form on http" {
		t.Errorf("SuspiciousElements = %v", a.SuspiciousElements)
	}
	if a.Recommendation != "Block" || a.Explanation != "looks bad" {
		t.Errorf("recommendation/explanation = %q/%q", a.Recommendation, a.Explanation)
	}
	if a.BrandImpersonation == nil || *a.BrandImpersonation != "ExampleBank" {
		t.Errorf("BrandImpersonation = %v", a.BrandImpersonation)
	}
}

func TestParseResponseOutOfRangeValuesClamped(t *testing.T) {
	t.Parallel()

	a := assessor.ParseResponse(`{"risk_score": 42, "confidence": -3}`)
	if a.RiskScore != 10.0 {
		t.Errorf("RiskScore = %v, want clamp to 10", a.RiskScore)
	}
	if a.Confidence != 0.0 {
		t.Errorf("Confidence = %v, want clamp to 0", a.Confidence)
	}
}

func TestParseResponseTextFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		wantRisk float64
	}{
		{name: "legitimate answer", raw: "I believe this site is legitimate and safe.", wantRisk: 2.0},
		{name: "phishing answer", raw: "This is almost certainly phishing.", wantRisk: 8.0},
		{name: "neutral answer", raw: "I cannot tell.", wantRisk: 5.0},
		{name: "empty string", raw: "", wantRisk: 5.0},
		{name: "whitespace only", raw: "   \n\t ", wantRisk: 5.0},
		{name: "unbalanced braces", raw: "} nope {", wantRisk: 5.0},
		{name: "malformed json", raw: `{"risk_score": not-a-number}`, wantRisk: 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := assessor.ParseResponse(tt.raw)
			if a.RiskScore != tt.wantRisk {
				t.Errorf("RiskScore = %v, want %v", a.RiskScore, tt.wantRisk)
			}
			if a.Confidence != 0.6 {
				t.Errorf("Confidence = %v, want 0.6", a.Confidence)
			}
			if len(a.SuspiciousElements) != 1 || a.SuspiciousElements[0] != "AI analysis inconclusive" {
				t.Errorf("SuspiciousElements = %v", a.SuspiciousElements)
			}
			if a.Recommendation != "Manual review recommended" {
				t.Errorf("Recommendation = %q", a.Recommendation)
			}
			if a.Explanation != "AI response could not be parsed properly" {
				t.Errorf("Explanation = %q", a.Explanation)
			}
		})
	}
}

func TestParseResponseNeverInvalid(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"", "{}", "{", "}", "{{{}}}", strings.Repeat("{", 1000),
		`{"suspicious_elements": "not-a-list"}`,
		"some text { with a risk_score: 9 } trailing",
	}
	for _, in := range inputs {
		a := assessor.ParseResponse(in)
		if a.RiskScore < 0 || a.RiskScore > 10 {
			t.Errorf("ParseResponse(%q) risk out of range: %v", in, a.RiskScore)
		}
		if a.Confidence < 0 || a.Confidence > 1 {
			t.Errorf("ParseResponse(%q) confidence out of range: %v", in, a.Confidence)
		}
		if a.Recommendation == "" || a.Explanation == "" {
			t.Errorf("ParseResponse(%q) left empty fields", in)
		}
	}
}
