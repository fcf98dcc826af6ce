package assessor

import (
	"encoding/json"
	"strings"

	"github.com/raysh454/sitecheck/internal/model"
)

// Keyword sets for the text fallback when the agent answer is not
// structured. Checked against the lower-cased raw response.
var (
	highRiskIndicators = []string{"high risk", "phishing", "suspicious", "fake", "scam"}
	lowRiskIndicators  = []string{"legitimate", "safe", "low risk", "trusted"}
)

// rawAssessment mirrors the JSON object the agent is instructed to return.
// Pointer fields distinguish "absent" from zero so defaults apply per field.
type rawAssessment struct {
	RiskScore            *float64 `json:"risk_score"`
	Confidence           *float64 `json:"confidence"`
	SuspiciousElements   []string `json:"suspicious_elements"`
	LegitimateIndicators []string `json:"legitimate_indicators"`
	Recommendation       *string  `json:"recommendation"`
	Explanation          *string  `json:"explanation"`
	BrandImpersonation   *string  `json:"brand_impersonation"`
}

// ParseResponse extracts a usable assessment from the agent's raw answer.
// It tries the substring between the first "{" and the last "}" as JSON and
// falls back to keyword scanning when that fails. It never fails: every
// string input, including the empty string, yields a complete assessment.
func ParseResponse(raw string) model.Assessment {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end > start {
		var decoded rawAssessment
		if err := json.Unmarshal([]byte(raw[start:end+1]), &decoded); err == nil {
			return assessmentFromRaw(&decoded)
		}
	}
	return assessmentFromText(raw)
}

// assessmentFromRaw fills documented defaults for absent fields and clamps
// numeric ranges.
func assessmentFromRaw(raw *rawAssessment) model.Assessment {
	a := model.Assessment{
		RiskScore:            5.0,
		Confidence:           0.5,
		SuspiciousElements:   []string{},
		LegitimateIndicators: []string{},
		Recommendation:       "Requires manual review",
		Explanation:          "Automated analysis completed",
		BrandImpersonation:   raw.BrandImpersonation,
	}

	if raw.RiskScore != nil {
		a.RiskScore = clamp(*raw.RiskScore, 0, 10)
	}
	if raw.Confidence != nil {
		a.Confidence = clamp(*raw.Confidence, 0, 1)
	}
	if raw.SuspiciousElements != nil {
		a.SuspiciousElements = raw.SuspiciousElements
	}
	if raw.LegitimateIndicators != nil {
		a.LegitimateIndicators = raw.LegitimateIndicators
	}
	if raw.Recommendation != nil {
		a.Recommendation = *raw.Recommendation
	}
	if raw.Explanation != nil {
		a.Explanation = *raw.Explanation
	}
	return a
}

// assessmentFromText is the keyword-scan fallback for free-text answers.
func assessmentFromText(raw string) model.Assessment {
	responseLower := strings.ToLower(raw)

	riskScore := 5.0
	if containsAny(responseLower, highRiskIndicators) {
		riskScore = 8.0
	} else if containsAny(responseLower, lowRiskIndicators) {
		riskScore = 2.0
	}

	return model.Assessment{
		RiskScore:            riskScore,
		Confidence:           0.6,
		SuspiciousElements:   []string{"AI analysis inconclusive"},
		LegitimateIndicators: []string{},
		Recommendation:       "Manual review recommended",
		Explanation:          "AI response could not be parsed properly",
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
