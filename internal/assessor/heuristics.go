package assessor

import (
	"fmt"
	"strings"

	"github.com/raysh454/sitecheck/internal/model"
)

// scoredKeywords are the words the rule-based scorer counts. Each distinct
// word found adds one risk factor regardless of how often it occurs.
var scoredKeywords = []string{"urgent", "verify", "suspended", "expires"}

// riskFactorWeight converts accumulated risk factors into the 0-10 score.
const riskFactorWeight = 1.5

// heuristicConfidence is the fixed confidence of the rule-based path.
const heuristicConfidence = 0.7

// ScoreHeuristically is the fallback scorer used when the agent is
// unavailable or its answer cannot be used. It is deterministic and total:
// any SiteContent produces a well-formed assessment.
func ScoreHeuristically(content *model.SiteContent) model.Assessment {
	riskFactors := 0
	suspicious := []string{}
	legitimate := []string{}

	url := ""
	textLower := ""
	var forms []model.Form
	if content != nil {
		url = content.URL
		textLower = strings.ToLower(content.TextContent)
		forms = content.Forms
	}

	if !strings.HasPrefix(url, "https://") {
		riskFactors += 2
		suspicious = append(suspicious, "No HTTPS encryption")
	} else {
		legitimate = append(legitimate, "HTTPS encryption present")
	}

	for _, word := range scoredKeywords {
		if strings.Contains(textLower, word) {
			riskFactors++
			suspicious = append(suspicious, "Suspicious keyword: "+word)
		}
	}

	for i := range forms {
		if forms[i].HasFieldType("password") {
			riskFactors++
			suspicious = append(suspicious, "Password input forms detected")
			break
		}
	}

	riskScore := min(float64(riskFactors)*riskFactorWeight, 10.0)

	return model.Assessment{
		RiskScore:            riskScore,
		Confidence:           heuristicConfidence,
		SuspiciousElements:   suspicious,
		LegitimateIndicators: legitimate,
		Recommendation:       recommendationFor(riskScore),
		Explanation:          fmt.Sprintf("Rule-based analysis found %d risk factors", riskFactors),
	}
}

// recommendationFor maps a risk score to the user-facing recommendation.
func recommendationFor(riskScore float64) string {
	switch {
	case riskScore < 3:
		return "Low risk"
	case riskScore < 7:
		return "Medium risk"
	default:
		return "High risk"
	}
}
