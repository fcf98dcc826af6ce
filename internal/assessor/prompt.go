package assessor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/raysh454/sitecheck/internal/model"
)

// Instructions is the static system prompt for the assessment agent. It is
// configuration data, not logic; keep behavioral changes out of code.
const Instructions = `You are a cybersecurity expert specializing in detecting phishing websites.

Analyze the provided website content and determine:
1. Suspicious elements that indicate phishing
2. Legitimate indicators
3. A risk score from 0 to 10 (10 is maximum phishing risk)
4. Your confidence in the analysis from 0 to 1

Pay attention to:
- Suspicious keywords (urgent, limited time, verify account, suspended)
- Forms collecting personal data (logins, passwords, card numbers)
- Design quality and spelling mistakes
- Suspicious URLs and domains
- Impersonation of well-known brands
- SSL certificates and security

Answer in JSON format with the fields:
- risk_score: float (0-10)
- confidence: float (0-1)
- suspicious_elements: list[str]
- legitimate_indicators: list[str]
- recommendation: str
- explanation: str
- brand_impersonation: str or null`

// summaryTextLimit bounds how much page text goes into the prompt.
const summaryTextLimit = 1000

// summaryFormLimit bounds how many forms are described in the prompt.
const summaryFormLimit = 3

// BuildContentSummary condenses a snapshot into the text block the agent
// analyzes: URL, title, meta description, a text preview, form field types
// and the link count.
func BuildContentSummary(content *model.SiteContent) string {
	if content == nil {
		return ""
	}

	var parts []string
	parts = append(parts, "URL: "+content.URL)

	if content.Title != "" {
		parts = append(parts, "Title: "+content.Title)
	}
	if content.MetaDescription != "" {
		parts = append(parts, "Meta Description: "+content.MetaDescription)
	}
	if content.TextContent != "" {
		preview := truncateOnRune(content.TextContent, summaryTextLimit)
		parts = append(parts, "Text Content Preview: "+preview)
	}

	if len(content.Forms) > 0 {
		var formsInfo []string
		for i, form := range content.Forms {
			if i == summaryFormLimit {
				break
			}
			types := make([]string, 0, len(form.Fields))
			for _, field := range form.Fields {
				types = append(types, field.Type)
			}
			formsInfo = append(formsInfo, "Form with fields: "+strings.Join(types, ", "))
		}
		parts = append(parts, "Forms: "+strings.Join(formsInfo, "; "))
	}

	if len(content.Links) > 0 {
		parts = append(parts, fmt.Sprintf("Links count: %d", len(content.Links)))
	}

	return strings.Join(parts, "\n")
}

// truncateOnRune cuts s to at most limit bytes without splitting a rune.
func truncateOnRune(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

// BuildPrompt is the full user prompt for one analysis request.
func BuildPrompt(content *model.SiteContent) string {
	return "Analyze this website for phishing:\n\n" + BuildContentSummary(content)
}
