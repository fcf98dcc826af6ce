// Package assessor contains the reproducible core of sitecheck: the
// security-flag classifier, the rule-based risk scorer, and the agent
// response parser. Everything here is pure computation over an immutable
// SiteContent snapshot; no function in this package performs I/O or fails
// on well-formed input.
package assessor

import (
	"strings"

	"github.com/raysh454/sitecheck/internal/model"
)

// suspiciousKeywords trigger the has_suspicious_keywords flag. Matching is
// case-insensitive substring over the page's plain text.
var suspiciousKeywords = []string{
	"urgent", "verify", "suspended", "limited time", "act now",
	"confirm", "update", "security alert", "locked", "expires",
}

// paymentFieldTypes are the generic field types counted by the payment-form
// heuristic.
var paymentFieldTypes = map[string]struct{}{
	"email": {}, "text": {}, "password": {}, "tel": {},
}

// paymentFieldThreshold: a single form with more than this many generic
// fields counts as a payment form. This is a crude proxy, not a real
// payment detector; it over-fires on any form with 3+ generic fields.
// The threshold is kept as-is for compatibility with existing reports.
const paymentFieldThreshold = 2

// Classify derives SecurityFlags from page content. Pure function; empty
// text and no forms yield all-false flags.
func Classify(content *model.SiteContent) model.SecurityFlags {
	if content == nil {
		return model.SecurityFlags{}
	}

	hasHTTPS := strings.HasPrefix(content.URL, "https://")

	textLower := strings.ToLower(content.TextContent)
	hasSuspicious := false
	for _, kw := range suspiciousKeywords {
		if strings.Contains(textLower, kw) {
			hasSuspicious = true
			break
		}
	}

	hasLoginForms := false
	hasPaymentForms := false
	for i := range content.Forms {
		form := &content.Forms[i]
		if form.HasFieldType("password") {
			hasLoginForms = true
		}
		if countPaymentFields(form) > paymentFieldThreshold {
			hasPaymentForms = true
		}
	}

	return model.SecurityFlags{
		HasHTTPS: hasHTTPS,
		// No certificate inspection is performed; HTTPS presence stands in
		// for validity.
		HasValidCertificate:   hasHTTPS,
		HasSuspiciousKeywords: hasSuspicious,
		HasLoginForms:         hasLoginForms,
		HasPaymentForms:       hasPaymentForms,
		IsBlacklisted:         false, // no blacklist source wired in
	}
}

func countPaymentFields(form *model.Form) int {
	n := 0
	for _, f := range form.Fields {
		if _, ok := paymentFieldTypes[f.Type]; ok {
			n++
		}
	}
	return n
}
