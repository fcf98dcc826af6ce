package model

import "time"

// SecurityFlags is the set of boolean signals derived mechanically from
// SiteContent. Derivation is pure; there is no hidden state behind a flag.
type SecurityFlags struct {
	HasHTTPS bool `json:"has_https"`

	// HasValidCertificate mirrors HasHTTPS. No cryptographic verification is
	// performed; see the classifier for the documented simplification.
	HasValidCertificate   bool `json:"has_valid_certificate"`
	HasSuspiciousKeywords bool `json:"has_suspicious_keywords"`
	HasLoginForms         bool `json:"has_login_forms"`
	HasPaymentForms       bool `json:"has_payment_forms"`
	IsBlacklisted         bool `json:"is_blacklisted"`

	// DomainAgeDays is nil: no WHOIS source is wired in.
	DomainAgeDays *int `json:"domain_age_days,omitempty"`
}

// Assessment is the risk/confidence/explanation bundle. It is produced
// either by the rule-based scorer or by parsing an agent response; the two
// paths yield structurally identical values.
type Assessment struct {
	RiskScore            float64  `json:"risk_score"`
	Confidence           float64  `json:"confidence"`
	SuspiciousElements   []string `json:"suspicious_elements"`
	LegitimateIndicators []string `json:"legitimate_indicators"`
	Recommendation       string   `json:"recommendation"`
	Explanation          string   `json:"explanation"`
	BrandImpersonation   *string  `json:"brand_impersonation,omitempty"`
}

// AnalysisResult combines flags and assessment for one URL.
// Invariant: RiskScore in [0,10], Confidence in [0,1].
type AnalysisResult struct {
	URL                  string        `json:"url"`
	RiskScore            float64       `json:"risk_score"`
	Confidence           float64       `json:"confidence"`
	AnalysisTimestamp    time.Time     `json:"analysis_timestamp"`
	SecurityFlags        SecurityFlags `json:"security_flags"`
	SuspiciousElements   []string      `json:"suspicious_elements"`
	LegitimateIndicators []string      `json:"legitimate_indicators"`
	Recommendation       string        `json:"recommendation"`
	Explanation          string        `json:"explanation"`
	BrandImpersonation   *string       `json:"brand_impersonation,omitempty"`
}

// Report is the final artifact of one analysis call. It is assembled once
// and read-only afterwards. Errors holds human-readable descriptions of
// every failure the analysis recovered from, in the order they occurred.
type Report struct {
	SiteContent    *SiteContent   `json:"site_content"`
	AnalysisResult AnalysisResult `json:"analysis_result"`

	// ProcessingTime is the wall-clock analysis duration in seconds (>= 0).
	ProcessingTime float64  `json:"processing_time"`
	Errors         []string `json:"errors,omitempty"`
}
