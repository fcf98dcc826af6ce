package server

import "time"

// reportSummary is one row of GET /api/reports. The full report stays
// behind GET /api/reports/{id}.
type reportSummary struct {
	ID             string    `json:"id"`
	URL            string    `json:"url"`
	RiskScore      float64   `json:"risk_score"`
	Confidence     float64   `json:"confidence"`
	Recommendation string    `json:"recommendation"`
	CreatedAt      time.Time `json:"created_at"`
}
