// internal/models/recommendation.go
package models

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// RecommendationCandidate is a single-rule suggestion produced before aggregation.
type RecommendationCandidate struct {
	Supplement *Supplement
	Reason     string
	Weight     float64
}

type Recommendation struct {
	SupplementID      string   `json:"supplementId"`
	SupplementName    string   `json:"supplementName"`
	RecommendedDosage float64  `json:"recommendedDosage"`
	DosageUnit        string   `json:"dosageUnit,omitempty"`
	Timing            Timing   `json:"timing,omitempty"`
	Confidence        int      `json:"confidence"`
	Reasoning         string   `json:"reasoning"`
	Priority          Priority `json:"priority"`
}
