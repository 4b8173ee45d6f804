// internal/workers/recommendation/generate-recommendations/models.go
package generaterecommendations

import "supplement-workers/internal/models"

// Input carries either an inline profile or just the userId of a stored one.
type Input struct {
	UserID  string              `json:"userId"`
	Profile *models.UserProfile `json:"profile,omitempty"`
}

type Output struct {
	Recommendations     []models.Recommendation `json:"recommendations"`
	RecommendationCount int                     `json:"recommendationCount"`
	HighPriorityCount   int                     `json:"highPriorityCount"`
	GeneratedAt         string                  `json:"generatedAt"`
}
