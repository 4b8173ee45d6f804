// internal/workers/recommendation/persist-recommendations/models.go
package persistrecommendations

import "supplement-workers/internal/models"

type Input struct {
	UserID          string                  `json:"userId"`
	Recommendations []models.Recommendation `json:"recommendations"`
}

type Output struct {
	PersistedCount    int      `json:"persistedCount"`
	RecommendationIDs []string `json:"recommendationIds"`
	PersistedAt       string   `json:"persistedAt"`
}
