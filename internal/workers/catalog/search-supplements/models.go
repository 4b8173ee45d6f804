// internal/workers/catalog/search-supplements/models.go
package searchsupplements

import "supplement-workers/internal/models"

type Input struct {
	Query    string `json:"query"`
	Category string `json:"category,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type Output struct {
	Supplements []models.Supplement `json:"supplements"`
	Total       int64               `json:"total"`
	MaxScore    float64             `json:"maxScore"`
	Took        int64               `json:"took"` // milliseconds
}
