// internal/workers/recommendation/rank-protocols/models.go
package rankprotocols

import "supplement-workers/internal/models"

type Input struct {
	UserID  string              `json:"userId"`
	Profile *models.UserProfile `json:"profile,omitempty"`
	Limit   int                 `json:"limit,omitempty"`
}

type Output struct {
	ProtocolScores []models.ProtocolScore `json:"protocolScores"`
	TopProtocolID  string                 `json:"topProtocolId"`
}
