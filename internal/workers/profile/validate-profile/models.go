// internal/workers/profile/validate-profile/models.go
package validateprofile

import "supplement-workers/internal/models"

type Input struct {
	Profile *models.UserProfile `json:"profile"`
}

type Output struct {
	ProfileValid bool               `json:"profileValid"`
	Profile      models.UserProfile `json:"profile"`
	SavedAt      string             `json:"savedAt"`
}
