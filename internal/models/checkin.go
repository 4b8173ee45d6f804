// internal/models/checkin.go
package models

import "time"

type CheckIn struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	WeekStart        string    `json:"weekStart"` // YYYY-MM-DD, Monday
	EnergyLevel      int       `json:"energyLevel"`
	SleepQuality     int       `json:"sleepQuality"`
	StressLevel      int       `json:"stressLevel"`
	Mood             int       `json:"mood"`
	AdherencePercent int       `json:"adherencePercent"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}
