// internal/workers/tracking/record-checkin/models.go
package recordcheckin

type Input struct {
	UserID           string `json:"userId"`
	WeekStart        string `json:"weekStart"`
	EnergyLevel      int    `json:"energyLevel"`
	SleepQuality     int    `json:"sleepQuality"`
	StressLevel      int    `json:"stressLevel"`
	Mood             int    `json:"mood"`
	AdherencePercent int    `json:"adherencePercent"`
	Notes            string `json:"notes,omitempty"`
}

// Deltas are current minus previous week values.
type Deltas struct {
	EnergyLevel      int `json:"energyLevel"`
	SleepQuality     int `json:"sleepQuality"`
	StressLevel      int `json:"stressLevel"`
	Mood             int `json:"mood"`
	AdherencePercent int `json:"adherencePercent"`
}

type Output struct {
	CheckInID         string  `json:"checkInId"`
	WeekStart         string  `json:"weekStart"`
	PreviousWeekStart string  `json:"previousWeekStart,omitempty"`
	Deltas            *Deltas `json:"deltas,omitempty"`
	Trend             string  `json:"trend"` // "improving", "stable", "worsening", "first"
}
