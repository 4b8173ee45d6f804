// internal/models/profile.go
package models

// UserProfile is the scoring input collected at onboarding.
// Lifestyle answers use a 1-5 scale; 0 means the question was not answered.
// Weight (kg) and Age (years) are 0 when unknown.
type UserProfile struct {
	UserID            string   `json:"userId"`
	Symptoms          []string `json:"symptoms,omitempty"`
	HealthGoals       []string `json:"healthGoals,omitempty"`
	SleepQuality      int      `json:"sleepQuality"`
	StressLevel       int      `json:"stressLevel"`
	ExerciseFrequency int      `json:"exerciseFrequency"`
	Weight            float64  `json:"weight,omitempty"`
	Age               int      `json:"age,omitempty"`
	Email             string   `json:"email,omitempty"`
	Phone             string   `json:"phone,omitempty"`
}
