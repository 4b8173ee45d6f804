// internal/workers/notification/send-recommendation-summary/config.go
package sendrecommendationsummary

import (
	"time"

	"supplement-workers/internal/common/config"
	"supplement-workers/internal/scoring"
)

type Config struct {
	Timeout      time.Duration
	EmailEnabled bool
	SMSEnabled   bool
	Subject      string
	MaxItems     int
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout:      config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
		EmailEnabled: cfg.Notifications.Email.Enabled,
		SMSEnabled:   cfg.Notifications.SMS.Enabled,
		Subject:      "Suas recomendações de suplementos",
		MaxItems:     scoring.MaxRecommendations,
	}
}
