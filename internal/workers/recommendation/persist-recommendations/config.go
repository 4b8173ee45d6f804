// internal/workers/recommendation/persist-recommendations/config.go
package persistrecommendations

import (
	"time"

	"supplement-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout: config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
	}
}
