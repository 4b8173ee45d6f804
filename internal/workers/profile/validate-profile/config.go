// internal/workers/profile/validate-profile/config.go
package validateprofile

import (
	"time"

	"supplement-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	wc := config.GetWorkerConfig(cfg, TaskType)
	return &Config{
		Timeout: config.GetDuration(wc.Timeout),
	}
}
