// internal/workers/recommendation/rank-protocols/config.go
package rankprotocols

import (
	"time"

	"supplement-workers/internal/common/config"
)

type Config struct {
	Timeout      time.Duration
	DefaultLimit int
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout:      config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
		DefaultLimit: 5,
	}
}
