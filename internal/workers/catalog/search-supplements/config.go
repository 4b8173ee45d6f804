// internal/workers/catalog/search-supplements/config.go
package searchsupplements

import (
	"time"

	"supplement-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	Index   string
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout: config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
		Index:   cfg.Catalog.SearchIndex,
	}
}
