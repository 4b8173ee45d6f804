// internal/workers/catalog/import-catalog/config.go
package importcatalog

import (
	"time"

	"supplement-workers/internal/common/config"
)

type Config struct {
	Timeout     time.Duration
	DatasetPath string
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout:     config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
		DatasetPath: cfg.Catalog.DatasetPath,
	}
}
