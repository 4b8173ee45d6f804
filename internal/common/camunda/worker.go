// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"supplement-workers/internal/common/config"
	"supplement-workers/internal/common/logger"
	"supplement-workers/internal/common/metrics"
	"supplement-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.opentelemetry.io/otel/attribute"
)

// JobHandlerFunc is the signature every worker's Handle method satisfies.
type JobHandlerFunc func(client worker.JobClient, job entities.Job)

// Manager opens one Zeebe job worker per enabled task type.
type Manager struct {
	client  zbc.Client
	obs     *observability.Observability
	logger  logger.Logger
	workers map[string]worker.JobWorker
}

func NewManager(client zbc.Client, obs *observability.Observability, log logger.Logger) *Manager {
	return &Manager{
		client:  client,
		obs:     obs,
		logger:  log,
		workers: make(map[string]worker.JobWorker),
	}
}

// Start opens a worker for taskType unless it is disabled in config.
func (m *Manager) Start(taskType string, wcfg config.WorkerConfig, handle JobHandlerFunc) {
	if !wcfg.Enabled {
		m.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return
	}

	m.workers[taskType] = m.client.NewJobWorker().
		JobType(taskType).
		Handler(m.instrument(taskType, handle)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	m.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
}

// Running returns the task types with an open worker.
func (m *Manager) Running() []string {
	types := make([]string, 0, len(m.workers))
	for t := range m.workers {
		types = append(types, t)
	}
	return types
}

// Close stops every worker and waits for in-flight jobs.
func (m *Manager) Close() {
	for taskType, w := range m.workers {
		w.Close()
		w.AwaitClose()
		m.logger.Info("worker stopped", map[string]interface{}{"taskType": taskType})
	}
}

func (m *Manager) instrument(taskType string, handle JobHandlerFunc) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		_, span := m.obs.StartSpan(context.Background(), taskType,
			attribute.Int64("job.key", job.Key),
			attribute.Int64("process.instance.key", job.ProcessInstanceKey),
		)
		defer span.End()

		active := metrics.WorkerJobsActive.WithLabelValues(taskType)
		active.Inc()
		defer active.Dec()

		start := time.Now()
		handle(client, job)
		elapsed := time.Since(start)

		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
		m.obs.RecordJobDuration(context.Background(), taskType, elapsed, "handled")
		m.obs.RecordJobProcessed(context.Background(), taskType, "handled")
	}
}
