// internal/common/camunda/job.go
package camunda

import (
	"context"

	"supplement-workers/internal/common/logger"
	"supplement-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// CompleteJob completes job with variables. Command failures are logged;
// the broker re-activates the job once its timeout expires.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, variables interface{}, log logger.Logger) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(variables)
	if err != nil {
		log.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		log.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(job.Type).Inc()
	log.Info("job completed", map[string]interface{}{"jobKey": job.Key})
}
