// internal/workers/recommendation/persist-recommendations/handler.go
package persistrecommendations

import (
	"context"
	"encoding/json"
	"time"

	"supplement-workers/internal/common/camunda"
	apperrors "supplement-workers/internal/common/errors"
	"supplement-workers/internal/common/logger"
	"supplement-workers/internal/common/validation"
	"supplement-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "persist-recommendations"
)

type RecommendationStore interface {
	Replace(ctx context.Context, userID string, recs []models.Recommendation) ([]string, error)
}

type Handler struct {
	config       *Config
	validator    *validation.Validator
	store        RecommendationStore
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, validator *validation.Validator, store RecommendationStore, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		validator:    validator,
		store:        store,
		errorHandler: apperrors.NewErrorHandler(l),
		logger:       l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job, apperrors.NewParseError(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job, err)
		return
	}

	camunda.CompleteJob(context.Background(), client, job, output, h.logger)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Recommendations == nil {
		input.Recommendations = []models.Recommendation{}
	}
	if err := h.validator.Check(TaskType, input); err != nil {
		return nil, err
	}

	ids, err := h.store.Replace(ctx, input.UserID, input.Recommendations)
	if err != nil {
		return nil, apperrors.NewDatabaseInsertFailedError(err)
	}

	h.logger.Info("recommendations persisted", map[string]interface{}{
		"userId": input.UserID,
		"count":  len(ids),
	})

	return &Output{
		PersistedCount:    len(ids),
		RecommendationIDs: ids,
		PersistedAt:       time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
