// internal/workers/catalog/search-supplements/handler.go
package searchsupplements

import (
	"context"
	"encoding/json"
	"errors"

	"supplement-workers/internal/common/camunda"
	apperrors "supplement-workers/internal/common/errors"
	"supplement-workers/internal/common/logger"
	"supplement-workers/internal/common/validation"
	"supplement-workers/internal/workers/catalog/search-supplements/queries"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
)

const (
	TaskType = "search-supplements"
)

type Handler struct {
	config       *Config
	client       *elasticsearch.Client
	validator    *validation.Validator
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, validator *validation.Validator, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		client:       client,
		validator:    validator,
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
	if err := h.validator.Check(TaskType, input); err != nil {
		return nil, err
	}

	result, err := queries.Execute(ctx, h.client, queries.SupplementQuery{
		Index:    h.config.Index,
		Text:     input.Query,
		Category: input.Category,
		Size:     input.Limit,
	})
	if err != nil {
		if errors.Is(err, queries.ErrEmptyQuery) {
			return nil, apperrors.NewProfileValidationFailedError([]string{"query: must not be blank"})
		}
		return nil, apperrors.NewSearchQueryFailedError(h.config.Index, err)
	}

	h.logger.Info("search completed", map[string]interface{}{
		"query":    input.Query,
		"category": input.Category,
		"hits":     result.TotalHits,
		"took_ms":  result.Took,
	})

	return &Output{
		Supplements: result.Supplements,
		Total:       result.TotalHits,
		MaxScore:    result.MaxScore,
		Took:        result.Took,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
