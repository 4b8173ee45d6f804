// internal/workers/profile/validate-profile/handler.go
package validateprofile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"supplement-workers/internal/common/camunda"
	apperrors "supplement-workers/internal/common/errors"
	"supplement-workers/internal/common/logger"
	"supplement-workers/internal/common/validation"
	"supplement-workers/internal/models"
	"supplement-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "validate-profile"
)

type ProfileStore interface {
	Save(ctx context.Context, p *models.UserProfile) error
}

type Handler struct {
	config       *Config
	validator    *validation.Validator
	store        ProfileStore
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, validator *validation.Validator, store ProfileStore, log logger.Logger) *Handler {
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
	if input.Profile == nil {
		return nil, apperrors.NewProfileValidationFailedError([]string{"profile: is required"})
	}

	result, err := h.validator.Validate(TaskType, input)
	if err != nil {
		return nil, fmt.Errorf("validate profile: %w", err)
	}

	var violations []string
	if !result.Valid {
		violations = append(violations, result.Messages()...)
	}

	profile := *input.Profile
	profile.UserID = strings.TrimSpace(profile.UserID)
	profile.Symptoms = scoring.Dedupe(profile.Symptoms)
	profile.HealthGoals = scoring.Dedupe(profile.HealthGoals)
	profile.Email = strings.TrimSpace(profile.Email)

	if profile.UserID == "" {
		violations = append(violations, "profile.userId: must not be blank")
	}

	if len(violations) > 0 {
		h.logger.Info("profile rejected", map[string]interface{}{
			"userId":     profile.UserID,
			"violations": len(violations),
		})
		return nil, apperrors.NewProfileValidationFailedError(violations)
	}

	if err := h.store.Save(ctx, &profile); err != nil {
		return nil, apperrors.NewDatabaseInsertFailedError(err)
	}

	h.logger.Info("profile validated", map[string]interface{}{
		"userId":   profile.UserID,
		"symptoms": len(profile.Symptoms),
		"goals":    len(profile.HealthGoals),
	})

	return &Output{
		ProfileValid: true,
		Profile:      profile,
		SavedAt:      time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
