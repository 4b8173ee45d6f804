// internal/workers/recommendation/rank-protocols/handler.go
package rankprotocols

import (
	"context"
	"encoding/json"
	"errors"

	"supplement-workers/internal/common/camunda"
	apperrors "supplement-workers/internal/common/errors"
	"supplement-workers/internal/common/logger"
	"supplement-workers/internal/common/validation"
	"supplement-workers/internal/models"
	"supplement-workers/internal/scoring"
	"supplement-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"golang.org/x/sync/errgroup"
)

const (
	TaskType = "rank-protocols"
)

type ProfileLoader interface {
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
}

type ProtocolLoader interface {
	Protocols(ctx context.Context) ([]models.TherapeuticProtocol, error)
}

type Handler struct {
	config       *Config
	profiles     ProfileLoader
	protocols    ProtocolLoader
	validator    *validation.Validator
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, validator *validation.Validator, profiles ProfileLoader, protocols ProtocolLoader, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		profiles:     profiles,
		protocols:    protocols,
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

	var (
		profile   models.UserProfile
		protocols []models.TherapeuticProtocol
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if input.Profile != nil {
			profile = *input.Profile
			return nil
		}
		p, err := h.profiles.Get(gctx, input.UserID)
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NewProfileNotFoundError(input.UserID)
		}
		if err != nil {
			return apperrors.NewQueryExecutionFailedError("load profile", err)
		}
		profile = *p
		return nil
	})
	g.Go(func() error {
		p, err := h.protocols.Protocols(gctx)
		if err != nil {
			return apperrors.NewCatalogLoadFailedError(err)
		}
		protocols = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = h.config.DefaultLimit
	}

	scores := scoring.RankProtocols(profile, protocols, limit)
	if scores == nil {
		scores = []models.ProtocolScore{}
	}

	out := &Output{ProtocolScores: scores}
	if len(scores) > 0 {
		out.TopProtocolID = scores[0].ProtocolID
	}

	h.logger.Info("protocols ranked", map[string]interface{}{
		"userId":    input.UserID,
		"protocols": len(protocols),
		"returned":  len(scores),
		"top":       out.TopProtocolID,
	})
	return out, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
