// internal/workers/recommendation/generate-recommendations/handler.go
package generaterecommendations

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"supplement-workers/internal/common/camunda"
	apperrors "supplement-workers/internal/common/errors"
	"supplement-workers/internal/common/logger"
	"supplement-workers/internal/common/metrics"
	"supplement-workers/internal/common/validation"
	"supplement-workers/internal/models"
	"supplement-workers/internal/scoring"
	"supplement-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"golang.org/x/sync/errgroup"
)

const (
	TaskType = "generate-recommendations"
)

type ProfileLoader interface {
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
}

type CatalogLoader interface {
	Supplements(ctx context.Context) ([]models.Supplement, error)
	Protocols(ctx context.Context) ([]models.TherapeuticProtocol, error)
}

type Handler struct {
	config       *Config
	engine       *scoring.Engine
	profiles     ProfileLoader
	catalog      CatalogLoader
	validator    *validation.Validator
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, engine *scoring.Engine, validator *validation.Validator, profiles ProfileLoader, catalog CatalogLoader, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		engine:       engine,
		profiles:     profiles,
		catalog:      catalog,
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
		profile     models.UserProfile
		supplements []models.Supplement
		protocols   []models.TherapeuticProtocol
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := resolveProfile(gctx, h.profiles, input.UserID, input.Profile)
		if err != nil {
			return err
		}
		profile = *p
		return nil
	})
	g.Go(func() error {
		s, err := h.catalog.Supplements(gctx)
		if err != nil {
			return apperrors.NewCatalogLoadFailedError(err)
		}
		supplements = s
		return nil
	})
	g.Go(func() error {
		p, err := h.catalog.Protocols(gctx)
		if err != nil {
			return apperrors.NewCatalogLoadFailedError(err)
		}
		protocols = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	recs := h.engine.Recommend(profile, supplements, protocols)
	if recs == nil {
		recs = []models.Recommendation{}
	}

	high := 0
	for _, r := range recs {
		if r.Priority == models.PriorityHigh {
			high++
		}
		metrics.RecommendationsGenerated.WithLabelValues(string(r.Priority)).Inc()
		metrics.RecommendationConfidence.Observe(float64(r.Confidence))
	}

	h.logger.Info("recommendations generated", map[string]interface{}{
		"userId":       profile.UserID,
		"count":        len(recs),
		"highPriority": high,
		"catalogSize":  len(supplements),
	})

	return &Output{
		Recommendations:     recs,
		RecommendationCount: len(recs),
		HighPriorityCount:   high,
		GeneratedAt:         time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// resolveProfile prefers the inline profile and falls back to the stored one.
func resolveProfile(ctx context.Context, profiles ProfileLoader, userID string, inline *models.UserProfile) (*models.UserProfile, error) {
	if inline != nil {
		p := *inline
		if p.UserID == "" {
			p.UserID = userID
		}
		return &p, nil
	}

	p, err := profiles.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewProfileNotFoundError(userID)
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("load profile", err)
	}
	return p, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
