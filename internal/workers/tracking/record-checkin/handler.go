// internal/workers/tracking/record-checkin/handler.go
package recordcheckin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"supplement-workers/internal/common/camunda"
	apperrors "supplement-workers/internal/common/errors"
	"supplement-workers/internal/common/logger"
	"supplement-workers/internal/common/validation"
	"supplement-workers/internal/models"
	"supplement-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "record-checkin"

	TrendFirst     = "first"
	TrendImproving = "improving"
	TrendStable    = "stable"
	TrendWorsening = "worsening"

	weekLayout = "2006-01-02"
)

type CheckInStore interface {
	Upsert(ctx context.Context, c *models.CheckIn) error
	Previous(ctx context.Context, userID, weekStart string) (*models.CheckIn, error)
}

type Handler struct {
	config       *Config
	validator    *validation.Validator
	store        CheckInStore
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, validator *validation.Validator, store CheckInStore, log logger.Logger) *Handler {
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
	if err := h.validator.Check(TaskType, input); err != nil {
		return nil, err
	}

	week, err := time.Parse(weekLayout, input.WeekStart)
	if err != nil {
		return nil, apperrors.NewProfileValidationFailedError([]string{"weekStart: not a valid date"})
	}
	if week.Weekday() != time.Monday {
		return nil, apperrors.NewProfileValidationFailedError([]string{
			fmt.Sprintf("weekStart: %s is a %s, expected a Monday", input.WeekStart, week.Weekday()),
		})
	}

	checkIn := &models.CheckIn{
		UserID:           input.UserID,
		WeekStart:        input.WeekStart,
		EnergyLevel:      input.EnergyLevel,
		SleepQuality:     input.SleepQuality,
		StressLevel:      input.StressLevel,
		Mood:             input.Mood,
		AdherencePercent: input.AdherencePercent,
		Notes:            strings.TrimSpace(input.Notes),
	}

	previous, err := h.store.Previous(ctx, input.UserID, input.WeekStart)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewQueryExecutionFailedError("load previous check-in", err)
	}

	if err := h.store.Upsert(ctx, checkIn); err != nil {
		return nil, apperrors.NewDatabaseInsertFailedError(err)
	}

	out := &Output{
		CheckInID: checkIn.ID,
		WeekStart: checkIn.WeekStart,
		Trend:     TrendFirst,
	}
	if previous != nil {
		d := compare(checkIn, previous)
		out.PreviousWeekStart = previous.WeekStart
		out.Deltas = &d
		out.Trend = trend(d)
	}

	h.logger.Info("check-in recorded", map[string]interface{}{
		"userId":    input.UserID,
		"weekStart": input.WeekStart,
		"trend":     out.Trend,
	})
	return out, nil
}

func compare(cur, prev *models.CheckIn) Deltas {
	return Deltas{
		EnergyLevel:      cur.EnergyLevel - prev.EnergyLevel,
		SleepQuality:     cur.SleepQuality - prev.SleepQuality,
		StressLevel:      cur.StressLevel - prev.StressLevel,
		Mood:             cur.Mood - prev.Mood,
		AdherencePercent: cur.AdherencePercent - prev.AdherencePercent,
	}
}

// trend sums the wellbeing deltas; stress counts against.
func trend(d Deltas) string {
	score := d.EnergyLevel + d.SleepQuality + d.Mood - d.StressLevel
	switch {
	case score >= 2:
		return TrendImproving
	case score <= -2:
		return TrendWorsening
	default:
		return TrendStable
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
