// internal/workers/notification/send-recommendation-summary/handler.go
package sendrecommendationsummary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"supplement-workers/internal/common/aws"
	"supplement-workers/internal/common/camunda"
	apperrors "supplement-workers/internal/common/errors"
	"supplement-workers/internal/common/logger"
	"supplement-workers/internal/common/metrics"
	"supplement-workers/internal/common/validation"
	"supplement-workers/internal/models"
	"supplement-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-recommendation-summary"
)

type EmailSender interface {
	Send(ctx context.Context, e aws.Email) (string, error)
}

type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type ProfileLoader interface {
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
}

type NotificationRecorder interface {
	Record(ctx context.Context, n *models.Notification) error
}

// Dependencies groups the collaborators of the handler.
type Dependencies struct {
	Email     EmailSender
	SMS       SMSSender
	Profiles  ProfileLoader
	Recorder  NotificationRecorder
	Validator *validation.Validator
}

type Handler struct {
	config       *Config
	deps         Dependencies
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, deps Dependencies, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		deps:         deps,
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
	if err := h.deps.Validator.Check(TaskType, input); err != nil {
		return nil, err
	}

	channel := input.Channel
	if channel == "" {
		channel = ChannelEmail
	}

	recs := input.Recommendations
	if len(recs) > h.config.MaxItems {
		recs = recs[:h.config.MaxItems]
	}

	out := &Output{
		NotificationID: uuid.New().String(),
		Channel:        channel,
		SentAt:         time.Now().UTC().Format(time.RFC3339),
	}

	email, phone, err := h.contact(ctx, input)
	if err != nil {
		return nil, err
	}

	var sendErr error
	switch {
	case len(recs) == 0:
		out.Status = StatusDisabled
	case channel == ChannelEmail && (!h.config.EmailEnabled || email == ""):
		out.Status = StatusDisabled
	case channel == ChannelSMS && (!h.config.SMSEnabled || phone == ""):
		out.Status = StatusDisabled
	default:
		out.MessageID, sendErr = h.send(ctx, channel, email, phone, recs)
		out.Status = StatusSent
		if sendErr != nil {
			out.Status = StatusFailed
		}
	}

	metrics.NotificationsSent.WithLabelValues(channel, out.Status).Inc()
	h.record(ctx, input.UserID, out, len(recs))

	if sendErr != nil {
		h.logger.Error("notification send failed", map[string]interface{}{
			"userId":  input.UserID,
			"channel": channel,
			"error":   sendErr,
		})
		return nil, apperrors.NewNotificationSendFailedError(channel, sendErr)
	}

	h.logger.Info("recommendation summary processed", map[string]interface{}{
		"userId":  input.UserID,
		"channel": channel,
		"status":  out.Status,
		"items":   len(recs),
	})
	return out, nil
}

// contact prefers addresses from the job and falls back to the stored profile.
func (h *Handler) contact(ctx context.Context, input *Input) (string, string, error) {
	email, phone := input.Email, input.Phone
	if (email != "" && phone != "") || h.deps.Profiles == nil {
		return email, phone, nil
	}

	p, err := h.deps.Profiles.Get(ctx, input.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return email, phone, nil
	}
	if err != nil {
		return "", "", apperrors.NewQueryExecutionFailedError("load contact", err)
	}
	if email == "" {
		email = p.Email
	}
	if phone == "" {
		phone = p.Phone
	}
	return email, phone, nil
}

func (h *Handler) send(ctx context.Context, channel, email, phone string, recs []models.Recommendation) (string, error) {
	msg, err := render(recs)
	if err != nil {
		return "", fmt.Errorf("render summary: %w", err)
	}

	if channel == ChannelSMS {
		return h.deps.SMS.SendSMS(ctx, phone, msg.SMS)
	}
	return h.deps.Email.Send(ctx, aws.Email{
		To:       email,
		Subject:  h.config.Subject,
		HTMLBody: msg.HTML,
		TextBody: msg.Text,
	})
}

// record stores the outcome. Failures are logged only.
func (h *Handler) record(ctx context.Context, userID string, out *Output, items int) {
	if h.deps.Recorder == nil {
		return
	}
	n := &models.Notification{
		ID:        out.NotificationID,
		UserID:    userID,
		Type:      notificationType,
		Channel:   out.Channel,
		Status:    out.Status,
		Payload:   map[string]interface{}{"items": items, "messageId": out.MessageID},
		CreatedAt: out.SentAt,
	}
	if out.Status == StatusSent {
		n.SentAt = out.SentAt
	}
	if err := h.deps.Recorder.Record(ctx, n); err != nil {
		h.logger.Warn("failed to record notification", map[string]interface{}{
			"notificationId": out.NotificationID,
			"error":          err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
