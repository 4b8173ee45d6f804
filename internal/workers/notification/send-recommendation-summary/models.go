// internal/workers/notification/send-recommendation-summary/models.go
package sendrecommendationsummary

import "supplement-workers/internal/models"

type Input struct {
	UserID          string                  `json:"userId"`
	Channel         string                  `json:"channel,omitempty"` // "email" (default) or "sms"
	Email           string                  `json:"email,omitempty"`
	Phone           string                  `json:"phone,omitempty"`
	Recommendations []models.Recommendation `json:"recommendations"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Channel        string `json:"channel"`
	Status         string `json:"status"` // "sent", "failed", "disabled"
	MessageID      string `json:"messageId,omitempty"`
	SentAt         string `json:"sentAt"` // ISO 8601
}

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

const notificationType = "recommendation_summary"
