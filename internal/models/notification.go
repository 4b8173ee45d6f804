// internal/models/notification.go
package models

type Notification struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"userId"`
	Type      string                 `json:"type"`    // "recommendation_summary", "checkin_reminder"
	Channel   string                 `json:"channel"` // "email", "sms"
	Status    string                 `json:"status"`  // "sent", "failed", "disabled"
	Payload   map[string]interface{} `json:"payload"`
	SentAt    string                 `json:"sentAt"`
	CreatedAt string                 `json:"createdAt"`
}
