package models

import "time"

const (
	NotificationTable = "jumbly_notifications"
	FeedbackTable     = "jumbly_feedback"
)

// Notification types written by the service.
const (
	NotifyBorrow = "inventory.borrow"
	NotifyReturn = "inventory.return"
)

// Notification is a peripheral record: it observes ledger state but never mutates
// it. UserID nil means the notification is tenant-wide.
type Notification struct {
	ID       string  `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID string  `gorm:"type:uuid;index;not null" json:"tenant_id"`
	UserID   *string `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Type     string  `gorm:"size:50;not null" json:"type"`
	Message  string  `gorm:"size:500;not null" json:"message"`
	Read     bool    `gorm:"not null;default:false" json:"read"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Feedback struct {
	ID        string  `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID  string  `gorm:"type:uuid;index;not null" json:"tenant_id"`
	UserID    string  `gorm:"type:uuid;index;not null" json:"user_id"`
	ProjectID *string `gorm:"type:uuid;index" json:"project_id,omitempty"`
	Rating    int     `gorm:"not null" json:"rating"` // 1..5
	Comment   string  `gorm:"size:1000" json:"comment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string { return NotificationTable }
func (Feedback) TableName() string     { return FeedbackTable }
