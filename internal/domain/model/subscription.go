package model

import (
	"time"

	"messapp/internal/domain/subscription"
)

// 1 student : 1 row. MessPassNumber is assigned once and never rewritten.
type Subscription struct {
	ID             int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64               `gorm:"not null;uniqueIndex" json:"user_id"`
	DurationMonths int                 `gorm:"not null" json:"duration_months"`
	Status         subscription.Status `gorm:"type:varchar(20);not null;index" json:"status"`
	MessPassNumber string              `gorm:"type:varchar(32);not null;uniqueIndex" json:"mess_pass_number"`
	StartedAt      time.Time           `gorm:"not null" json:"started_at"`
	CancelledAt    *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time           `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time           `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
