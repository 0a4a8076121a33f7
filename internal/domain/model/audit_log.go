package model

import "time"

// Admin operations that leave an audit trail.
type AuditAction string

const (
	// approve / reject of a pre-order
	AuditActionDecidePreorder AuditAction = "DECIDE_PREORDER"
	// full menu replace from the admin screen
	AuditActionReplaceMenu AuditAction = "REPLACE_MENU"
)

type AuditResourceType string

const (
	AuditResourceOrder AuditResourceType = "order"
	AuditResourceMenu  AuditResourceType = "menu"
)

// AuditLog records who changed what, with before/after JSON.
type AuditLog struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorUserID  int64             `gorm:"not null;index" json:"actor_user_id"`
	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	// 0 for whole-menu operations
	ResourceID int64     `gorm:"not null;index" json:"resource_id"`
	BeforeJSON string    `gorm:"type:text" json:"before_json"`
	AfterJSON  string    `gorm:"type:text" json:"after_json"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
}
