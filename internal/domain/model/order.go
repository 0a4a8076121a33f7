package model

import (
	"time"

	"messapp/internal/domain/ordering"
)

type Order struct {
	ID             int64                  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64                  `gorm:"not null;index;uniqueIndex:idx_orders_user_idempotency,priority:1" json:"user_id"`
	StudentName    string                 `gorm:"type:varchar(255);not null" json:"student_name"`
	IsPreorder     bool                   `gorm:"not null;default:false;index" json:"is_preorder"`
	Category       string                 `gorm:"type:varchar(100)" json:"category"`
	PaymentMethod  ordering.PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	MessPassNumber string                 `gorm:"type:varchar(32)" json:"mess_pass_number"`
	Status         ordering.Status        `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalPrice     int64                  `gorm:"not null" json:"total_price"`
	// 二重送信防止キーは学生ごとに一意
	IdempotencyKey string                 `gorm:"type:varchar(255);not null;uniqueIndex:idx_orders_user_idempotency,priority:2" json:"-"`
	CreatedAt      time.Time              `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time              `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
