package model

import (
	"time"

	"gorm.io/gorm"
)

// Menu category with its daily serving window (minutes after midnight).
type MenuCategory struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Position    int       `gorm:"not null;default:0" json:"position"`
	WindowStart int       `gorm:"not null" json:"window_start"`
	WindowEnd   int       `gorm:"not null" json:"window_end"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// Price nil = not orderable online (counter priced).
type MenuItem struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID int64          `gorm:"not null;index" json:"category_id"`
	Name       string         `gorm:"type:varchar(255);not null" json:"name"`
	Price      *int64         `json:"price"`
	Extras     string         `gorm:"type:text" json:"extras"`
	Image      string         `gorm:"type:varchar(512)" json:"image"`
	Position   int            `gorm:"not null;default:0" json:"position"`
	CreatedAt  time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
