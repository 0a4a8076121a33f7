package db

import (
	"fmt"

	"messapp/internal/config"
	"messapp/internal/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens postgres and returns *gorm.DB.
func Connect(cfg config.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{}
	if cfg.IsProd() {
		gcfg.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}

	return gorm.Open(postgres.Open(DSN(cfg)), gcfg)
}

// DSN prefers DATABASE_URL.
func DSN(cfg config.Config) string {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB,
	)
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.MenuCategory{},
		&model.MenuItem{},
		&model.Subscription{},
		&model.Order{},
		&model.OrderItem{},
		&model.AuditLog{},
	); err != nil {
		return err
	}

	// 旧スキーマのキー単独ユニーク索引（学生をまたいで衝突する）
	m := db.Migrator()
	if m.HasIndex(&model.Order{}, legacyIdempotencyIndex) {
		return m.DropIndex(&model.Order{}, legacyIdempotencyIndex)
	}
	return nil
}

const legacyIdempotencyIndex = "idx_orders_idempotency_key"
