package repository

import (
	"context"

	"messapp/internal/domain/model"
	repo "messapp/internal/repository"

	"gorm.io/gorm"
)

type auditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) repo.AuditLogRepository {
	return &auditLogGormRepository{db: db}
}

// Create appends; audit rows are never updated.
func (r *auditLogGormRepository) Create(ctx context.Context, entry model.AuditLog) error {
	return r.db.WithContext(ctx).Create(&entry).Error
}

func (r *auditLogGormRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	err := r.db.WithContext(ctx).
		Scopes(
			whereIf("actor_user_id = ?", f.ActorUserID),
			whereIf("action = ?", f.Action),
			whereIf("resource_type = ?", f.ResourceType),
			whereIf("resource_id = ?", f.ResourceID),
			createdBetween(f.CreatedFrom, f.CreatedTo),
			paginate(f.Limit, f.Offset, maxPageSize),
		).
		Order("id desc").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
