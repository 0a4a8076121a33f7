package repository

import (
	"context"
	"errors"

	"messapp/internal/domain/model"
	repo "messapp/internal/repository"

	"gorm.io/gorm"
)

type SubscriptionGormRepository struct {
	db *gorm.DB
}

func NewSubscriptionGormRepository(db *gorm.DB) *SubscriptionGormRepository {
	return &SubscriptionGormRepository{db: db}
}

func (r *SubscriptionGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Subscription, error) {
	var s model.Subscription
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Subscription{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Subscription{}, err
	}
	return s, nil
}

func (r *SubscriptionGormRepository) Save(ctx context.Context, s *model.Subscription) error {
	if s.ID == 0 {
		return mapWriteErr(r.db.WithContext(ctx).Create(s).Error)
	}
	return mapWriteErr(r.db.WithContext(ctx).Save(s).Error)
}

func (r *SubscriptionGormRepository) ListByUserIDs(ctx context.Context, userIDs []int64) ([]model.Subscription, error) {
	if len(userIDs) == 0 {
		return []model.Subscription{}, nil
	}
	var subs []model.Subscription
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&subs).Error; err != nil {
		return []model.Subscription{}, err
	}
	return subs, nil
}
