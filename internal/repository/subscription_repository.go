package repository

import (
	"context"

	"messapp/internal/domain/model"
)

type SubscriptionRepository interface {
	// ErrNotFound when the student never subscribed
	FindByUserID(ctx context.Context, userID int64) (model.Subscription, error)
	// create when ID == 0, update otherwise
	Save(ctx context.Context, s *model.Subscription) error
	ListByUserIDs(ctx context.Context, userIDs []int64) ([]model.Subscription, error)
}
