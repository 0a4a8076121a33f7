package repository

import (
	"context"
	"time"

	"messapp/internal/domain/model"
	"messapp/internal/domain/ordering"
)

type AdminOrderListFilter struct {
	Page       int
	Limit      int
	Status     string
	IsPreorder *bool
	UserID     *int64
	From       *time.Time
	To         *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)

	// only moves the row when its current status is from; ErrConflict otherwise
	UpdateStatusFrom(ctx context.Context, orderID int64, from ordering.Status, to ordering.Status) error

	FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error)
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}
