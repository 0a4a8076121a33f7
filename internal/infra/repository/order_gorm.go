package repository

import (
	"context"
	"errors"

	"messapp/internal/domain/model"
	"messapp/internal/domain/ordering"
	repo "messapp/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) first(ctx context.Context, query string, args ...any) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where(query, args...).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	return o, err
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	return r.first(ctx, "id = ?", orderID)
}

// ListByUserID is one student's history, newest first.
func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	mine := r.db.WithContext(ctx).Model(&model.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := mine.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var orders []model.Order
	if err := mine.Session(&gorm.Session{}).
		Scopes(paginate(limit, (page-1)*limit, 100)).
		Order("id desc").
		Find(&orders).Error; err != nil {
		return []model.Order{}, 0, err
	}
	return orders, total, nil
}

// Create fails with ErrConflict when the student already used the idempotency key.
// On postgres the surrounding transaction is aborted after that error.
func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return 0, mapWriteErr(err)
	}
	return order.ID, nil
}

// UpdateStatusFrom is a compare-and-set on status: ErrConflict when the row has
// already moved on, ErrNotFound when it is gone.
func (r *OrderGormRepository) UpdateStatusFrom(ctx context.Context, orderID int64, from ordering.Status, to ordering.Status) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	if _, err := r.FindByID(ctx, orderID); err != nil {
		return err
	}
	return repo.ErrConflict
}

func (r *OrderGormRepository) FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	o, err := r.first(ctx, "user_id = ? AND idempotency_key = ?", userID, key)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return model.Order{}, false, nil
	case err != nil:
		return model.Order{}, false, err
	}
	return o, true, nil
}

func (r *OrderGormRepository) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = defaultPageSize
	}

	var status *string
	if f.Status != "" {
		status = &f.Status
	}
	filtered := r.db.WithContext(ctx).Model(&model.Order{}).Scopes(
		whereIf("status = ?", status),
		whereIf("is_preorder = ?", f.IsPreorder),
		whereIf("user_id = ?", f.UserID),
		createdBetween(f.From, f.To),
	)

	var total int64
	if err := filtered.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	if err := filtered.Session(&gorm.Session{}).
		Scopes(paginate(f.Limit, (f.Page-1)*f.Limit, 100)).
		Order("id desc").
		Find(&items).Error; err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}
