package repository

import (
	"context"

	"messapp/internal/domain/model"

	"gorm.io/gorm"
)

type MenuGormRepository struct {
	db *gorm.DB
}

func NewMenuGormRepository(db *gorm.DB) *MenuGormRepository {
	return &MenuGormRepository{db: db}
}

func (r *MenuGormRepository) ListCategories(ctx context.Context) ([]model.MenuCategory, error) {
	var cats []model.MenuCategory
	if err := r.db.WithContext(ctx).Order("position asc").Order("id asc").Find(&cats).Error; err != nil {
		return []model.MenuCategory{}, err
	}
	return cats, nil
}

// soft-deleted rows are excluded by gorm
func (r *MenuGormRepository) ListItems(ctx context.Context) ([]model.MenuItem, error) {
	var items []model.MenuItem
	if err := r.db.WithContext(ctx).Order("position asc").Order("id asc").Find(&items).Error; err != nil {
		return []model.MenuItem{}, err
	}
	return items, nil
}

func (r *MenuGormRepository) FindItemsByIDs(ctx context.Context, ids []int64) ([]model.MenuItem, error) {
	if len(ids) == 0 {
		return []model.MenuItem{}, nil
	}
	var items []model.MenuItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return []model.MenuItem{}, err
	}
	return items, nil
}

func (r *MenuGormRepository) SaveCategory(ctx context.Context, c *model.MenuCategory) error {
	if c.ID == 0 {
		return mapWriteErr(r.db.WithContext(ctx).Create(c).Error)
	}
	return mapWriteErr(r.db.WithContext(ctx).Save(c).Error)
}

func (r *MenuGormRepository) SaveItem(ctx context.Context, it *model.MenuItem) error {
	if it.ID == 0 {
		return mapWriteErr(r.db.WithContext(ctx).Create(it).Error)
	}
	// re-listing a removed item brings it back
	it.DeletedAt = gorm.DeletedAt{}
	return mapWriteErr(r.db.WithContext(ctx).Unscoped().Save(it).Error)
}

func (r *MenuGormRepository) DeleteItemsExcept(ctx context.Context, keep []int64) error {
	q := r.db.WithContext(ctx)
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	} else {
		q = q.Where("1 = 1")
	}
	return q.Delete(&model.MenuItem{}).Error
}

func (r *MenuGormRepository) DeleteCategoriesExcept(ctx context.Context, keep []int64) error {
	q := r.db.WithContext(ctx)
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	} else {
		q = q.Where("1 = 1")
	}
	return q.Delete(&model.MenuCategory{}).Error
}
