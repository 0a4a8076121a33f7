package repository

import (
	"context"

	"messapp/internal/domain/model"
)

type MenuRepository interface {
	// ordered by position, id
	ListCategories(ctx context.Context) ([]model.MenuCategory, error)
	// live (not deleted) items ordered by position, id
	ListItems(ctx context.Context) ([]model.MenuItem, error)
	FindItemsByIDs(ctx context.Context, ids []int64) ([]model.MenuItem, error)

	// create when ID == 0, update otherwise
	SaveCategory(ctx context.Context, c *model.MenuCategory) error
	SaveItem(ctx context.Context, it *model.MenuItem) error

	// soft delete every item not in keep
	DeleteItemsExcept(ctx context.Context, keep []int64) error
	DeleteCategoriesExcept(ctx context.Context, keep []int64) error
}

// CatalogCache holds the encoded menu snapshot between re-fetches.
type CatalogCache interface {
	Get(ctx context.Context) ([]byte, bool, error)
	Set(ctx context.Context, data []byte) error
	Invalidate(ctx context.Context) error
}
