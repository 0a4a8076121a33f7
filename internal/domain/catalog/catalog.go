package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Price is a menu price that may be unset ("not orderable online" / counter priced).
type Price struct {
	Amount int64
	Valid  bool
}

func PriceOf(amount int64) Price {
	return Price{Amount: amount, Valid: true}
}

// NoPrice is the unset price.
var NoPrice = Price{}

// Pointer form for JSON / DB columns (nil = unset).
func (p Price) Ptr() *int64 {
	if !p.Valid {
		return nil
	}
	v := p.Amount
	return &v
}

func PriceFromPtr(v *int64) Price {
	if v == nil {
		return NoPrice
	}
	return PriceOf(*v)
}

type Item struct {
	ID       int64
	Name     string
	Category string
	Price    Price
	Extras   string
	Image    string
}

type Category struct {
	Name   string
	Window Window
	Items  []Item
}

// Catalog is a read-only snapshot of the menu.
// The zero value is a valid empty catalog.
type Catalog struct {
	categories []Category
	loc        *time.Location
}

// New builds a catalog. Items are re-tagged with the category they are listed under.
func New(loc *time.Location, categories ...Category) Catalog {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		items := make([]Item, len(c.Items))
		for i, it := range c.Items {
			it.Category = c.Name
			items[i] = it
		}
		out = append(out, Category{Name: c.Name, Window: c.Window, Items: items})
	}
	return Catalog{categories: out, loc: loc}
}

func (c Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Location is the mess timezone. Falls back to UTC.
func (c Catalog) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

func (c Catalog) IsEmpty() bool {
	for _, cat := range c.categories {
		if len(cat.Items) > 0 {
			return false
		}
	}
	return true
}

func (c Catalog) FindItem(id int64) (Item, bool) {
	for _, cat := range c.categories {
		for _, it := range cat.Items {
			if it.ID == id {
				return it, true
			}
		}
	}
	return Item{}, false
}

func (c Catalog) FindCategoryOf(itemID int64) (Category, bool) {
	for _, cat := range c.categories {
		for _, it := range cat.Items {
			if it.ID == itemID {
				return cat, true
			}
		}
	}
	return Category{}, false
}

func (c Catalog) FindCategory(name string) (Category, bool) {
	for _, cat := range c.categories {
		if strings.EqualFold(cat.Name, name) {
			return cat, true
		}
	}
	return Category{}, false
}

// Validate checks catalog invariants: unique category names, valid windows, non-negative prices.
func (c Catalog) Validate() error {
	seen := make(map[string]struct{}, len(c.categories))
	for _, cat := range c.categories {
		name := strings.ToLower(strings.TrimSpace(cat.Name))
		if name == "" {
			return fmt.Errorf("category name is required")
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("duplicate category %q", cat.Name)
		}
		seen[name] = struct{}{}

		if err := cat.Window.Validate(); err != nil {
			return fmt.Errorf("category %q: %w", cat.Name, err)
		}
		for _, it := range cat.Items {
			if strings.TrimSpace(it.Name) == "" {
				return fmt.Errorf("category %q: item name is required", cat.Name)
			}
			if it.Price.Valid && it.Price.Amount < 0 {
				return fmt.Errorf("item %q: price must be >= 0", it.Name)
			}
		}
	}
	return nil
}
