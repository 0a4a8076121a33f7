package usecase

import (
	"fmt"
	"time"

	"messapp/internal/domain/catalog"
)

type MenuItemOutput struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	// null = priced at the counter
	Price  *int64 `json:"price"`
	Extras string `json:"extras,omitempty"`
	Image  string `json:"image,omitempty"`
}

type MenuCategoryOutput struct {
	Name        string           `json:"name"`
	WindowStart string           `json:"window_start"`
	WindowEnd   string           `json:"window_end"`
	Items       []MenuItemOutput `json:"items"`
}

type CatalogOutput struct {
	Timezone   string               `json:"timezone"`
	Categories []MenuCategoryOutput `json:"categories"`
}

func ToCatalogOutput(c catalog.Catalog) CatalogOutput {
	cats := c.Categories()
	out := CatalogOutput{
		Timezone:   c.Location().String(),
		Categories: make([]MenuCategoryOutput, 0, len(cats)),
	}
	for _, cat := range cats {
		items := make([]MenuItemOutput, 0, len(cat.Items))
		for _, it := range cat.Items {
			items = append(items, MenuItemOutput{
				ID:       it.ID,
				Name:     it.Name,
				Category: cat.Name,
				Price:    it.Price.Ptr(),
				Extras:   it.Extras,
				Image:    it.Image,
			})
		}
		out.Categories = append(out.Categories, MenuCategoryOutput{
			Name:        cat.Name,
			WindowStart: cat.Window.Start.String(),
			WindowEnd:   cat.Window.End.String(),
			Items:       items,
		})
	}
	return out
}

// ToCatalog rebuilds the domain catalog from its wire form.
func (o CatalogOutput) ToCatalog() (catalog.Catalog, error) {
	loc := time.UTC
	if o.Timezone != "" {
		l, err := time.LoadLocation(o.Timezone)
		if err != nil {
			return catalog.Catalog{}, fmt.Errorf("timezone: %w", err)
		}
		loc = l
	}

	cats := make([]catalog.Category, 0, len(o.Categories))
	for _, c := range o.Categories {
		w, err := parseWindow(c.WindowStart, c.WindowEnd)
		if err != nil {
			return catalog.Catalog{}, fmt.Errorf("category %q: %w", c.Name, err)
		}
		items := make([]catalog.Item, 0, len(c.Items))
		for _, it := range c.Items {
			items = append(items, catalog.Item{
				ID:     it.ID,
				Name:   it.Name,
				Price:  catalog.PriceFromPtr(it.Price),
				Extras: it.Extras,
				Image:  it.Image,
			})
		}
		cats = append(cats, catalog.Category{Name: c.Name, Window: w, Items: items})
	}
	return catalog.New(loc, cats...), nil
}

func parseWindow(start, end string) (catalog.Window, error) {
	s, err := catalog.ParseTimeOfDay(start)
	if err != nil {
		return catalog.Window{}, fmt.Errorf("window_start: %w", err)
	}
	e, err := catalog.ParseTimeOfDay(end)
	if err != nil {
		return catalog.Window{}, fmt.Errorf("window_end: %w", err)
	}
	w := catalog.Window{Start: s, End: e}
	if err := w.Validate(); err != nil {
		return catalog.Window{}, err
	}
	return w, nil
}

type MenuItemInput struct {
	// 0 = new item
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Price  *int64 `json:"price"`
	Extras string `json:"extras"`
	Image  string `json:"image"`
}

type MenuCategoryInput struct {
	Name        string          `json:"name"`
	WindowStart string          `json:"window_start"`
	WindowEnd   string          `json:"window_end"`
	Items       []MenuItemInput `json:"items"`
}

// ReplaceMenuInput is the whole menu; anything missing from it is removed.
type ReplaceMenuInput struct {
	Categories []MenuCategoryInput `json:"categories"`
}

// flat seed file entry
type seedItem struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    *int64 `json:"price"`
	Extras   string `json:"extras"`
	Image    string `json:"image"`
}
