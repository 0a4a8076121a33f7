package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"messapp/internal/domain/catalog"
	"messapp/internal/domain/model"
	"messapp/internal/logger"
	repo "messapp/internal/repository"
)

type MenuUsecase struct {
	menu    repo.MenuRepository
	tx      repo.TransactionManager
	cache   repo.CatalogCache
	loc     *time.Location
	vegOnly bool
	log     *logger.Logger
	clock   Clock
}

func NewMenuUsecase(
	menu repo.MenuRepository,
	tx repo.TransactionManager,
	cache repo.CatalogCache,
	loc *time.Location,
	vegOnly bool,
	log *logger.Logger,
) *MenuUsecase {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.New("mess-api", io.Discard, slog.LevelError)
	}
	return &MenuUsecase{menu: menu, tx: tx, cache: cache, loc: loc, vegOnly: vegOnly, log: log, clock: SystemClock{}}
}

// FullCatalog is the stored menu, cache first.
func (u *MenuUsecase) FullCatalog(ctx context.Context) (catalog.Catalog, error) {
	if b, ok, err := u.cache.Get(ctx); err != nil {
		u.log.Warn("catalog_cache_get", "", "cache read failed", slog.String("err", err.Error()))
	} else if ok {
		var out CatalogOutput
		if err := json.Unmarshal(b, &out); err == nil {
			if c, err := out.ToCatalog(); err == nil {
				return c, nil
			}
		}
		// unreadable entry: fall through and overwrite it
	}

	c, err := u.load(ctx, u.menu)
	if err != nil {
		return catalog.Catalog{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if b, err := json.Marshal(ToCatalogOutput(c)); err == nil {
		if err := u.cache.Set(ctx, b); err != nil {
			u.log.Warn("catalog_cache_set", "", "cache write failed", slog.String("err", err.Error()))
		}
	}
	return c, nil
}

// StudentCatalog is what students see and may order from.
func (u *MenuUsecase) StudentCatalog(ctx context.Context) (catalog.Catalog, error) {
	c, err := u.FullCatalog(ctx)
	if err != nil {
		return catalog.Catalog{}, err
	}
	if u.vegOnly {
		c = catalog.VegOnly(c)
	}
	return c, nil
}

func (u *MenuUsecase) Menu(ctx context.Context) (CatalogOutput, error) {
	c, err := u.StudentCatalog(ctx)
	if err != nil {
		return CatalogOutput{}, err
	}
	return ToCatalogOutput(c), nil
}

func (u *MenuUsecase) AdminMenu(ctx context.Context) (CatalogOutput, error) {
	c, err := u.FullCatalog(ctx)
	if err != nil {
		return CatalogOutput{}, err
	}
	return ToCatalogOutput(c), nil
}

// Replace overwrites the whole menu. Items keep their id when sent back with it.
func (u *MenuUsecase) Replace(ctx context.Context, actorAdminUserID int64, in ReplaceMenuInput) (CatalogOutput, error) {
	if actorAdminUserID <= 0 {
		return CatalogOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateMenuInput(in); err != nil {
		return CatalogOutput{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var after CatalogOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		beforeCat, err := u.load(ctx, r.Menu())
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := u.write(ctx, r.Menu(), in); err != nil {
			return err
		}

		afterCat, err := u.load(ctx, r.Menu())
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		after = ToCatalogOutput(afterCat)

		beforeJSON, _ := json.Marshal(ToCatalogOutput(beforeCat))
		afterJSON, _ := json.Marshal(after)
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionReplaceMenu,
			ResourceType: model.AuditResourceMenu,
			ResourceID:   0,
			BeforeJSON:   string(beforeJSON),
			AfterJSON:    string(afterJSON),
			CreatedAt:    u.clock.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return CatalogOutput{}, err
	}

	u.invalidate(ctx)
	return after, nil
}

// SeedIfEmpty loads a flat JSON item list into the default meal windows.
// Items whose category is not one of those windows are skipped.
func (u *MenuUsecase) SeedIfEmpty(ctx context.Context, src io.Reader) (int, error) {
	existing, err := u.menu.ListCategories(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	var flat []seedItem
	if err := json.NewDecoder(src).Decode(&flat); err != nil {
		return 0, fmt.Errorf("decode menu seed: %w", err)
	}

	defaults := catalog.DefaultWindows()
	in := ReplaceMenuInput{Categories: make([]MenuCategoryInput, len(defaults))}
	for i, c := range defaults {
		in.Categories[i] = MenuCategoryInput{
			Name:        c.Name,
			WindowStart: c.Window.Start.String(),
			WindowEnd:   c.Window.End.String(),
		}
	}

	n := 0
	for _, it := range flat {
		placed := false
		for i := range in.Categories {
			if strings.EqualFold(in.Categories[i].Name, strings.TrimSpace(it.Category)) {
				in.Categories[i].Items = append(in.Categories[i].Items, MenuItemInput{
					Name:   it.Name,
					Price:  it.Price,
					Extras: it.Extras,
					Image:  it.Image,
				})
				placed = true
				n++
				break
			}
		}
		if !placed {
			u.log.Warn("menu_seed", "", "skipping item with unknown category",
				slog.String("item", it.Name), slog.String("category", it.Category))
		}
	}

	if err := validateMenuInput(in); err != nil {
		return 0, err
	}
	if err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		return u.write(ctx, r.Menu(), in)
	}); err != nil {
		return 0, err
	}

	u.invalidate(ctx)
	return n, nil
}

func (u *MenuUsecase) invalidate(ctx context.Context) {
	if err := u.cache.Invalidate(ctx); err != nil {
		u.log.Warn("catalog_cache_invalidate", "", "cache invalidate failed", slog.String("err", err.Error()))
	}
}

func (u *MenuUsecase) load(ctx context.Context, menu repo.MenuRepository) (catalog.Catalog, error) {
	cats, err := menu.ListCategories(ctx)
	if err != nil {
		return catalog.Catalog{}, err
	}
	items, err := menu.ListItems(ctx)
	if err != nil {
		return catalog.Catalog{}, err
	}

	byCat := make(map[int64][]catalog.Item, len(cats))
	for _, it := range items {
		byCat[it.CategoryID] = append(byCat[it.CategoryID], catalog.Item{
			ID:     it.ID,
			Name:   it.Name,
			Price:  catalog.PriceFromPtr(it.Price),
			Extras: it.Extras,
			Image:  it.Image,
		})
	}

	out := make([]catalog.Category, 0, len(cats))
	for _, c := range cats {
		out = append(out, catalog.Category{
			Name:   c.Name,
			Window: catalog.Window{Start: catalog.TimeOfDay(c.WindowStart), End: catalog.TimeOfDay(c.WindowEnd)},
			Items:  byCat[c.ID],
		})
	}
	return catalog.New(u.loc, out...), nil
}

func (u *MenuUsecase) write(ctx context.Context, menu repo.MenuRepository, in ReplaceMenuInput) error {
	existingCats, err := menu.ListCategories(ctx)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	catIDs := make(map[string]int64, len(existingCats))
	for _, c := range existingCats {
		catIDs[strings.ToLower(c.Name)] = c.ID
	}

	existingItems, err := menu.ListItems(ctx)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	live := make(map[int64]model.MenuItem, len(existingItems))
	for _, it := range existingItems {
		live[it.ID] = it
	}

	keepCats := make([]int64, 0, len(in.Categories))
	keepItems := make([]int64, 0)

	for pos, c := range in.Categories {
		w, _ := parseWindow(c.WindowStart, c.WindowEnd)
		cat := model.MenuCategory{
			ID:          catIDs[strings.ToLower(strings.TrimSpace(c.Name))],
			Name:        strings.TrimSpace(c.Name),
			Position:    pos,
			WindowStart: int(w.Start),
			WindowEnd:   int(w.End),
		}
		if err := menu.SaveCategory(ctx, &cat); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		keepCats = append(keepCats, cat.ID)

		for ipos, it := range c.Items {
			row := model.MenuItem{
				CategoryID: cat.ID,
				Name:       strings.TrimSpace(it.Name),
				Price:      it.Price,
				Extras:     strings.TrimSpace(it.Extras),
				Image:      strings.TrimSpace(it.Image),
				Position:   ipos,
			}
			if it.ID > 0 {
				prev, ok := live[it.ID]
				if !ok {
					return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown menu item id %d", it.ID))
				}
				row.ID = prev.ID
				row.CreatedAt = prev.CreatedAt
			}
			if err := menu.SaveItem(ctx, &row); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			keepItems = append(keepItems, row.ID)
		}
	}

	if err := menu.DeleteItemsExcept(ctx, keepItems); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err := menu.DeleteCategoriesExcept(ctx, keepCats); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func validateMenuInput(in ReplaceMenuInput) error {
	cats := make([]catalog.Category, 0, len(in.Categories))
	seenIDs := make(map[int64]struct{})
	for _, c := range in.Categories {
		w, err := parseWindow(c.WindowStart, c.WindowEnd)
		if err != nil {
			return fmt.Errorf("category %q: %w", c.Name, err)
		}
		items := make([]catalog.Item, 0, len(c.Items))
		for _, it := range c.Items {
			if it.ID > 0 {
				if _, dup := seenIDs[it.ID]; dup {
					return fmt.Errorf("menu item id %d listed twice", it.ID)
				}
				seenIDs[it.ID] = struct{}{}
			}
			items = append(items, catalog.Item{ID: it.ID, Name: it.Name, Price: catalog.PriceFromPtr(it.Price)})
		}
		cats = append(cats, catalog.Category{Name: c.Name, Window: w, Items: items})
	}
	return catalog.New(time.UTC, cats...).Validate()
}
