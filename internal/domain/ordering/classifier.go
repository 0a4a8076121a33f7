package ordering

import (
	"time"

	"messapp/internal/domain/cart"
	"messapp/internal/domain/catalog"
)

type Classification struct {
	IsPreorder bool
	// set only when IsPreorder
	Category string
}

// Classify decides between an immediate order and a pre-order.
// Any line whose category window has not started at now makes the whole order a pre-order,
// filed under the first line's category. Lines whose item is no longer on the menu are skipped.
func Classify(lines []cart.Line, cat catalog.Catalog, now time.Time) Classification {
	local := now.In(cat.Location())

	pre := false
	for _, l := range lines {
		c, ok := cat.FindCategoryOf(l.ItemID)
		if !ok {
			continue
		}
		if c.Window.NotStarted(local) {
			pre = true
			break
		}
	}
	if !pre {
		return Classification{}
	}

	out := Classification{IsPreorder: true}
	if len(lines) > 0 {
		if c, ok := cat.FindCategoryOf(lines[0].ItemID); ok {
			out.Category = c.Name
		}
	}
	return out
}
