package catalog

import "strings"

var nonVegKeywords = []string{"chicken", "egg", "fish", "mutton", "seekh", "kebab", "non-veg", "omelette"}

func IsVeg(it Item) bool {
	text := strings.ToLower(it.Name + " " + it.Extras)
	for _, k := range nonVegKeywords {
		if strings.Contains(text, k) {
			return false
		}
	}
	return true
}

// VegOnly drops non-vegetarian items. Categories left empty are dropped too.
func VegOnly(c Catalog) Catalog {
	out := make([]Category, 0, len(c.categories))
	for _, cat := range c.categories {
		items := make([]Item, 0, len(cat.Items))
		for _, it := range cat.Items {
			if IsVeg(it) {
				items = append(items, it)
			}
		}
		if len(items) == 0 {
			continue
		}
		out = append(out, Category{Name: cat.Name, Window: cat.Window, Items: items})
	}
	return Catalog{categories: out, loc: c.loc}
}
