package cart

import "messapp/internal/domain/catalog"

// Line references a menu item by id. Name is kept only for display.
type Line struct {
	ItemID   int64
	Name     string
	Quantity int64
}

// Cart is a student's in-session cart. At most one line per item id, in insertion order.
// Not safe for concurrent use; a cart belongs to a single session.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add increments the line for item, or appends a new line with quantity 1.
func (c *Cart) Add(item catalog.Item) {
	if i := c.index(item.ID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, Line{ItemID: item.ID, Name: item.Name, Quantity: 1})
}

// Remove deletes the line whatever its quantity.
func (c *Cart) Remove(itemID int64) bool {
	i := c.index(itemID)
	if i < 0 {
		return false
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return true
}

// SetQuantity never removes a line: qty < 1 is ignored.
func (c *Cart) SetQuantity(itemID int64, qty int64) bool {
	if qty < 1 {
		return false
	}
	i := c.index(itemID)
	if i < 0 {
		return false
	}
	c.lines[i].Quantity = qty
	return true
}

func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Quantity(itemID int64) int64 {
	if i := c.index(itemID); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

func (c *Cart) Len() int      { return len(c.lines) }
func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Count is the total number of units, for the cart badge.
func (c *Cart) Count() int64 {
	var n int64
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Clear() {
	c.lines = nil
}

// LineTotal uses the catalog's current price. ok is false when the item has no price
// or is no longer on the menu.
func LineTotal(l Line, cat catalog.Catalog) (int64, bool) {
	it, found := cat.FindItem(l.ItemID)
	if !found || !it.Price.Valid {
		return 0, false
	}
	return it.Price.Amount * l.Quantity, true
}

// Total sums priced lines. Recomputed on every call.
func (c *Cart) Total(cat catalog.Catalog) int64 {
	var total int64
	for _, l := range c.lines {
		if v, ok := LineTotal(l, cat); ok {
			total += v
		}
	}
	return total
}

func (c *Cart) index(itemID int64) int {
	for i, l := range c.lines {
		if l.ItemID == itemID {
			return i
		}
	}
	return -1
}
