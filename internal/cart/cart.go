// Package cart models the diner's pre-submission cart as a value type with
// pure update functions. Lines merge by (item id, notes), so the same dish
// with different kitchen notes stays on separate lines.
package cart

import (
	"github.com/minseo-dev/qr-orders/internal/orders"
)

type Item struct {
	ID         string
	Name       string
	PriceCents int64
}

type Line struct {
	ID         string // item id, or item id + "::" + notes
	ItemID     string
	Name       string
	PriceCents int64
	Quantity   int
	Notes      string
}

type Cart struct {
	Lines []Line
}

// LineID builds the merge key for an item and its notes.
func LineID(itemID, notes string) string {
	if notes == "" {
		return itemID
	}
	return itemID + "::" + notes
}

// Add merges qty into an existing matching line or appends a new one.
// A non-positive qty leaves the cart unchanged.
func (c Cart) Add(it Item, qty int, notes string) Cart {
	if qty <= 0 {
		return c
	}
	id := LineID(it.ID, notes)
	lines := cloneLines(c.Lines)
	for i := range lines {
		if lines[i].ID == id {
			lines[i].Quantity += qty
			return Cart{Lines: lines}
		}
	}
	lines = append(lines, Line{
		ID:         id,
		ItemID:     it.ID,
		Name:       it.Name,
		PriceCents: it.PriceCents,
		Quantity:   qty,
		Notes:      notes,
	})
	return Cart{Lines: lines}
}

func (c Cart) Increment(lineID string) Cart {
	lines := cloneLines(c.Lines)
	for i := range lines {
		if lines[i].ID == lineID {
			lines[i].Quantity++
		}
	}
	return Cart{Lines: lines}
}

// Decrement lowers the line's quantity by one and drops the line at zero.
func (c Cart) Decrement(lineID string) Cart {
	out := make([]Line, 0, len(c.Lines))
	for _, l := range c.Lines {
		if l.ID == lineID {
			l.Quantity--
			if l.Quantity <= 0 {
				continue
			}
		}
		out = append(out, l)
	}
	return Cart{Lines: out}
}

func (c Cart) Remove(lineID string) Cart {
	out := make([]Line, 0, len(c.Lines))
	for _, l := range c.Lines {
		if l.ID != lineID {
			out = append(out, l)
		}
	}
	return Cart{Lines: out}
}

func (c Cart) Clear() Cart { return Cart{} }

func (c Cart) SubtotalCents() int64 {
	var sum int64
	for _, l := range c.Lines {
		sum += l.PriceCents * int64(l.Quantity)
	}
	return sum
}

func (c Cart) TotalQuantity() int {
	var n int
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Items converts the cart into order line items for a single submission.
func (c Cart) Items() []orders.OrderItem {
	out := make([]orders.OrderItem, 0, len(c.Lines))
	for _, l := range c.Lines {
		out = append(out, orders.OrderItem{
			ID:       l.ItemID,
			Name:     l.Name,
			Price:    l.PriceCents,
			Quantity: l.Quantity,
			Notes:    l.Notes,
		})
	}
	return out
}

func cloneLines(in []Line) []Line {
	out := make([]Line, len(in))
	copy(out, in)
	return out
}
