package cart

import (
	"slices"
	"sync"

	"rnimart-be/internal/catalog"
)

// Line is one product in the cart. Product is the latest known copy of the
// catalog entry; it is refreshed by Sync until checkout.
type Line struct {
	Product catalog.Product `json:"product"`
	Qty     int             `json:"qty"`
}

func (l Line) Subtotal() int64 {
	return int64(l.Qty) * l.Product.Price
}

// Cart holds at most one line per product id and every line has Qty >= 1.
// All operations are total: unknown ids are ignored, quantities clamp at zero.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add increments the product's line by one, or appends it with quantity 1.
// There is no ceiling, not even the product's stock.
func (c *Cart) Add(p catalog.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(p.ID); i >= 0 {
		c.lines[i].Qty++
		c.lines[i].Product = p.Clone()
		return
	}
	c.lines = append(c.lines, Line{Product: p.Clone(), Qty: 1})
}

// UpdateQuantity sets the line to max(0, qty+delta); zero removes it.
func (c *Cart) UpdateQuantity(productID string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(productID)
	if i < 0 {
		return
	}
	qty := max(0, c.lines[i].Qty+delta)
	if qty == 0 {
		c.lines = slices.Delete(c.lines, i, i+1)
		return
	}
	c.lines[i].Qty = qty
}

func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(productID); i >= 0 {
		c.lines = slices.Delete(c.lines, i, i+1)
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

func (c *Cart) TotalCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, l := range c.lines {
		n += l.Qty
	}
	return n
}

func (c *Cart) TotalPrice() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Sync replaces each line's product with the live catalog entry. Lines whose
// product no longer exists keep their last known copy.
func (c *Cart) Sync(lookup func(id string) (catalog.Product, bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, l := range c.lines {
		if p, ok := lookup(l.Product.ID); ok {
			c.lines[i].Product = p.Clone()
		}
	}
}

// Commit hands the current lines to fn and clears the cart only if fn
// succeeds. The cart is locked for the duration, so no line can be added
// between reading and clearing.
func (c *Cart) Commit(fn func(lines []Line) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := fn(c.snapshot()); err != nil {
		return err
	}
	c.lines = nil
	return nil
}

func (c *Cart) snapshot() []Line {
	out := make([]Line, len(c.lines))
	for i, l := range c.lines {
		out[i] = Line{Product: l.Product.Clone(), Qty: l.Qty}
	}
	return out
}

func (c *Cart) index(productID string) int {
	return slices.IndexFunc(c.lines, func(l Line) bool { return l.Product.ID == productID })
}

// View is the cart as shown to the client.
type View struct {
	Lines      []Line `json:"lines"`
	TotalCount int    `json:"total_count"`
	TotalPrice int64  `json:"total_price"`
}

func (c *Cart) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{Lines: c.snapshot()}
	for _, l := range v.Lines {
		v.TotalCount += l.Qty
		v.TotalPrice += l.Subtotal()
	}
	return v
}
