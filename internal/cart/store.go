// Package cart holds the shopper's in-progress selection. Carts live only
// in process memory for the duration of a session; losing them on restart is
// accepted behavior.
package cart

import (
	"sync"

	"github.com/gofrs/uuid"
)

// Line is a snapshot of a product at add-to-cart time. Name and price are
// copied, not re-validated against the catalog before checkout.
type Line struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Quantity  int       `json:"quantity"`
	ImageURL  string    `json:"image_url"`
	Size      string    `json:"size,omitempty"`
}

type Cart struct {
	mu    sync.Mutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// AddItem merges into an existing line with the same product and size by
// summing quantities; otherwise the line is appended.
func (c *Cart) AddItem(line Line) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == line.ProductID && c.lines[i].Size == line.Size {
			c.lines[i].Quantity += line.Quantity
			return
		}
	}
	c.lines = append(c.lines, line)
}

// UpdateQuantity sets the quantity of every line for the product verbatim.
// Clamping to stock and to a minimum of 1 is the caller's responsibility.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity = quantity
		}
	}
}

// RemoveItem deletes the product's lines; absent products are a no-op.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.lines[:0]
	for _, line := range c.lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	c.lines = kept
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// Subtotal is recomputed on every call from the live lines.
func (c *Cart) Subtotal() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var subtotal int64
	for _, line := range c.lines {
		subtotal += line.Price * int64(line.Quantity)
	}
	return subtotal
}
