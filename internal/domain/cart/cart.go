package cart

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/example/ec-storefront/internal/domain/catalog"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidProduct  = errors.New("product id is required")
)

// Line is one row of the cart. ID is assigned when the line is created and
// differs from the product id.
type Line struct {
	ID        int64           `json:"id"`
	Product   catalog.Product `json:"product"`
	Quantity  int             `json:"quantity"`
	Fulfilled bool            `json:"ordered"`
}

// Subtotal is the line price at the product's current price.
func (l Line) Subtotal() int64 {
	return l.Product.Price * int64(l.Quantity)
}

// IDGenerator hands out ids for locally created lines and entries.
type IDGenerator interface {
	NextID() int64
}

// SequenceIDs is a monotonic IDGenerator seeded with the current Unix time in milliseconds.
type SequenceIDs struct {
	last atomic.Int64
}

func NewSequenceIDs() *SequenceIDs {
	s := &SequenceIDs{}
	s.last.Store(time.Now().UnixMilli())
	return s
}

func (s *SequenceIDs) NextID() int64 {
	return s.last.Add(1)
}

// Cart is an ordered list of lines holding at most one line per product.
// It is not safe for concurrent use; the state manager serializes access.
type Cart struct {
	lines []Line
	ids   IDGenerator
}

func New(ids IDGenerator) *Cart {
	return &Cart{ids: ids}
}

// Add merges quantity into the line for the product, or appends a new line.
func (c *Cart) Add(p catalog.Product, quantity int) (Line, error) {
	if p.ID == 0 {
		return Line{}, ErrInvalidProduct
	}
	if quantity <= 0 {
		return Line{}, ErrInvalidQuantity
	}
	for i := range c.lines {
		if c.lines[i].Product.ID == p.ID {
			c.lines[i].Quantity += quantity
			return c.lines[i], nil
		}
	}
	line := Line{
		ID:       c.ids.NextID(),
		Product:  p,
		Quantity: quantity,
	}
	c.lines = append(c.lines, line)
	return line, nil
}

// Remove deletes the line with the given id. It reports whether a line was removed.
func (c *Cart) Remove(lineID int64) bool {
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return true
		}
	}
	return false
}

// SetQuantity sets the quantity of a line; a quantity of zero or less removes it.
// It reports whether the cart changed.
func (c *Cart) SetQuantity(lineID int64, quantity int) bool {
	if quantity <= 0 {
		return c.Remove(lineID)
	}
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines[i].Quantity = quantity
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Replace discards every line and installs lines. Rows with a quantity below
// one are dropped and repeated products are folded into their first line.
func (c *Cart) Replace(lines []Line) {
	c.lines = c.lines[:0:0]
	index := make(map[int64]int, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if i, dup := index[l.Product.ID]; dup {
			c.lines[i].Quantity += l.Quantity
			continue
		}
		index[l.Product.ID] = len(c.lines)
		c.lines = append(c.lines, l)
	}
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

// Total sums price times quantity over all lines.
func (c *Cart) Total() int64 {
	return Total(c.lines)
}

// ItemCount sums quantities over all lines.
func (c *Cart) ItemCount() int {
	return ItemCount(c.lines)
}

func Total(lines []Line) int64 {
	var total int64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

func ItemCount(lines []Line) int {
	var count int
	for _, l := range lines {
		count += l.Quantity
	}
	return count
}
