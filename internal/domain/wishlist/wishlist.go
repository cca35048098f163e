package wishlist

import (
	"errors"

	"github.com/example/ec-storefront/internal/domain/cart"
	"github.com/example/ec-storefront/internal/domain/catalog"
)

var ErrInvalidProduct = errors.New("product id is required")

// Entry is one saved product. UserID is zero for guests.
type Entry struct {
	ID      int64           `json:"id"`
	Product catalog.Product `json:"product"`
	UserID  int64           `json:"user"`
}

// Wishlist holds at most one entry per product, in insertion order.
// It is not safe for concurrent use.
type Wishlist struct {
	entries []Entry
	ids     cart.IDGenerator
}

func New(ids cart.IDGenerator) *Wishlist {
	return &Wishlist{ids: ids}
}

// Add appends an entry for the product unless one exists. It never removes.
// The returned bool is false when the product was already present.
func (w *Wishlist) Add(p catalog.Product, userID int64) (Entry, bool, error) {
	if p.ID == 0 {
		return Entry{}, false, ErrInvalidProduct
	}
	for _, e := range w.entries {
		if e.Product.ID == p.ID {
			return e, false, nil
		}
	}
	e := Entry{ID: w.ids.NextID(), Product: p, UserID: userID}
	w.entries = append(w.entries, e)
	return e, true, nil
}

func (w *Wishlist) Remove(entryID int64) bool {
	for i := range w.entries {
		if w.entries[i].ID == entryID {
			w.entries = append(w.entries[:i], w.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (w *Wishlist) Contains(productID int64) bool {
	for _, e := range w.entries {
		if e.Product.ID == productID {
			return true
		}
	}
	return false
}

// Replace installs entries, keeping the first entry of a repeated product.
func (w *Wishlist) Replace(entries []Entry) {
	w.entries = w.entries[:0:0]
	seen := make(map[int64]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.Product.ID]; dup {
			continue
		}
		seen[e.Product.ID] = struct{}{}
		w.entries = append(w.entries, e)
	}
}

func (w *Wishlist) Clear() {
	w.entries = nil
}

func (w *Wishlist) Entries() []Entry {
	out := make([]Entry, len(w.entries))
	copy(out, w.entries)
	return out
}

func (w *Wishlist) Len() int {
	return len(w.entries)
}
