package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultStaleAfter        = 5 * time.Minute
	defaultRevalidateTimeout = 30 * time.Second
	fetchKey                 = "products"
)

// Source loads the full product list from the remote service.
type Source interface {
	GetProducts(ctx context.Context) ([]Product, error)
}

// Catalog caches the product list with a stale-while-revalidate read policy.
// The first read blocks on a fetch; later reads return the cached snapshot and,
// once the snapshot is older than staleAfter, trigger one background refresh.
type Catalog struct {
	source     Source
	staleAfter time.Duration
	logger     logrus.FieldLogger
	now        func() time.Time

	mu        sync.RWMutex
	products  []Product
	fetchedAt time.Time
	loaded    bool
	loading   bool
	err       error

	group singleflight.Group
}

func New(source Source, staleAfter time.Duration, logger logrus.FieldLogger) *Catalog {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &Catalog{
		source:     source,
		staleAfter: staleAfter,
		logger:     logger.WithField("component", "catalog"),
		now:        time.Now,
	}
}

// Products returns the current snapshot, loading it first if nothing was fetched yet.
func (c *Catalog) Products(ctx context.Context) []Product {
	c.mu.RLock()
	loaded := c.loaded
	stale := loaded && c.now().Sub(c.fetchedAt) >= c.staleAfter
	c.mu.RUnlock()

	switch {
	case !loaded:
		_ = c.Refresh(ctx)
	case stale:
		go c.revalidate()
	}
	return c.Snapshot()
}

// Refresh fetches the product list now. Concurrent callers share one request.
func (c *Catalog) Refresh(ctx context.Context) error {
	// The shared fetch outlives any single caller; each caller still stops
	// waiting when its own context ends.
	ch := c.group.DoChan(fetchKey, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.Background(), defaultRevalidateTimeout)
		defer cancel()
		return nil, c.fetch(fetchCtx)
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Catalog) revalidate() {
	ctx, cancel := context.WithTimeout(context.Background(), defaultRevalidateTimeout)
	defer cancel()
	if err := c.Refresh(ctx); err != nil {
		c.logger.WithError(err).Warn("background catalog refresh failed")
	}
}

func (c *Catalog) fetch(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	products, err := c.source.GetProducts(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.err = err
		c.logger.WithError(err).Error("failed to load products")
		return err
	}
	valid := products[:0]
	for i := range products {
		if err := products[i].Validate(); err != nil {
			c.logger.WithError(err).WithField("product_id", products[i].ID).Warn("dropping invalid product")
			continue
		}
		if products[i].Normalize() {
			c.logger.WithField("product_id", products[i].ID).Warn("discount below price, ignoring it")
		}
		valid = append(valid, products[i])
	}
	c.products = valid
	c.fetchedAt = c.now()
	c.loaded = true
	c.err = nil
	return nil
}

// Snapshot returns a copy of the cached products without triggering a fetch.
func (c *Catalog) Snapshot() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Loading reports whether a fetch is in flight.
func (c *Catalog) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Err returns the error of the most recent failed fetch, nil after a successful one.
func (c *Catalog) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Find returns the cached product with the given id.
func (c *Catalog) Find(id int64) (Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Like increments the cached likes counter. Unknown ids are ignored.
func (c *Catalog) Like(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.products {
		if c.products[i].ID == id {
			c.products[i].Likes++
			return true
		}
	}
	return false
}

// Search returns the cached products matching query. A blank query matches everything.
func (c *Catalog) Search(query string) []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Product
	for _, p := range c.products {
		if p.Matches(query) {
			out = append(out, p)
		}
	}
	return out
}

// ByCategory filters the cached products by exact category; AllCategories or "" returns all of them.
func (c *Catalog) ByCategory(category string) []Product {
	if category == "" || category == AllCategories {
		return c.Snapshot()
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Product
	for _, p := range c.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the distinct categories in catalog order.
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, p := range c.products {
		if _, ok := seen[p.Category]; ok || p.Category == "" {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
