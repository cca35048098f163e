package state

import (
	"context"
	"strings"

	"github.com/example/ec-storefront/internal/domain/catalog"
)

// Products returns the catalog snapshot, fetching it on first use.
func (m *Manager) Products(ctx context.Context) []catalog.Product {
	return m.catalog.Products(ctx)
}

func (m *Manager) ProductsLoading() bool {
	return m.catalog.Loading()
}

// CatalogErr is the last catalog fetch failure.
func (m *Manager) CatalogErr() error {
	return m.catalog.Err()
}

// Product looks up a catalog product. A missing product is reported as false.
func (m *Manager) Product(ctx context.Context, id int64) (catalog.Product, bool) {
	m.catalog.Products(ctx)
	return m.catalog.Find(id)
}

// LikeProduct increments the cached likes counter. Nothing is sent to the
// remote service and the count is lost on restart.
func (m *Manager) LikeProduct(productID int64) bool {
	return m.catalog.Like(productID)
}

// Search matches query against the cached catalog and remembers non-blank
// queries as recent searches.
func (m *Manager) Search(ctx context.Context, query string) []catalog.Product {
	m.catalog.Products(ctx)
	query = strings.TrimSpace(query)
	if query != "" {
		m.rememberSearch(query)
	}
	return m.catalog.Search(query)
}

func (m *Manager) ProductsByCategory(ctx context.Context, category string) []catalog.Product {
	m.catalog.Products(ctx)
	return m.catalog.ByCategory(category)
}

func (m *Manager) Categories(ctx context.Context) []string {
	m.catalog.Products(ctx)
	return m.catalog.Categories()
}

// RecentSearches returns recent queries, most recent first.
func (m *Manager) RecentSearches() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.recents))
	copy(out, m.recents)
	return out
}

func (m *Manager) RemoveRecentSearch(query string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, q := range m.recents {
		if q == query {
			m.recents = append(m.recents[:i], m.recents[i+1:]...)
			return
		}
	}
}

// rememberSearch moves query to the front, keeping at most maxRecentSearches.
func (m *Manager) rememberSearch(query string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recents := make([]string, 0, maxRecentSearches)
	recents = append(recents, query)
	for _, q := range m.recents {
		if q != query && len(recents) < maxRecentSearches {
			recents = append(recents, q)
		}
	}
	m.recents = recents
}
