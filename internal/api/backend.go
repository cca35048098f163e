package api

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/example/ec-storefront/internal/domain/cart"
	"github.com/example/ec-storefront/internal/domain/catalog"
	"github.com/example/ec-storefront/internal/domain/user"
	"github.com/example/ec-storefront/internal/domain/wishlist"
)

var (
	ErrUsernameTaken   = errors.New("username already exists")
	ErrBadCredentials  = errors.New("invalid username or password")
	ErrMissingField    = errors.New("username and password are required")
	ErrInvalidRating   = errors.New("rating must be between 0 and 5")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

const maxRecents = 10

// RecentSearch is a query remembered by the server.
type RecentSearch struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type account struct {
	user         user.User
	passwordHash string
}

// FilterQuery narrows Filter. Zero values are ignored.
type FilterQuery struct {
	Query    string
	Size     string
	Color    string
	MinPrice int64
	MaxPrice int64
	Sort     string
}

// Backend is the in-memory state of the development commerce service.
type Backend struct {
	mu        sync.RWMutex
	products  []catalog.Product
	types     []catalog.ProductType
	accounts  map[string]*account
	carts     map[int64][]cart.Line
	wishlists map[int64][]wishlist.Entry
	recents   []RecentSearch
	nextID    int64
}

func NewBackend(products []catalog.Product, types []catalog.ProductType) *Backend {
	return &Backend{
		products:  products,
		types:     types,
		accounts:  make(map[string]*account),
		carts:     make(map[int64][]cart.Line),
		wishlists: make(map[int64][]wishlist.Entry),
		nextID:    100,
	}
}

func (b *Backend) newID() int64 {
	b.nextID++
	return b.nextID
}

// ============================================
// Accounts
// ============================================

// CreateAccount registers a user with an already hashed password.
func (b *Backend) CreateAccount(username, email, passwordHash string) (user.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, taken := b.accounts[username]; taken {
		return user.User{}, ErrUsernameTaken
	}
	u := user.User{ID: b.newID(), Username: username, Email: email}
	b.accounts[username] = &account{user: u, passwordHash: passwordHash}
	return u, nil
}

// Account returns the user and password hash registered under username.
func (b *Backend) Account(username string) (user.User, string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	a, ok := b.accounts[username]
	if !ok {
		return user.User{}, "", false
	}
	return a.user, a.passwordHash, true
}

// ============================================
// Catalog
// ============================================

func (b *Backend) Products() []catalog.Product {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]catalog.Product, len(b.products))
	copy(out, b.products)
	return out
}

func (b *Backend) Product(id int64) (catalog.Product, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.findProduct(id)
}

func (b *Backend) findProduct(id int64) (catalog.Product, bool) {
	for _, p := range b.products {
		if p.ID == id {
			return p, true
		}
	}
	return catalog.Product{}, false
}

func (b *Backend) Types() []catalog.ProductType {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]catalog.ProductType, len(b.types))
	copy(out, b.types)
	return out
}

// ByType returns the products of a category, ignoring case.
func (b *Backend) ByType(name string) []catalog.Product {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := []catalog.Product{}
	for _, p := range b.products {
		if strings.EqualFold(p.Category, name) {
			out = append(out, p)
		}
	}
	return out
}

func (b *Backend) Search(query string) []catalog.Product {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := []catalog.Product{}
	for _, p := range b.products {
		if p.Matches(query) {
			out = append(out, p)
		}
	}
	return out
}

// Filter applies q and the attribute filters, then sorts by f.Sort:
// "price", "-price", "likes", "-likes" or "rates". Unknown sorts keep catalog order.
func (b *Backend) Filter(f FilterQuery) []catalog.Product {
	b.mu.RLock()
	out := []catalog.Product{}
	for _, p := range b.products {
		switch {
		case f.Query != "" && !p.Matches(f.Query):
		case f.Size != "" && !containsFold(p.Sizes, f.Size):
		case f.Color != "" && !containsFold(p.Color, f.Color):
		case f.MinPrice > 0 && p.Price < f.MinPrice:
		case f.MaxPrice > 0 && p.Price > f.MaxPrice:
		default:
			out = append(out, p)
		}
	}
	b.mu.RUnlock()

	var less func(i, j int) bool
	switch f.Sort {
	case "price":
		less = func(i, j int) bool { return out[i].Price < out[j].Price }
	case "-price":
		less = func(i, j int) bool { return out[i].Price > out[j].Price }
	case "likes":
		less = func(i, j int) bool { return out[i].Likes < out[j].Likes }
	case "-likes":
		less = func(i, j int) bool { return out[i].Likes > out[j].Likes }
	case "rates":
		less = func(i, j int) bool { return out[i].Rating > out[j].Rating }
	}
	if less != nil {
		sort.SliceStable(out, less)
	}
	return out
}

// Autocomplete returns up to limit product titles starting with or containing query.
func (b *Backend) Autocomplete(query string, limit int) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := []string{}
	if strings.TrimSpace(query) == "" {
		return out
	}
	for _, p := range b.products {
		if containsFold(p.Title, query) {
			out = append(out, p.Title)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// Like increments and returns the likes counter.
func (b *Backend) Like(id int64) (int64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.products {
		if b.products[i].ID == id {
			b.products[i].Likes++
			return b.products[i].Likes, true
		}
	}
	return 0, false
}

func (b *Backend) Rate(id int64, rating int) error {
	if rating < 0 || rating > 5 {
		return ErrInvalidRating
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.products {
		if b.products[i].ID == id {
			b.products[i].Rating = rating
			return nil
		}
	}
	return catalog.ErrProductNotFound
}

// ============================================
// Cart and wishlist
// ============================================

func (b *Backend) Cart(userID int64) []cart.Line {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]cart.Line, len(b.carts[userID]))
	copy(out, b.carts[userID])
	return out
}

// AddToCart merges quantity into the user's line for the product.
func (b *Backend) AddToCart(userID, productID int64, quantity int) (cart.Line, error) {
	if quantity < 1 {
		return cart.Line{}, ErrInvalidQuantity
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.findProduct(productID)
	if !ok {
		return cart.Line{}, catalog.ErrProductNotFound
	}
	lines := b.carts[userID]
	for i := range lines {
		if lines[i].Product.ID == productID {
			lines[i].Quantity += quantity
			lines[i].Product = p
			return lines[i], nil
		}
	}
	line := cart.Line{ID: b.newID(), Product: p, Quantity: quantity}
	b.carts[userID] = append(lines, line)
	return line, nil
}

func (b *Backend) Wishlist(userID int64) []wishlist.Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]wishlist.Entry, len(b.wishlists[userID]))
	copy(out, b.wishlists[userID])
	return out
}

// AddToWishlist saves the product once per user.
func (b *Backend) AddToWishlist(userID, productID int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.findProduct(productID)
	if !ok {
		return catalog.ErrProductNotFound
	}
	for _, e := range b.wishlists[userID] {
		if e.Product.ID == productID {
			return nil
		}
	}
	b.wishlists[userID] = append(b.wishlists[userID], wishlist.Entry{ID: b.newID(), Product: p, UserID: userID})
	return nil
}

// ============================================
// Recent searches
// ============================================

func (b *Backend) Recents() []RecentSearch {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]RecentSearch, len(b.recents))
	copy(out, b.recents)
	return out
}

// AddRecent puts query first, dropping an older copy and the oldest overflow.
func (b *Backend) AddRecent(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	recents := []RecentSearch{{ID: b.newID(), Name: query}}
	for _, r := range b.recents {
		if r.Name != query && len(recents) < maxRecents {
			recents = append(recents, r)
		}
	}
	b.recents = recents
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
