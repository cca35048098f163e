package state

import (
	"context"
	"errors"
	"sync"

	"github.com/example/ec-storefront/internal/client"
	"github.com/example/ec-storefront/internal/domain/cart"
	"github.com/example/ec-storefront/internal/domain/catalog"
	"github.com/example/ec-storefront/internal/domain/user"
	"github.com/example/ec-storefront/internal/domain/wishlist"
)

var (
	errTransport = errors.New("dial tcp: connection refused")
	apiErr401    = client.APIError{StatusCode: 401}
)

// fakeRemote is a scriptable Remote. Cart and wishlist are served from the
// fields as they are at call time.
type fakeRemote struct {
	mu sync.Mutex

	users    map[string]string // username -> password
	user     user.User
	token    string
	loginErr error
	// signupToken is handed out to new accounts.
	signupToken string

	cart     []cart.Line
	wishlist []wishlist.Entry

	getCartErr     error
	addCartErr     error
	getWishlistErr error
	addWishErr     error
	logoutErr      error

	// getCartHook runs before GetCart returns; used to interleave calls.
	getCartHook func(call int)

	addCartCalls    []int64
	addWishCalls    []int64
	getCartCalls    int
	getWishCalls    int
	logoutCalls     int
	nextLineID      int64
	nextWishEntryID int64
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		users:           map[string]string{"ada": "lovelace1"},
		user:            user.User{ID: 42, Username: "ada", Email: "ada@example.com"},
		token:           "token-42",
		signupToken:     "token-new",
		nextLineID:      1000,
		nextWishEntryID: 2000,
	}
}

func (f *fakeRemote) Login(ctx context.Context, username, password string) (client.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loginErr != nil {
		return client.AuthResponse{}, f.loginErr
	}
	if pw, ok := f.users[username]; !ok || pw != password {
		return client.AuthResponse{}, &client.APIError{StatusCode: 401, Message: "Wrong username or password"}
	}
	return client.AuthResponse{Token: f.token, User: f.user}, nil
}

func (f *fakeRemote) Signup(ctx context.Context, username, email, password string) (client.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loginErr != nil {
		return client.AuthResponse{}, f.loginErr
	}
	if _, taken := f.users[username]; taken {
		return client.AuthResponse{}, &client.APIError{StatusCode: 400}
	}
	f.users[username] = password
	return client.AuthResponse{Token: f.signupToken, User: user.User{ID: 77, Username: username, Email: email}}, nil
}

func (f *fakeRemote) Logout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeRemote) GetCart(ctx context.Context) ([]cart.Line, error) {
	f.mu.Lock()
	f.getCartCalls++
	call := f.getCartCalls
	err := f.getCartErr
	out := make([]cart.Line, len(f.cart))
	copy(out, f.cart)
	hook := f.getCartHook
	f.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (f *fakeRemote) AddToCart(ctx context.Context, productID int64, quantity int) (cart.Line, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCartCalls = append(f.addCartCalls, productID)
	if f.addCartErr != nil {
		return cart.Line{}, f.addCartErr
	}
	for i := range f.cart {
		if f.cart[i].Product.ID == productID {
			f.cart[i].Quantity += quantity
			return f.cart[i], nil
		}
	}
	f.nextLineID++
	line := cart.Line{ID: f.nextLineID, Product: demo(productID), Quantity: quantity}
	f.cart = append(f.cart, line)
	return line, nil
}

func (f *fakeRemote) GetWishlist(ctx context.Context) ([]wishlist.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getWishCalls++
	if f.getWishlistErr != nil {
		return nil, f.getWishlistErr
	}
	out := make([]wishlist.Entry, len(f.wishlist))
	copy(out, f.wishlist)
	return out, nil
}

func (f *fakeRemote) AddToWishlist(ctx context.Context, productID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addWishCalls = append(f.addWishCalls, productID)
	if f.addWishErr != nil {
		return f.addWishErr
	}
	for _, e := range f.wishlist {
		if e.Product.ID == productID {
			return nil
		}
	}
	f.nextWishEntryID++
	f.wishlist = append(f.wishlist, wishlist.Entry{ID: f.nextWishEntryID, Product: demo(productID), UserID: f.user.ID})
	return nil
}

func (f *fakeRemote) set(fn func(f *fakeRemote)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

// fakeSource serves a fixed product list.
type fakeSource struct {
	mu       sync.Mutex
	products []catalog.Product
	err      error
	calls    int
}

func (s *fakeSource) GetProducts(ctx context.Context) ([]catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]catalog.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

var demoProducts = []catalog.Product{
	{ID: 1, Title: "Premium Winter Jacket", Price: 45000, Discount: 55000, Description: "Waterproof thermal jacket", Category: "CLOTHES", Likes: 1250, Rating: 5},
	{ID: 2, Title: "Casual Sneakers", Price: 35000, Description: "Comfortable everyday sneakers", Category: "SHOES", Likes: 890, Rating: 4},
	{ID: 3, Title: "Designer Handbag", Price: 65000, Discount: 75000, Description: "Premium leather finish", Category: "ACCESSORIES", Likes: 2100, Rating: 5},
	{ID: 4, Title: "Smart Watch Pro", Price: 85000, Description: "Fitness tracking", Category: "ELECTRONICS", Likes: 3400, Rating: 5},
}

func demo(id int64) catalog.Product {
	for _, p := range demoProducts {
		if p.ID == id {
			return p
		}
	}
	return catalog.Product{ID: id, Title: "unknown", Price: 1}
}

// fixedIDs hands out 1, 2, 3, ...
type fixedIDs struct {
	mu   sync.Mutex
	next int64
}

func (g *fixedIDs) NextID() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return g.next
}
