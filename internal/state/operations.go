package state

import (
	"context"

	"github.com/example/ec-storefront/internal/domain/cart"
	"github.com/example/ec-storefront/internal/domain/catalog"
	"github.com/example/ec-storefront/internal/domain/wishlist"
)

// AddToCart adds quantity units of p. A quantity below one is rejected with
// cart.ErrInvalidQuantity and nothing changes. For an authenticated session a
// remote failure leaves the cart unchanged and is reported through the event
// publisher and LastSyncError, not returned.
func (m *Manager) AddToCart(ctx context.Context, p catalog.Product, quantity int) error {
	if quantity < 1 {
		return cart.ErrInvalidQuantity
	}
	if p.ID == 0 {
		return cart.ErrInvalidProduct
	}
	store := m.cartStore()
	err := store.Add(ctx, p, quantity)
	if _, remote := store.(*RemoteCartStore); remote {
		return nil
	}
	return err
}

// RemoveFromCart deletes the line with the given id. Unknown ids are ignored.
func (m *Manager) RemoveFromCart(ctx context.Context, lineID int64) {
	_ = m.cartStore().Remove(ctx, lineID)
}

// UpdateCartQuantity sets the line quantity; zero or less removes the line.
func (m *Manager) UpdateCartQuantity(ctx context.Context, lineID int64, quantity int) {
	_ = m.cartStore().SetQuantity(ctx, lineID, quantity)
}

func (m *Manager) ClearCart(ctx context.Context) {
	_ = m.cartStore().Clear(ctx)
}

// AddToWishlist saves p. It never removes an entry; adding a saved product
// again changes nothing locally. Remote failures are handled like AddToCart.
func (m *Manager) AddToWishlist(ctx context.Context, p catalog.Product) error {
	if p.ID == 0 {
		return wishlist.ErrInvalidProduct
	}
	store := m.wishlistStore()
	err := store.Add(ctx, p)
	if _, remote := store.(*RemoteWishlistStore); remote {
		return nil
	}
	return err
}

func (m *Manager) RemoveFromWishlist(ctx context.Context, entryID int64) {
	_ = m.wishlistStore().Remove(ctx, entryID)
}
