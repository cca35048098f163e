package state

import (
	"context"

	"github.com/example/ec-storefront/internal/domain/catalog"
	"github.com/example/ec-storefront/internal/events"
)

// CartStore applies cart mutations for one session mode.
type CartStore interface {
	Add(ctx context.Context, p catalog.Product, quantity int) error
	Remove(ctx context.Context, lineID int64) error
	SetQuantity(ctx context.Context, lineID int64, quantity int) error
	Clear(ctx context.Context) error
}

// WishlistStore applies wishlist mutations for one session mode.
type WishlistStore interface {
	Add(ctx context.Context, p catalog.Product) error
	Remove(ctx context.Context, entryID int64) error
}

// cartStore picks the strategy for the current session.
func (m *Manager) cartStore() CartStore {
	if m.session.Authenticated() {
		return &RemoteCartStore{m: m}
	}
	return &LocalCartStore{m: m}
}

func (m *Manager) wishlistStore() WishlistStore {
	if m.session.Authenticated() {
		return &RemoteWishlistStore{m: m}
	}
	return &LocalWishlistStore{m: m}
}

// ============================================
// Guest
// ============================================

// LocalCartStore mutates the in-memory cart only.
type LocalCartStore struct {
	m *Manager
}

func (s *LocalCartStore) Add(_ context.Context, p catalog.Product, quantity int) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	_, err := s.m.cart.Add(p, quantity)
	return err
}

func (s *LocalCartStore) Remove(_ context.Context, lineID int64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.cart.Remove(lineID)
	return nil
}

func (s *LocalCartStore) SetQuantity(_ context.Context, lineID int64, quantity int) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.cart.SetQuantity(lineID, quantity)
	return nil
}

func (s *LocalCartStore) Clear(_ context.Context) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.cart.Clear()
	return nil
}

// LocalWishlistStore mutates the in-memory wishlist only.
type LocalWishlistStore struct {
	m *Manager
}

func (s *LocalWishlistStore) Add(_ context.Context, p catalog.Product) error {
	userID := s.m.session.UserID()
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	_, _, err := s.m.wishlist.Add(p, userID)
	return err
}

func (s *LocalWishlistStore) Remove(_ context.Context, entryID int64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.wishlist.Remove(entryID)
	return nil
}

// ============================================
// Authenticated
// ============================================

// RemoteCartStore sends adds to the remote service and then replaces the local
// cart with the remote one. The remote service has no remove or update
// endpoint, so those edits are applied locally and the cart is marked
// diverged until the next Reconcile.
type RemoteCartStore struct {
	m *Manager
}

func (s *RemoteCartStore) Add(ctx context.Context, p catalog.Product, quantity int) error {
	if _, err := s.m.remote.AddToCart(ctx, p.ID, quantity); err != nil {
		s.m.syncFailed(ctx, events.CollectionCart, "add", err)
		return err
	}
	return s.m.refreshCart(ctx, "add")
}

func (s *RemoteCartStore) Remove(ctx context.Context, lineID int64) error {
	s.m.mu.Lock()
	changed := s.m.cart.Remove(lineID)
	s.m.mu.Unlock()
	if changed {
		s.m.markDiverged(ctx, events.CollectionCart, "remove")
	}
	return nil
}

func (s *RemoteCartStore) SetQuantity(ctx context.Context, lineID int64, quantity int) error {
	s.m.mu.Lock()
	changed := s.m.cart.SetQuantity(lineID, quantity)
	s.m.mu.Unlock()
	if changed {
		s.m.markDiverged(ctx, events.CollectionCart, "update")
	}
	return nil
}

func (s *RemoteCartStore) Clear(ctx context.Context) error {
	s.m.mu.Lock()
	changed := s.m.cart.Len() > 0
	s.m.cart.Clear()
	s.m.mu.Unlock()
	if changed {
		s.m.markDiverged(ctx, events.CollectionCart, "clear")
	}
	return nil
}

// RemoteWishlistStore mirrors RemoteCartStore for the wishlist.
type RemoteWishlistStore struct {
	m *Manager
}

func (s *RemoteWishlistStore) Add(ctx context.Context, p catalog.Product) error {
	if err := s.m.remote.AddToWishlist(ctx, p.ID); err != nil {
		s.m.syncFailed(ctx, events.CollectionWishlist, "add", err)
		return err
	}
	return s.m.refreshWishlist(ctx, "add")
}

func (s *RemoteWishlistStore) Remove(ctx context.Context, entryID int64) error {
	s.m.mu.Lock()
	changed := s.m.wishlist.Remove(entryID)
	s.m.mu.Unlock()
	if changed {
		s.m.markDiverged(ctx, events.CollectionWishlist, "remove")
	}
	return nil
}

// markDiverged flags a collection as edited locally and publishes the first
// transition only.
func (m *Manager) markDiverged(ctx context.Context, collection, operation string) {
	m.mu.Lock()
	var was bool
	switch collection {
	case events.CollectionCart:
		was, m.cartDiverged = m.cartDiverged, true
	case events.CollectionWishlist:
		was, m.wishlistDiverged = m.wishlistDiverged, true
	}
	m.mu.Unlock()
	if was {
		return
	}

	e := events.New(events.Diverged, m.session.UserID())
	e.Collection = collection
	e.Operation = operation
	m.publish(ctx, e)
}
