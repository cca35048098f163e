package state

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/example/ec-storefront/internal/client"
	"github.com/example/ec-storefront/internal/domain/cart"
	"github.com/example/ec-storefront/internal/domain/catalog"
	"github.com/example/ec-storefront/internal/domain/user"
	"github.com/example/ec-storefront/internal/domain/wishlist"
	"github.com/example/ec-storefront/internal/events"
	"github.com/example/ec-storefront/internal/session"
)

const maxRecentSearches = 5

// Remote is the part of the remote commerce service the manager calls.
// *client.Client implements it.
type Remote interface {
	Login(ctx context.Context, username, password string) (client.AuthResponse, error)
	Signup(ctx context.Context, username, email, password string) (client.AuthResponse, error)
	Logout(ctx context.Context) error
	GetCart(ctx context.Context) ([]cart.Line, error)
	AddToCart(ctx context.Context, productID int64, quantity int) (cart.Line, error)
	GetWishlist(ctx context.Context) ([]wishlist.Entry, error)
	AddToWishlist(ctx context.Context, productID int64) error
}

// Manager owns the cart, the wishlist and the signed-in user, and mediates
// between the guest strategy (in memory) and the authenticated strategy
// (remote-backed). It is safe for concurrent use. Its mutex is never held
// across a remote call.
type Manager struct {
	session   *session.Session
	remote    Remote
	catalog   *catalog.Catalog
	publisher events.Publisher
	logger    logrus.FieldLogger

	mu       sync.RWMutex
	cart     *cart.Cart
	wishlist *wishlist.Wishlist
	recents  []string

	// Sync failures per collection; a successful refresh clears only its own.
	cartSyncErr     error
	wishlistSyncErr error

	// epoch changes on every login, signup and logout. A refresh started in an
	// older epoch is discarded.
	epoch uint64

	cartSeq          atomic.Uint64
	cartApplied      uint64
	cartDiverged     bool
	wishlistSeq      atomic.Uint64
	wishlistApplied  uint64
	wishlistDiverged bool
}

type Config struct {
	Session   *session.Session
	Remote    Remote
	Catalog   *catalog.Catalog
	Publisher events.Publisher
	IDs       cart.IDGenerator
	Logger    logrus.FieldLogger
}

func New(cfg Config) *Manager {
	ids := cfg.IDs
	if ids == nil {
		ids = cart.NewSequenceIDs()
	}
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = events.Nop{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Manager{
		session:   cfg.Session,
		remote:    cfg.Remote,
		catalog:   cfg.Catalog,
		publisher: publisher,
		logger:    logger.WithField("component", "state"),
		cart:      cart.New(ids),
		wishlist:  wishlist.New(ids),
	}
}

// Start hydrates the session. A restored session gets a best-effort refresh of
// its cart and wishlist; failures are published, never returned.
func (m *Manager) Start(ctx context.Context) {
	m.session.Init(ctx)
	if !m.session.Authenticated() {
		m.logger.Debug("starting as guest")
		return
	}
	if err := m.Reconcile(ctx); err != nil {
		m.logger.WithError(err).Warn("initial refresh failed")
	}
}

func (m *Manager) User() (user.User, bool) {
	return m.session.User()
}

func (m *Manager) Authenticated() bool {
	return m.session.Authenticated()
}

// Cart returns a copy of the cart lines.
func (m *Manager) Cart() []cart.Line {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cart.Lines()
}

// Wishlist returns a copy of the wishlist entries.
func (m *Manager) Wishlist() []wishlist.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.wishlist.Entries()
}

func (m *Manager) CartTotal() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cart.Total()
}

func (m *Manager) CartItemCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cart.ItemCount()
}

func (m *Manager) IsInWishlist(productID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.wishlist.Contains(productID)
}

// CartDiverged reports whether local cart edits have not been reconciled with
// the remote cart yet.
func (m *Manager) CartDiverged() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cartDiverged
}

func (m *Manager) WishlistDiverged() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.wishlistDiverged
}

// LastSyncError reports the outstanding remote synchronization failures of the
// cart and the wishlist, joined. A collection's failure is cleared by its next
// successful refresh or a session change.
func (m *Manager) LastSyncError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return errors.Join(m.cartSyncErr, m.wishlistSyncErr)
}

// Reconcile replaces the local cart and wishlist with the remote ones,
// discarding optimistic local edits. It is a no-op for guests.
func (m *Manager) Reconcile(ctx context.Context) error {
	if !m.session.Authenticated() {
		return nil
	}
	return m.refreshAll(ctx, "reconcile")
}

func (m *Manager) refreshAll(ctx context.Context, operation string) error {
	// Independent refreshes: one failing must not cancel the other.
	var g errgroup.Group
	g.Go(func() error { return m.refreshCart(ctx, operation) })
	g.Go(func() error { return m.refreshWishlist(ctx, operation) })
	return g.Wait()
}

// refreshCart fetches the remote cart and installs it unless a newer refresh
// or a session change got there first.
func (m *Manager) refreshCart(ctx context.Context, operation string) error {
	m.mu.RLock()
	epoch := m.epoch
	m.mu.RUnlock()
	ticket := m.cartSeq.Add(1)

	lines, err := m.remote.GetCart(ctx)
	if err != nil {
		m.syncFailed(ctx, events.CollectionCart, operation, err)
		return err
	}

	m.mu.Lock()
	if epoch != m.epoch || ticket <= m.cartApplied {
		m.mu.Unlock()
		m.logger.WithField("ticket", ticket).Debug("dropping stale cart response")
		return nil
	}
	m.cart.Replace(lines)
	m.cartApplied = ticket
	m.cartDiverged = false
	m.cartSyncErr = nil
	count := m.cart.Len()
	m.mu.Unlock()

	e := events.New(events.CartSynced, m.session.UserID())
	e.Collection = events.CollectionCart
	e.Operation = operation
	e.Count = count
	m.publish(ctx, e)
	return nil
}

func (m *Manager) refreshWishlist(ctx context.Context, operation string) error {
	m.mu.RLock()
	epoch := m.epoch
	m.mu.RUnlock()
	ticket := m.wishlistSeq.Add(1)

	entries, err := m.remote.GetWishlist(ctx)
	if err != nil {
		m.syncFailed(ctx, events.CollectionWishlist, operation, err)
		return err
	}

	m.mu.Lock()
	if epoch != m.epoch || ticket <= m.wishlistApplied {
		m.mu.Unlock()
		m.logger.WithField("ticket", ticket).Debug("dropping stale wishlist response")
		return nil
	}
	m.wishlist.Replace(entries)
	m.wishlistApplied = ticket
	m.wishlistDiverged = false
	m.wishlistSyncErr = nil
	count := m.wishlist.Len()
	m.mu.Unlock()

	e := events.New(events.WishlistSynced, m.session.UserID())
	e.Collection = events.CollectionWishlist
	e.Operation = operation
	e.Count = count
	m.publish(ctx, e)
	return nil
}

func (m *Manager) syncFailed(ctx context.Context, collection, operation string, err error) {
	m.mu.Lock()
	switch collection {
	case events.CollectionCart:
		m.cartSyncErr = err
	case events.CollectionWishlist:
		m.wishlistSyncErr = err
	}
	m.mu.Unlock()

	m.logger.WithError(err).WithFields(logrus.Fields{
		"collection": collection,
		"operation":  operation,
	}).Error("remote sync failed")

	e := events.New(events.SyncFailed, m.session.UserID())
	e.Collection = collection
	e.Operation = operation
	e.Error = err.Error()
	m.publish(ctx, e)
}

// publish delivers e without letting a publisher failure affect state.
func (m *Manager) publish(ctx context.Context, e events.Event) {
	if err := m.publisher.Publish(ctx, e); err != nil {
		m.logger.WithError(err).WithField("event", e.Type).Warn("publish event")
	}
}

// resetCollections empties cart and wishlist and starts a new epoch so that
// in-flight refreshes of the previous session are dropped.
func (m *Manager) resetCollections() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.epoch++
	m.cart.Clear()
	m.wishlist.Clear()
	m.cartDiverged = false
	m.wishlistDiverged = false
	m.cartSyncErr = nil
	m.wishlistSyncErr = nil
}
