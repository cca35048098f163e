package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type names a state manager event.
type Type string

const (
	LoggedIn       Type = "LoggedIn"
	SignedUp       Type = "SignedUp"
	LoggedOut      Type = "LoggedOut"
	CartSynced     Type = "CartSynced"
	WishlistSynced Type = "WishlistSynced"
	SyncFailed     Type = "SyncFailed"
	Diverged       Type = "Diverged"
)

// Collections a sync event refers to.
const (
	CollectionCart     = "cart"
	CollectionWishlist = "wishlist"
)

// Event is emitted by the state manager after a session change or a remote
// synchronization attempt.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	UserID     int64     `json:"user_id,omitempty"`
	Collection string    `json:"collection,omitempty"`
	Operation  string    `json:"operation,omitempty"`
	Count      int       `json:"count,omitempty"`
	Error      string    `json:"error,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New stamps an event with a fresh id and the current time.
func New(typ Type, userID int64) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers state manager events. Implementations must be safe for
// concurrent use; a failed publish never changes state.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi fans an event out to several publishers and returns the first error.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var first error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil && first == nil {
			first = err
		}
	}
	return first
}
