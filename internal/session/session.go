package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/example/ec-storefront/internal/domain/user"
	"github.com/example/ec-storefront/internal/infrastructure/store"
)

// Keys under which the session is persisted.
const (
	UserKey  = "user"
	TokenKey = "authToken"
)

// Session holds the signed-in user and token and mirrors them to a KVStore.
// The zero value is not usable; call New.
type Session struct {
	store  store.KVStore
	logger logrus.FieldLogger

	mu    sync.RWMutex
	user  *user.User
	token string
}

func New(kv store.KVStore, logger logrus.FieldLogger) *Session {
	return &Session{
		store:  kv,
		logger: logger.WithField("component", "session"),
	}
}

// Init hydrates the session from the store. The session is authenticated only
// when both the user record and the token are present and the record decodes.
// It never fails: anything else leaves a guest session.
func (s *Session) Init(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user, s.token = nil, ""

	raw, ok, err := s.store.Get(ctx, UserKey)
	if err != nil {
		s.logger.WithError(err).Warn("read persisted user, starting as guest")
		return
	}
	if !ok {
		return
	}
	token, ok, err := s.store.Get(ctx, TokenKey)
	if err != nil {
		s.logger.WithError(err).Warn("read persisted token, starting as guest")
		return
	}
	if !ok || token == "" {
		return
	}

	var u user.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.logger.WithError(err).Warn("persisted user is corrupt, starting as guest")
		return
	}
	s.user = &u
	s.token = token
	s.logger.WithField("user_id", u.ID).Info("session restored")
}

// Begin makes u the signed-in user and persists the record and token together.
// If the token cannot be written the user record is removed again so the pair
// never diverges on disk; the in-memory session is set either way.
func (s *Session) Begin(ctx context.Context, u user.User, token string) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.user = &u
	s.token = token
	s.mu.Unlock()

	if err := s.store.Set(ctx, UserKey, string(raw)); err != nil {
		s.logger.WithError(err).Error("persist user")
		return err
	}
	if err := s.store.Set(ctx, TokenKey, token); err != nil {
		s.logger.WithError(err).Error("persist token")
		if derr := s.store.Delete(ctx, UserKey); derr != nil {
			s.logger.WithError(derr).Warn("roll back persisted user")
		}
		return err
	}
	return nil
}

// Teardown clears the in-memory session and deletes both persisted keys.
// Store errors are logged, not returned.
func (s *Session) Teardown(ctx context.Context) {
	s.mu.Lock()
	s.user, s.token = nil, ""
	s.mu.Unlock()

	for _, key := range []string{UserKey, TokenKey} {
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("delete persisted session key")
		}
	}
}

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.token != ""
}

// User returns a copy of the signed-in user.
func (s *Session) User() (user.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return user.User{}, false
	}
	return *s.user, true
}

// UserID is the signed-in user's id, or 0 for guests.
func (s *Session) UserID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return 0
	}
	return s.user.ID
}

// Token returns the current auth token, empty for guests.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// TokenExpiry reads the exp claim of a JWT token without checking its
// signature. Opaque tokens and tokens without exp report false.
func (s *Session) TokenExpiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
