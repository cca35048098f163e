package state

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/example/ec-storefront/internal/client"
	"github.com/example/ec-storefront/internal/domain/user"
	"github.com/example/ec-storefront/internal/events"
)

// Messages reported in AuthResult.Error when the remote service gives none.
const (
	MsgNetworkError       = "Network error"
	MsgInvalidCredentials = "Invalid credentials"
	MsgSignupFailed       = "Signup failed"
)

// ErrIncompleteAuth is reported when the remote service accepts credentials but
// returns no token or no user.
var ErrIncompleteAuth = errors.New("auth response missing token or user")

// AuthResult is the outcome of Login or Signup. Error is a message fit to show
// next to the form; it is empty on success.
type AuthResult struct {
	Success bool
	User    user.User
	Error   string
}

// Login authenticates against the remote service. On success the session is
// persisted and the cart and wishlist are replaced by the remote ones; guest
// contents are discarded. On failure nothing changes.
func (m *Manager) Login(ctx context.Context, username, password string) AuthResult {
	resp, err := m.remote.Login(ctx, username, password)
	if err != nil {
		return m.authFailed(err, "login", username, MsgInvalidCredentials)
	}
	if err := validateAuth(resp); err != nil {
		return m.authFailed(err, "login", username, MsgInvalidCredentials)
	}

	m.begin(ctx, resp)
	if err := m.refreshAll(ctx, "login"); err != nil {
		m.logger.WithError(err).Warn("refresh after login failed")
	}
	m.publish(ctx, events.New(events.LoggedIn, resp.User.ID))
	return AuthResult{Success: true, User: resp.User}
}

// Signup creates an account and signs it in. A new account has no remote
// cart or wishlist, so both are reset without a refresh.
func (m *Manager) Signup(ctx context.Context, username, email, password string) AuthResult {
	resp, err := m.remote.Signup(ctx, username, email, password)
	if err != nil {
		return m.authFailed(err, "signup", username, MsgSignupFailed)
	}
	if err := validateAuth(resp); err != nil {
		return m.authFailed(err, "signup", username, MsgSignupFailed)
	}

	m.begin(ctx, resp)
	m.publish(ctx, events.New(events.SignedUp, resp.User.ID))
	return AuthResult{Success: true, User: resp.User}
}

// Logout signs out locally whatever the remote service says. Calling it on a
// guest session clears any residual state.
func (m *Manager) Logout(ctx context.Context) {
	userID := m.session.UserID()
	if err := m.remote.Logout(ctx); err != nil {
		m.logger.WithError(err).Warn("remote logout failed")
	}
	m.session.Teardown(ctx)
	m.resetCollections()
	m.publish(ctx, events.New(events.LoggedOut, userID))
}

func (m *Manager) begin(ctx context.Context, resp client.AuthResponse) {
	if err := m.session.Begin(ctx, resp.User, resp.Token); err != nil {
		m.logger.WithError(err).Warn("session not persisted, it will not survive a restart")
	}
	m.resetCollections()
	m.logger.WithField("user_id", resp.User.ID).Info("signed in")
}

// validateAuth rejects a successful response that carries no usable session.
func validateAuth(resp client.AuthResponse) error {
	if resp.Token == "" || resp.User.ID == 0 {
		return ErrIncompleteAuth
	}
	return nil
}

func (m *Manager) authFailed(err error, operation, username, fallback string) AuthResult {
	msg := MsgNetworkError
	var apiErr *client.APIError
	if errors.Is(err, ErrIncompleteAuth) {
		msg = fallback
	} else if errors.As(err, &apiErr) {
		msg = fallback
		if apiErr.Message != "" {
			msg = apiErr.Message
		}
	}
	m.logger.WithError(err).WithFields(logrus.Fields{
		"operation": operation,
		"username":  username,
	}).Warn("authentication failed")
	return AuthResult{Error: msg}
}
