package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ec-storefront/internal/auth"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key", 15*time.Minute)
}

func captureClaims(target **auth.Claims) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := GetUserFromContext(r.Context()); ok {
			*target = claims
		}
		w.WriteHeader(http.StatusOK)
	})
}

// ============================================
// Token Extraction Tests
// ============================================

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{name: "token scheme", header: "Token abc", want: "abc"},
		{name: "bearer scheme", header: "Bearer abc", want: "abc"},
		{name: "unknown scheme falls back to cookie", header: "Basic xyz", cookie: "from-cookie", want: "from-cookie"},
		{name: "header wins over cookie", header: "Token abc", cookie: "from-cookie", want: "abc"},
		{name: "nothing", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: tt.cookie})
			}
			assert.Equal(t, tt.want, ExtractToken(req))
		})
	}
}

// ============================================
// Auth Middleware Tests
// ============================================

func TestAuthMiddleware_ValidToken_Header(t *testing.T) {
	jwtService := newTestJWTService()
	token, _, err := jwtService.GenerateToken(123, "alice")
	require.NoError(t, err)

	var captured *auth.Claims
	req := httptest.NewRequest(http.MethodGet, "/cart/", nil)
	req.Header.Set("Authorization", "Token "+token)
	rec := httptest.NewRecorder()

	AuthMiddleware(jwtService)(captureClaims(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, int64(123), captured.UserID)
	assert.Equal(t, "alice", captured.Username)
}

func TestAuthMiddleware_ValidToken_Cookie(t *testing.T) {
	jwtService := newTestJWTService()
	token, _, err := jwtService.GenerateToken(456, "bob")
	require.NoError(t, err)

	var captured *auth.Claims
	req := httptest.NewRequest(http.MethodGet, "/cart/", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	rec := httptest.NewRecorder()

	AuthMiddleware(jwtService)(captureClaims(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, int64(456), captured.UserID)
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	var captured *auth.Claims
	req := httptest.NewRequest(http.MethodGet, "/cart/", nil)
	rec := httptest.NewRecorder()

	AuthMiddleware(newTestJWTService())(captureClaims(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "credentials were not provided")
	assert.Nil(t, captured)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/cart/", nil)
	req.Header.Set("Authorization", "Token invalid-token")
	rec := httptest.NewRecorder()

	var captured *auth.Claims
	AuthMiddleware(newTestJWTService())(captureClaims(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid token")
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", -time.Minute)
	token, _, err := jwtService.GenerateToken(1, "alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/cart/", nil)
	req.Header.Set("Authorization", "Token "+token)
	rec := httptest.NewRecorder()

	var captured *auth.Claims
	AuthMiddleware(jwtService)(captureClaims(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_WrongSignature(t *testing.T) {
	token, _, err := auth.NewJWTService("secret-1", time.Minute).GenerateToken(1, "alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/cart/", nil)
	req.Header.Set("Authorization", "Token "+token)
	rec := httptest.NewRecorder()

	var captured *auth.Claims
	AuthMiddleware(auth.NewJWTService("secret-2", time.Minute))(captureClaims(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, captured)
}

// ============================================
// Optional Auth Middleware Tests
// ============================================

func TestOptionalAuthMiddleware_ValidToken(t *testing.T) {
	jwtService := newTestJWTService()
	token, _, _ := jwtService.GenerateToken(7, "carol")

	var captured *auth.Claims
	req := httptest.NewRequest(http.MethodGet, "/products/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	OptionalAuthMiddleware(jwtService)(captureClaims(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, int64(7), captured.UserID)
}

func TestOptionalAuthMiddleware_InvalidTokenIgnored(t *testing.T) {
	var captured *auth.Claims
	req := httptest.NewRequest(http.MethodGet, "/products/", nil)
	req.Header.Set("Authorization", "Token invalid-token")
	rec := httptest.NewRecorder()

	OptionalAuthMiddleware(newTestJWTService())(captureClaims(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, captured)
}

// ============================================
// Helper Functions Tests
// ============================================

func TestGetUserID(t *testing.T) {
	ctx := context.WithValue(context.Background(), UserContextKey, &auth.Claims{UserID: 42})
	assert.Equal(t, int64(42), GetUserID(ctx))
	assert.Zero(t, GetUserID(context.Background()))
}

// ============================================
// Logging Middleware Tests
// ============================================

func TestLogging_RecordsStatusAndRequestID(t *testing.T) {
	logger, hook := test.NewNullLogger()
	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/products/", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-1", rec.Header().Get(RequestIDHeader))
	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, http.StatusTeapot, entry.Data["status"])
	assert.Equal(t, "req-1", entry.Data["request_id"])
	assert.Equal(t, "/products/", entry.Data["path"])
}

func TestLogging_GeneratesRequestID(t *testing.T) {
	logger, _ := test.NewNullLogger()
	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}
