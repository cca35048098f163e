package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/example/ec-storefront/internal/api/middleware"
	"github.com/example/ec-storefront/internal/auth"
	"github.com/example/ec-storefront/internal/domain/catalog"
	"github.com/example/ec-storefront/internal/domain/user"
)

const autocompleteLimit = 8

// Handlers serves the commerce HTTP contract on top of a Backend.
type Handlers struct {
	backend *Backend
	jwt     *auth.JWTService
	hasher  *auth.PasswordHasher
	logger  logrus.FieldLogger
}

func NewHandlers(backend *Backend, jwt *auth.JWTService, hasher *auth.PasswordHasher, logger logrus.FieldLogger) *Handlers {
	return &Handlers{
		backend: backend,
		jwt:     jwt,
		hasher:  hasher,
		logger:  logger.WithField("component", "api"),
	}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupRequest represents the signup request body
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the session token and the account.
type AuthResponse struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

type addToCartRequest struct {
	Quantity int `json:"quantity"`
}

// ============================================
// Products
// ============================================

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.backend.Products())
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	product, found := h.backend.Product(id)
	if !found {
		respondJSONError(w, "Product not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// FilterProducts answers with the product list encoded as a JSON string.
func (h *Handlers) FilterProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := FilterQuery{
		Query: q.Get("q"),
		Size:  q.Get("size"),
		Color: q.Get("color"),
		Sort:  q.Get("sort"),
	}
	f.MinPrice, _ = strconv.ParseInt(q.Get("min_price"), 10, 64)
	f.MaxPrice, _ = strconv.ParseInt(q.Get("max_price"), 10, 64)
	respondWrappedJSON(w, h.backend.Filter(f))
}

func (h *Handlers) ProductsByType(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.backend.ByType(mux.Vars(r)["name"]))
}

func (h *Handlers) ProductTypes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.backend.Types())
}

func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.backend.Search(mux.Vars(r)["query"]))
}

func (h *Handlers) Autocomplete(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.backend.Autocomplete(r.URL.Query().Get("q"), autocompleteLimit))
}

func (h *Handlers) LikeProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	likes, found := h.backend.Like(id)
	if !found {
		respondJSONError(w, "Product not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"likes": likes})
}

// RateProduct reads the form fields "id" and "rates".
func (h *Handlers) RateProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondJSONError(w, "Invalid form body", http.StatusBadRequest)
		return
	}
	id, err := strconv.ParseInt(r.PostForm.Get("id"), 10, 64)
	if err != nil {
		respondJSONError(w, "Invalid product id", http.StatusBadRequest)
		return
	}
	rating, err := strconv.Atoi(r.PostForm.Get("rates"))
	if err != nil {
		respondJSONError(w, "Invalid rating", http.StatusBadRequest)
		return
	}

	switch err := h.backend.Rate(id, rating); {
	case errors.Is(err, catalog.ErrProductNotFound):
		respondJSONError(w, "Product not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidRating):
		respondJSONError(w, err.Error(), http.StatusBadRequest)
	case err != nil:
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
	default:
		respondJSON(w, http.StatusOK, map[string]string{"message": "Rating saved"})
	}
}

// ============================================
// Recent searches
// ============================================

// Recents answers with the remembered searches encoded as a JSON string.
func (h *Handlers) Recents(w http.ResponseWriter, r *http.Request) {
	respondWrappedJSON(w, h.backend.Recents())
}

func (h *Handlers) AddRecent(w http.ResponseWriter, r *http.Request) {
	h.backend.AddRecent(mux.Vars(r)["query"])
	respondJSON(w, http.StatusOK, map[string]string{"message": "Search saved"})
}

// ============================================
// Auth
// ============================================

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	u, hash, found := h.backend.Account(req.Username)
	if !found || !h.hasher.Check(req.Password, hash) {
		h.logger.WithField("username", req.Username).Info("login rejected")
		respondJSONError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	h.issueToken(w, http.StatusOK, u)
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		respondJSONError(w, ErrMissingField.Error(), http.StatusBadRequest)
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			respondJSONError(w, "Password must be at least 8 characters", http.StatusBadRequest)
			return
		}
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	u, err := h.backend.CreateAccount(strings.TrimSpace(req.Username), req.Email, hash)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			respondJSONError(w, "Username already exists", http.StatusConflict)
			return
		}
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.logger.WithField("user_id", u.ID).Info("account created")
	h.issueToken(w, http.StatusCreated, u)
}

func (h *Handlers) issueToken(w http.ResponseWriter, status int, u user.User) {
	token, _, err := h.jwt.GenerateToken(u.ID, u.Username)
	if err != nil {
		h.logger.WithError(err).Error("failed to sign token")
		respondJSONError(w, "Failed to issue token", http.StatusInternalServerError)
		return
	}
	respondJSON(w, status, AuthResponse{Token: token, User: u})
}

// ============================================
// Cart and wishlist
// ============================================

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.backend.Cart(middleware.GetUserID(r.Context())))
}

// AddToCart adds one unit unless the body names a quantity.
func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req := addToCartRequest{Quantity: 1}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	line, err := h.backend.AddToCart(middleware.GetUserID(r.Context()), id, req.Quantity)
	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		respondJSONError(w, "Product not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidQuantity):
		respondJSONError(w, err.Error(), http.StatusBadRequest)
	case err != nil:
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
	default:
		respondJSON(w, http.StatusOK, line)
	}
}

func (h *Handlers) GetWishlist(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.backend.Wishlist(middleware.GetUserID(r.Context())))
}

func (h *Handlers) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.backend.AddToWishlist(middleware.GetUserID(r.Context()), id); err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondJSONError(w, "Product not found", http.StatusNotFound)
			return
		}
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Added to wishlist"})
}

// ============================================
// Helpers
// ============================================

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondWrappedJSON encodes data and then encodes the result again as a JSON string.
func respondWrappedJSON(w http.ResponseWriter, data any) {
	inner, err := json.Marshal(data)
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, string(inner))
}

// respondJSONError writes a JSON error response
func respondJSONError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		respondJSONError(w, "Invalid product id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
