package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/example/ec-storefront/internal/api/middleware"
	"github.com/example/ec-storefront/internal/auth"
)

// NewRouter maps the commerce contract onto handlers. Paths carry a trailing
// slash; /products/filter/ is registered before /products/{id}/.
func NewRouter(handlers *Handlers, jwtService *auth.JWTService, logger logrus.FieldLogger) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Logging(logger))

	// Catalog
	r.HandleFunc("/products/", handlers.GetProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/filter/", handlers.FilterProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/{id:[0-9]+}/", handlers.GetProduct).Methods(http.MethodGet)
	r.HandleFunc("/types/{name}/", handlers.ProductsByType).Methods(http.MethodGet)
	r.HandleFunc("/ipcontent/", handlers.ProductTypes).Methods(http.MethodGet)
	r.HandleFunc("/search/input/{query}/", handlers.Search).Methods(http.MethodGet)
	r.HandleFunc("/autocomplete/", handlers.Autocomplete).Methods(http.MethodGet)
	r.HandleFunc("/product/like/{id:[0-9]+}/", handlers.LikeProduct).Methods(http.MethodGet)
	r.HandleFunc("/product/rate/", handlers.RateProduct).Methods(http.MethodPost)
	r.HandleFunc("/recents/", handlers.Recents).Methods(http.MethodGet)
	r.HandleFunc("/recent/{query}/", handlers.AddRecent).Methods(http.MethodGet)

	// Auth
	r.HandleFunc("/login/", handlers.Login).Methods(http.MethodPost)
	r.HandleFunc("/signup/", handlers.Signup).Methods(http.MethodPost)

	// Per-user collections
	private := r.NewRoute().Subrouter()
	private.Use(middleware.AuthMiddleware(jwtService))
	private.HandleFunc("/cart/", handlers.GetCart).Methods(http.MethodGet)
	private.HandleFunc("/cart/add/{id:[0-9]+}/", handlers.AddToCart).Methods(http.MethodPost)
	private.HandleFunc("/wishlist/", handlers.GetWishlist).Methods(http.MethodGet)
	private.HandleFunc("/wishlist/add/{id:[0-9]+}/", handlers.AddToWishlist).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondJSONError(w, "Not found", http.StatusNotFound)
	})
	return r
}
