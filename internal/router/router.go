package router

import (
	"net/http"

	"neon-studio/internal/handler"
	"neon-studio/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the API.
type Handlers struct {
	Health    *handler.HealthHandler
	Pricing   *handler.PricingHandler
	Cart      *handler.CartHandler
	Favorites *handler.FavoritesHandler
	Order     *handler.OrderHandler
	Template  *handler.TemplateHandler
	Logo      *handler.LogoHandler
}

// Options controls the optional routes and per-route middleware.
type Options struct {
	// APIKey protects the order lookup route.
	APIKey string
	// OrderLookup registers GET /api/orders/{id}; only meaningful with a journal.
	OrderLookup bool
	// RateLimiter throttles order submission and logo uploads. Nil disables it.
	RateLimiter *middleware.RateLimiter
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	limited := func(next http.HandlerFunc) http.Handler {
		if opts.RateLimiter == nil {
			return next
		}
		return opts.RateLimiter.Middleware(next)
	}

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", h.Health.Health)

	mux.HandleFunc("/api/calculate-price", h.Pricing.Calculate)
	mux.HandleFunc("/api/add-to-cart", h.Cart.AddToCart)
	mux.HandleFunc("/api/get-templates", h.Template.List)
	mux.Handle("/api/submit-order", limited(h.Order.Submit))
	mux.Handle("/api/custom-logo", limited(h.Logo.Submit))

	// Session cart and favourites
	mux.HandleFunc("/api/cart", h.Cart.Cart)
	mux.HandleFunc("/api/cart/items/{id}", h.Cart.Item)
	mux.HandleFunc("/api/favorites", h.Favorites.Collection)
	mux.HandleFunc("/api/favorites/{id}", h.Favorites.Item)

	if opts.OrderLookup {
		mux.Handle("/api/orders/{id}", middleware.APIKeyAuth(opts.APIKey, logger)(http.HandlerFunc(h.Order.GetByID)))
	}

	mux.HandleFunc("/", notFound)

	// Outermost first: RequestID -> Recovery -> Logging -> CORS
	var handler http.Handler = mux
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.RequestID(logger)(handler)

	return handler
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"NOT_FOUND","message":"route not found"}`))
}
