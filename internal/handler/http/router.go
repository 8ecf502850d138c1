// Package http wires the storefront API onto a chi router.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ikart/storefront/internal/cart"
	"github.com/ikart/storefront/internal/catalog"
	"github.com/ikart/storefront/internal/session"
	"github.com/ikart/storefront/internal/wishlist"
	"github.com/ikart/storefront/pkg/health"
	"github.com/ikart/storefront/pkg/middleware"
)

// RouterConfig bundles the dependencies of the HTTP surface.
type RouterConfig struct {
	Catalog         *catalog.Catalog
	CartService     *cart.Service
	WishlistService *wishlist.Service
	SessionService  *session.Service
	HealthHandler   *health.Handler
	Logger          *slog.Logger
	RateLimitRPS    int
	RateLimitBurst  int
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(cfg.Logger))
	if cfg.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger))
	}
	r.Use(middleware.CORS)

	// Health check endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	catalogHandler := NewCatalogHandler(cfg.Catalog, cfg.Logger)
	cartHandler := NewCartHandler(cfg.CartService, cfg.Logger)
	wishlistHandler := NewWishlistHandler(cfg.WishlistService, cfg.Logger)
	authHandler := NewAuthHandler(cfg.SessionService, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Catalog endpoints are public.
		r.Get("/products", catalogHandler.ListProducts)
		r.Get("/products/{id}", catalogHandler.GetProduct)
		r.Get("/categories", catalogHandler.ListCategories)

		// Auth endpoints identify themselves by session id, not owner id.
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.SignUp)
			r.Post("/login", authHandler.LogIn)
			r.Post("/logout", authHandler.LogOut)
			r.Get("/me", authHandler.Me)
		})

		// Cart and wishlist state is scoped by the owner id header.
		r.Group(func(r chi.Router) {
			r.Use(OwnerIDFromHeader)

			r.Get("/cart", cartHandler.GetCart)
			r.Delete("/cart", cartHandler.ClearCart)
			r.Get("/cart/summary", cartHandler.GetSummary)
			r.Post("/cart/items", cartHandler.AddItem)
			r.Put("/cart/items/{productId}", cartHandler.SetQuantity)
			r.Delete("/cart/items/{productId}", cartHandler.RemoveItem)

			r.Get("/badges", cartHandler.GetBadges)

			r.Get("/wishlist", wishlistHandler.GetWishlist)
			r.Post("/wishlist/items/{productId}/toggle", wishlistHandler.Toggle)
			r.Post("/wishlist/items/{productId}/move-to-cart", cartHandler.MoveFromWishlist)
		})
	})

	return r
}
