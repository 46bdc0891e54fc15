package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/api/controllers"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/api/middleware"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/internal/cart"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/internal/guestcart"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/internal/orders"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/internal/wishlist"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/config"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/db"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/logger"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/metrics"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/redis"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	Registry    *prometheus.Registry
	Metrics     *metrics.StorefrontMetrics
	CartService cart.Service
	CartBadge   *cart.Projector
	GuestCarts  *guestcart.Store
	Orders      orders.Service
	Wishlist    wishlist.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	// Badge count and guest cart sync serve shoppers with or without an
	// account; identity is resolved when present, never demanded.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity(cfg.JWT, logg))
		r.Get("/api/v1/cart/count", controllers.CartCount(deps.CartBadge, logg))
		r.Put("/api/v1/guest-cart", controllers.GuestCartSave(deps.GuestCarts, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.CartService, cfg.Checkout.TaxRatePercent, logg))
			r.Delete("/", controllers.CartClear(deps.CartService, logg))
			r.Post("/items", controllers.CartAddItem(deps.CartService, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItem(deps.CartService, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(deps.CartService, logg))
			r.Post("/merge", controllers.CartMerge(deps.CartService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(deps.Orders, logg))
			r.Get("/", controllers.OrderList(deps.Orders, logg))
			r.Get("/{orderId}", controllers.OrderGet(deps.Orders, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistList(deps.Wishlist, logg))
			r.Post("/", controllers.WishlistAdd(deps.Wishlist, logg))
			r.Delete("/{productId}", controllers.WishlistRemove(deps.Wishlist, logg))
			r.Get("/{productId}/contains", controllers.WishlistContains(deps.Wishlist, logg))
		})

		r.Route("/admin/orders", func(r chi.Router) {
			r.Patch("/{orderId}/status", controllers.AdminOrderUpdateStatus(deps.Orders, logg))
			r.Patch("/{orderId}/payment-status", controllers.AdminOrderUpdatePaymentStatus(deps.Orders, logg))
		})
	})

	return r
}
