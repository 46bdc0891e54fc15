package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/api/routes"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/internal/cart"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/internal/catalog"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/internal/guestcart"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/internal/orders"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/internal/wishlist"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/config"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/db"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/logger"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/metrics"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/migrate"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	defer func() {
		if err := multierr.Combine(dbClient.Close(), redisClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing resources", err)
		}
	}()

	registry := prometheus.NewRegistry()
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)

	cartRepo := cart.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	guestStore := guestcart.NewStore(redisClient, cfg.Cart.GuestTTL, logg)

	cartService, err := cart.NewService(cartRepo, catalogRepo, guestStore, storefrontMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	cartBadge := cart.NewProjector(cartRepo, guestStore)

	ordersRepo := orders.NewRepository(dbClient.DB())
	ordersService, err := orders.NewService(dbClient, ordersRepo, cartRepo, cartService, cfg.Checkout.TaxRatePercent, storefrontMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	wishlistRepo := wishlist.NewRepository(dbClient.DB())
	wishlistService, err := wishlist.NewService(wishlistRepo, catalogRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			Registry:    registry,
			Metrics:     storefrontMetrics,
			CartService: cartService,
			CartBadge:   cartBadge,
			GuestCarts:  guestStore,
			Orders:      ordersService,
			Wishlist:    wishlistService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
