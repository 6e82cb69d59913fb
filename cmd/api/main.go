package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"neon-studio/internal/cart"
	"neon-studio/internal/catalog"
	"neon-studio/internal/config"
	"neon-studio/internal/database"
	"neon-studio/internal/handler"
	"neon-studio/internal/middleware"
	"neon-studio/internal/pricing"
	"neon-studio/internal/repository"
	"neon-studio/internal/router"
	"neon-studio/internal/service"
	"neon-studio/internal/store"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const catalogWatchDebounce = 500 * time.Millisecond

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting neon-studio API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checks := make(map[string]handler.Pinger)

	// Catalog
	registry, err := catalog.NewRegistry(ctx, newCatalogLoader(ctx, cfg, logger), catalog.Files{
		Options:   cfg.Catalog.OptionsFile,
		Templates: cfg.Catalog.TemplatesFile,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	if cfg.Catalog.ReloadSchedule != "" {
		scheduler, err := catalog.NewScheduler(registry, cfg.Catalog.ReloadSchedule, 0, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize catalog scheduler: %w", err)
		}
		scheduler.Start()
		defer scheduler.Stop(context.Background())
	}

	if cfg.Catalog.Watch {
		watcher, err := catalog.NewWatcher(registry, cfg.Catalog.Dir, catalogWatchDebounce, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize catalog watcher: %w", err)
		}
		go func() {
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("catalog watcher stopped")
			}
		}()
	}

	// Session storage shared by carts and favourites
	var (
		storage   store.Storage
		cartCodec cart.Codec = cart.JSONCodec{}
	)
	switch {
	case cfg.Redis.Enabled:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		redisStore := store.NewRedis(client, cfg.Redis.Prefix, cfg.Redis.TTL, logger)
		if err := redisStore.Ping(ctx); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		storage = redisStore
		cartCodec = cart.MsgpackCodec{}
		checks["redis"] = redisStore
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("session carts stored in redis")

	case cfg.Cart.StoreDir != "":
		fileStore, err := store.NewFile(cfg.Cart.StoreDir, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize cart store: %w", err)
		}
		storage = fileStore
		logger.Info().Str("dir", cfg.Cart.StoreDir).Msg("session carts stored on disk")

	default:
		storage = store.NewMemory()
		logger.Info().Msg("session carts stored in memory")
	}

	// Order journal
	sink := service.NewLogSink(logger)
	var orderRepo repository.OrderRepository
	if cfg.Database.Enabled {
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pool.Close()

		if cfg.Database.AutoMigrate {
			if err := database.Migrate(ctx, pool, logger); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
		}

		orderRepo = repository.NewOrderRepository(pool, logger)
		sink = service.NewJournalSink(orderRepo, logger)
		checks["database"] = pool
	} else {
		logger.Info().Msg("order journal disabled, accepted orders are logged only")
	}

	// Initialize services
	pricingService := service.NewPricingService(pricing.NewCalculator(registry), logger)
	cartService := service.NewCartService(storage, logger, cart.WithCodec(cartCodec))
	favoritesService := service.NewFavoritesService(storage, logger, cart.WithCodec(cartCodec))
	orderService := service.NewOrderService(sink, orderRepo, cfg.Checkout.BaseURL, logger, service.WithOrderReceipts(storage))
	templateService := service.NewTemplateService(registry, logger)
	logoService := service.NewLogoService(cfg.Upload.MaxBytes, logger)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Health:    handler.NewHealthHandler(checks, logger),
		Pricing:   handler.NewPricingHandler(pricingService, logger),
		Cart:      handler.NewCartHandler(cartService, logger),
		Favorites: handler.NewFavoritesHandler(favoritesService, logger),
		Order:     handler.NewOrderHandler(orderService, logger),
		Template:  handler.NewTemplateHandler(templateService, logger),
		Logo:      handler.NewLogoHandler(logoService, cfg.Upload.MaxBytes, logger),
	}

	opts := router.Options{
		APIKey:      cfg.Auth.APIKey,
		OrderLookup: orderRepo != nil,
	}
	if cfg.RateLimit.Enabled {
		opts.RateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, logger)
	}

	// Initialize router
	mux := router.New(handlers, opts, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newCatalogLoader picks the local source and, when S3 is enabled, puts the
// bucket in front of it.
func newCatalogLoader(ctx context.Context, cfg *config.Config, logger zerolog.Logger) catalog.Loader {
	local := catalog.NewEmbeddedLoader()
	if cfg.Catalog.Dir != "" {
		local = catalog.NewFileLoader(cfg.Catalog.Dir, logger)
		logger.Info().Str("dir", cfg.Catalog.Dir).Msg("using local catalog directory")
	}

	if !cfg.S3.Enabled {
		return local
	}

	remote, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 loader, falling back to local catalog only")
		return local
	}
	return catalog.NewFallbackLoader(remote, local, cfg.S3.Prefix, true, logger)
}
