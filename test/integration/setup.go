package integration

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"neon-studio/internal/cart"
	"neon-studio/internal/catalog"
	"neon-studio/internal/database"
	"neon-studio/internal/handler"
	"neon-studio/internal/middleware"
	"neon-studio/internal/pricing"
	"neon-studio/internal/repository"
	"neon-studio/internal/router"
	"neon-studio/internal/service"
	"neon-studio/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testAPIKey      = "test-api-key"
	testRedisPrefix = "neon:"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container with the journal schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// CleanupDB cleans all data from the journal tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_items", "orders"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

// SetupRedis starts an in-process redis server and returns a session store on it.
func SetupRedis(t *testing.T, ttl time.Duration) (*store.Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return store.NewRedis(client, testRedisPrefix, ttl, zerolog.Nop()), mr
}

// ServerOptions selects the backing stores of a test server.
type ServerOptions struct {
	Storage     store.Storage
	Pool        *pgxpool.Pool
	RateLimiter *middleware.RateLimiter
}

// NewTestServer wires the API the way the binary does and serves it over HTTP.
func NewTestServer(t *testing.T, opts ServerOptions) *httptest.Server {
	t.Helper()

	logger := zerolog.Nop()
	ctx := context.Background()

	registry, err := catalog.NewRegistry(ctx, catalog.NewEmbeddedLoader(), catalog.DefaultFiles(), logger)
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	checks := map[string]handler.Pinger{}
	sink := service.NewLogSink(logger)
	var orderRepo repository.OrderRepository
	if opts.Pool != nil {
		orderRepo = repository.NewOrderRepository(opts.Pool, logger)
		sink = service.NewJournalSink(orderRepo, logger)
		checks["database"] = opts.Pool
	}

	codec := cart.WithCodec(cart.MsgpackCodec{})
	var receipts []service.OrderOption
	if opts.Storage != nil {
		receipts = append(receipts, service.WithOrderReceipts(opts.Storage))
	}
	orders := service.NewOrderService(sink, orderRepo, "https://shop.example", logger, receipts...)

	h := router.New(router.Handlers{
		Health:    handler.NewHealthHandler(checks, logger),
		Pricing:   handler.NewPricingHandler(service.NewPricingService(pricing.NewCalculator(registry), logger), logger),
		Cart:      handler.NewCartHandler(service.NewCartService(opts.Storage, logger, codec), logger),
		Favorites: handler.NewFavoritesHandler(service.NewFavoritesService(opts.Storage, logger, codec), logger),
		Order:     handler.NewOrderHandler(orders, logger),
		Template:  handler.NewTemplateHandler(service.NewTemplateService(registry, logger), logger),
		Logo:      handler.NewLogoHandler(service.NewLogoService(2<<20, logger), 2<<20, logger),
	}, router.Options{
		APIKey:      testAPIKey,
		OrderLookup: orderRepo != nil,
		RateLimiter: opts.RateLimiter,
	}, logger)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("invalid uuid %q: %v", s, err)
	}
	return id
}
