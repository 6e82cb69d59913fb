package database

import (
	"context"
	"fmt"
	"time"

	"neon-studio/internal/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// pingAttempts bounds how long startup waits for a journal database that is
// still coming up.
const pingAttempts = 5

type migration struct {
	name string
	stmt string
}

// migrations build the order journal. They run in order inside one
// transaction and every statement is idempotent.
var migrations = []migration{
	{
		name: "orders",
		stmt: `CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			status TEXT NOT NULL,
			customer JSONB NOT NULL,
			premium_options TEXT[] NOT NULL DEFAULT '{}',
			total_price NUMERIC(12,2) NOT NULL CHECK (total_price > 0),
			single_config JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		name: "order_items",
		stmt: `CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			line_id TEXT NOT NULL DEFAULT '',
			config JSONB NOT NULL,
			unit_price NUMERIC(12,2) NOT NULL CHECK (unit_price > 0),
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			premium_options TEXT[] NOT NULL DEFAULT '{}'
		)`,
	},
	{
		name: "order_items_order_id_index",
		stmt: `CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)`,
	},
	{
		name: "orders_created_at_index",
		stmt: `CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at)`,
	},
}

// NewPool opens the journal pool and waits for the database to answer a ping,
// retrying with exponential backoff.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	log := logger.With().Str("component", "database").Str("host", cfg.Host).Str("database", cfg.Database).Logger()
	log.Info().
		Int32("max_conns", poolCfg.MaxConns).
		Int32("min_conns", poolCfg.MinConns).
		Msg("connecting to order journal")

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, pingAttempts-1), ctx)

	err = backoff.RetryNotify(func() error { return pool.Ping(ctx) }, policy, func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("retry_in", wait).Msg("order journal not reachable yet")
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Msg("order journal connected")
	return pool, nil
}

func poolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	pc.MaxConns = int32(cfg.MaxConnections)
	pc.MinConns = int32(cfg.MinConnections)
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	}
	pc.MaxConnIdleTime = 30 * time.Minute
	pc.HealthCheckPeriod = time.Minute
	return pc, nil
}

// Migrate creates the order journal tables and indexes that are missing.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		for _, m := range migrations {
			if _, err := tx.Exec(ctx, m.stmt); err != nil {
				return fmt.Errorf("migration %s: %w", m.name, err)
			}
			logger.Debug().Str("migration", m.name).Msg("applied")
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	logger.Info().Int("migrations", len(migrations)).Msg("order journal schema is up to date")
	return nil
}
