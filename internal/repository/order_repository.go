package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"neon-studio/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts the order header within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	customer, err := json.Marshal(order.Customer)
	if err != nil {
		return fmt.Errorf("failed to encode customer: %w", err)
	}

	var single []byte
	if order.Config != nil {
		if single, err = json.Marshal(order.Config); err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
	}

	query := `
		INSERT INTO orders (id, status, customer, premium_options, total_price, single_config, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8)
	`

	_, err = tx.Exec(ctx, query,
		order.ID,
		string(order.Status),
		customer,
		nonNil(order.PremiumOptions),
		order.TotalPrice.String(),
		single,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts the line items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, position, line_id, config, unit_price, quantity, premium_options)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8)
	`

	batch := &pgx.Batch{}
	for i, item := range items {
		cfg, err := json.Marshal(item.Config)
		if err != nil {
			return fmt.Errorf("failed to encode item configuration: %w", err)
		}
		batch.Queue(query,
			item.ID,
			item.OrderID,
			i,
			item.LineID,
			cfg,
			item.Price.String(),
			item.Quantity,
			nonNil(item.PremiumOptions),
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Int("position", i).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// GetByID retrieves an order by its ID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	orderQuery := `
		SELECT id, status, customer, premium_options, total_price::text, single_config, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var (
		order    model.Order
		status   string
		customer []byte
		total    string
		single   []byte
	)
	err := r.pool.QueryRow(ctx, orderQuery, id).Scan(
		&order.ID,
		&status,
		&customer,
		&order.PremiumOptions,
		&total,
		&single,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	order.Status = model.OrderStatus(status)
	if err := json.Unmarshal(customer, &order.Customer); err != nil {
		return nil, fmt.Errorf("failed to decode customer: %w", err)
	}
	if order.TotalPrice, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("failed to decode total price: %w", err)
	}
	if single != nil {
		order.Config = &model.Configuration{}
		if err := json.Unmarshal(single, order.Config); err != nil {
			return nil, fmt.Errorf("failed to decode configuration: %w", err)
		}
	}

	items, err := r.getItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

func (r *orderRepository) getItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	itemsQuery := `
		SELECT id, order_id, line_id, config, unit_price::text, quantity, premium_options
		FROM order_items
		WHERE order_id = $1
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, itemsQuery, orderID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}

	items, err := pgx.CollectRows(rows, scanOrderItem)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to read order items")
		return nil, fmt.Errorf("failed to read order items: %w", err)
	}
	return items, nil
}

func scanOrderItem(row pgx.CollectableRow) (model.OrderItem, error) {
	var (
		item  model.OrderItem
		cfg   []byte
		price string
	)
	if err := row.Scan(&item.ID, &item.OrderID, &item.LineID, &cfg, &price, &item.Quantity, &item.PremiumOptions); err != nil {
		return item, err
	}
	if err := json.Unmarshal(cfg, &item.Config); err != nil {
		return item, fmt.Errorf("item configuration: %w", err)
	}
	var err error
	if item.Price, err = decimal.NewFromString(price); err != nil {
		return item, fmt.Errorf("item price: %w", err)
	}
	return item, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
