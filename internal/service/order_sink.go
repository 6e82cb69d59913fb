package service

import (
	"context"
	"fmt"

	"neon-studio/internal/model"
	"neon-studio/internal/repository"

	"github.com/rs/zerolog"
)

// OrderSink receives orders accepted by the intake boundary.
type OrderSink interface {
	Accept(ctx context.Context, order *model.Order) error
}

// logSink records accepted orders in the application log only.
type logSink struct {
	logger zerolog.Logger
}

// NewLogSink creates a sink that only logs orders.
func NewLogSink(logger zerolog.Logger) OrderSink {
	return &logSink{logger: logger.With().Str("component", "order_log").Logger()}
}

func (s *logSink) Accept(_ context.Context, order *model.Order) error {
	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("customer_email", order.Customer.Email).
		Int("item_count", len(order.Items)).
		Str("total_price", order.TotalPrice.StringFixed(2)).
		Msg("order received")
	return nil
}

// journalSink writes orders to PostgreSQL in a single transaction.
type journalSink struct {
	repo   repository.OrderRepository
	logger zerolog.Logger
}

// NewJournalSink creates a sink that persists orders through repo.
func NewJournalSink(repo repository.OrderRepository, logger zerolog.Logger) OrderSink {
	return &journalSink{
		repo:   repo,
		logger: logger.With().Str("component", "order_journal").Logger(),
	}
}

func (s *journalSink) Accept(ctx context.Context, order *model.Order) (err error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to journal order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.repo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return fmt.Errorf("failed to journal order: %w", err)
	}

	if err = s.repo.CreateOrderItems(ctx, tx, order.Items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(order.Items)).
			Msg("failed to create order items")
		return fmt.Errorf("failed to journal order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to journal order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("item_count", len(order.Items)).
		Msg("order journalled")
	return nil
}
