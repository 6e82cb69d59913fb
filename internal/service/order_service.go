package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"neon-studio/internal/model"
	"neon-studio/internal/repository"
	"neon-studio/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const orderMessage = "Order received. Complete payment to confirm production."

// orderService implements OrderService.
type orderService struct {
	sink           OrderSink
	orderRepo      repository.OrderRepository
	paymentBaseURL string
	receipts       store.Storage
	locks          sessionLocks
	now            func() time.Time
	logger         zerolog.Logger
}

// OrderOption configures the order service.
type OrderOption func(*orderService)

// WithOrderReceipts remembers each acknowledgment under its request reference
// so a retried submission is answered without placing the order twice.
func WithOrderReceipts(receipts store.Storage) OrderOption {
	return func(s *orderService) { s.receipts = receipts }
}

// OrderReceiptKey is the storage key of the acknowledgment for reference.
func OrderReceiptKey(reference string) string {
	return "order-ref:" + reference
}

// NewOrderService creates a new order service. orderRepo may be nil when no
// journal is configured; GetByID then reports every order as not found.
func NewOrderService(
	sink OrderSink,
	orderRepo repository.OrderRepository,
	paymentBaseURL string,
	logger zerolog.Logger,
	opts ...OrderOption,
) OrderService {
	s := &orderService{
		sink:           sink,
		orderRepo:      orderRepo,
		paymentBaseURL: strings.TrimRight(paymentBaseURL, "/"),
		now:            time.Now,
		logger:         logger.With().Str("service", "order").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates the request, assigns an id and hands the order to the sink.
// Totals are taken from the client as-is. A reference that was already
// answered gets the stored acknowledgment back.
func (s *orderService) Submit(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}

	if req.Reference == "" || s.receipts == nil {
		return s.place(ctx, req)
	}

	unlock := s.locks.lock(req.Reference)
	defer unlock()

	if prior, err := s.receipt(ctx, req.Reference); err != nil {
		return nil, err
	} else if prior != nil {
		s.logger.Info().
			Str("reference", req.Reference).
			Str("order_id", prior.Order.ID.String()).
			Msg("duplicate submission answered from receipt")
		return prior, nil
	}

	resp, err := s.place(ctx, req)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(resp)
	if err == nil {
		err = s.receipts.Save(ctx, OrderReceiptKey(req.Reference), data)
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("reference", req.Reference).Msg("failed to store order receipt")
	}
	return resp, nil
}

func (s *orderService) receipt(ctx context.Context, reference string) (*model.OrderResponse, error) {
	data, err := s.receipts.Load(ctx, OrderReceiptKey(reference))
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load order receipt: %w", err)
	}

	var resp model.OrderResponse
	if err := json.Unmarshal(data, &resp); err != nil || resp.Order == nil {
		s.logger.Warn().Err(err).Str("reference", reference).Msg("discarding unreadable order receipt")
		return nil, nil
	}
	return &resp, nil
}

// place assigns an id and hands the order to the sink.
func (s *orderService) place(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	now := s.now().UTC()
	order := &model.Order{
		ID:             uuid.New(),
		Customer:       *req.Customer,
		PremiumOptions: append([]string(nil), req.PremiumOptions...),
		TotalPrice:     req.TotalPrice,
		Status:         model.OrderStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if req.Config != nil {
		cfg := req.Config.Clone()
		order.Config = &cfg
	}

	subtotal := decimal.Zero
	order.Items = make([]model.OrderItem, len(req.Items))
	for i, item := range req.Items {
		order.Items[i] = model.OrderItem{
			ID:             uuid.New(),
			OrderID:        order.ID,
			LineID:         item.ID,
			Config:         item.Config.Clone(),
			Price:          item.Price,
			Quantity:       item.Quantity,
			PremiumOptions: append([]string(nil), item.PremiumOptions...),
		}
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	if len(order.Items) > 0 && !subtotal.Equal(order.TotalPrice) {
		s.logger.Warn().
			Str("order_id", order.ID.String()).
			Str("total_price", order.TotalPrice.String()).
			Str("item_subtotal", subtotal.String()).
			Msg("order total differs from item subtotal")
	}

	if err := s.sink.Accept(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to submit order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("item_count", len(order.Items)).
		Msg("order submitted successfully")

	return &model.OrderResponse{
		Success:    true,
		Order:      order,
		PaymentURL: s.paymentBaseURL + "/checkout/pay/" + order.ID.String(),
		Message:    orderMessage,
	}, nil
}

// GetByID retrieves a journalled order with its items.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	if s.orderRepo == nil {
		return nil, model.ErrOrderNotFound
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

// validateOrderRequest normalises the configurations in req and checks the
// remaining fields.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "order request is required")
	}

	if len(req.Items) == 0 && req.Config == nil {
		return model.NewDomainError(model.ErrCodeMissingField, "either items or config is required")
	}

	if len(req.Items) > model.MaxCartItems {
		return model.NewDomainError(model.ErrCodeLimitExceeded, fmt.Sprintf("an order holds at most %d items", model.MaxCartItems))
	}

	for i := range req.Items {
		item := &req.Items[i]
		if err := normalizeConfig(fmt.Sprintf("items[%d].config", i), item.Config); err != nil {
			return err
		}

		if err := model.CheckAmount(fmt.Sprintf("items[%d].price", i), item.Price); err != nil {
			return err
		}

		if err := model.CheckQuantity(fmt.Sprintf("items[%d].quantity", i), item.Quantity); err != nil {
			s.logger.Warn().
				Int("item_index", i).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return err
		}
	}

	if req.Config != nil {
		if err := normalizeConfig("config", req.Config); err != nil {
			return err
		}
	}

	if req.Reference != "" && !sessionIDPattern.MatchString(req.Reference) {
		return model.NewDomainError(model.ErrCodeInvalidField, "reference must be 1-128 letters, digits, '-' or '_'")
	}

	if req.Customer == nil {
		return model.NewDomainError(model.ErrCodeMissingField, "customerInfo is required")
	}
	req.Customer.Name = strings.TrimSpace(req.Customer.Name)
	req.Customer.Email = strings.TrimSpace(req.Customer.Email)
	if err := validateStruct("customerInfo", req.Customer); err != nil {
		return err
	}

	if err := model.CheckAmount("totalPrice", req.TotalPrice); err != nil {
		return err
	}

	return nil
}
