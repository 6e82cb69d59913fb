package service

import (
	"context"
	"errors"
	"time"

	"neon-studio/internal/cart"
	"neon-studio/internal/model"
	"neon-studio/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const addedMessage = "Item added to cart"

// cartService implements CartService.
type cartService struct {
	storage store.Storage
	opts    []cart.Option
	locks   *sessionLocks
	now     func() time.Time
	logger  zerolog.Logger
}

// NewCartService creates a cart service backed by storage. A nil storage keeps
// add-to-cart as a stateless acknowledgement and disables session carts.
func NewCartService(storage store.Storage, logger zerolog.Logger, opts ...cart.Option) CartService {
	return &cartService{
		storage: storage,
		opts:    opts,
		locks:   &sessionLocks{},
		now:     time.Now,
		logger:  logger.With().Str("service", "cart").Logger(),
	}
}

// AddToCart validates the item. Without a session id the item is echoed back and
// the client keeps it in its own cart.
func (s *cartService) AddToCart(ctx context.Context, sessionID string, req *model.AddToCartRequest) (*model.AddToCartResponse, error) {
	if req == nil || req.Config == nil {
		return nil, model.ErrMissingConfig
	}

	cfg := req.Config.Clone()
	if err := normalizeConfig("config", &cfg); err != nil {
		return nil, err
	}

	if !req.Price.IsPositive() {
		return nil, model.ErrInvalidPrice
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}
	if err := model.CheckAmount("price", req.Price); err != nil {
		return nil, err
	}
	if err := model.CheckQuantity("quantity", quantity); err != nil {
		return nil, err
	}

	if sessionID == "" || s.storage == nil {
		item := model.LineItem{
			ID:             uuid.NewString(),
			Config:         cfg,
			Price:          req.Price,
			Quantity:       quantity,
			PremiumOptions: append([]string(nil), req.PremiumOptions...),
			AddedAt:        s.now().UTC(),
		}
		return &model.AddToCartResponse{Success: true, Item: &item, Message: addedMessage}, nil
	}

	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	item, err := c.AddItemQuantity(ctx, cfg, req.Price, req.PremiumOptions, quantity)
	if err != nil {
		if _, ok := model.AsDomainError(err); !ok {
			s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to add cart item")
		}
		return nil, err
	}

	s.logger.Debug().
		Str("session_id", sessionID).
		Str("item_id", item.ID).
		Int("quantity", quantity).
		Msg("item added to session cart")

	return &model.AddToCartResponse{Success: true, Item: &item, Message: addedMessage}, nil
}

// GetCart returns the session cart.
func (s *cartService) GetCart(ctx context.Context, sessionID string) (*model.CartResponse, error) {
	if err := s.checkSession(sessionID); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return c.Snapshot(), nil
}

// UpdateQuantity changes one item's quantity. A quantity of zero or less removes it.
func (s *cartService) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*model.CartResponse, error) {
	return s.mutate(ctx, sessionID, itemID, func(c *cart.Cart) error {
		return c.UpdateQuantity(ctx, itemID, quantity)
	})
}

// RemoveItem deletes one item from the session cart.
func (s *cartService) RemoveItem(ctx context.Context, sessionID, itemID string) (*model.CartResponse, error) {
	return s.mutate(ctx, sessionID, itemID, func(c *cart.Cart) error {
		return c.RemoveItem(ctx, itemID)
	})
}

// ClearCart empties the session cart.
func (s *cartService) ClearCart(ctx context.Context, sessionID string) error {
	if err := s.checkSession(sessionID); err != nil {
		return err
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := c.Clear(ctx); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to clear cart")
		return err
	}

	s.logger.Debug().Str("session_id", sessionID).Msg("session cart cleared")
	return nil
}

func (s *cartService) mutate(ctx context.Context, sessionID, itemID string, fn func(*cart.Cart) error) (*model.CartResponse, error) {
	if err := s.checkSession(sessionID); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if _, ok := c.Item(itemID); !ok {
		return nil, model.ErrItemNotFound
	}

	if err := fn(c); err != nil {
		if _, ok := model.AsDomainError(err); !ok {
			s.logger.Error().
				Err(err).
				Str("session_id", sessionID).
				Str("item_id", itemID).
				Msg("failed to update cart")
		}
		return nil, err
	}
	return c.Snapshot(), nil
}

func (s *cartService) checkSession(sessionID string) error {
	if s.storage == nil {
		return errors.New("session carts are not enabled")
	}
	return validateSessionID(sessionID)
}

func (s *cartService) load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	c, err := cart.Load(ctx, s.storage, cart.SessionCartKey(sessionID), s.opts...)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to load session cart")
		return nil, err
	}
	return c, nil
}
