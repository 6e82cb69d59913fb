package service

import (
	"context"

	"neon-studio/internal/model"

	"github.com/google/uuid"
)

// PricingService prices sign configurations.
type PricingService interface {
	// Calculate validates the configuration and returns its price breakdown.
	Calculate(ctx context.Context, req *model.PriceRequest) (*model.PriceBreakdown, error)
}

// CartService handles add-to-cart requests and server-side session carts.
type CartService interface {
	// AddToCart validates the item and, when sessionID is set, stores it in the session cart.
	AddToCart(ctx context.Context, sessionID string, req *model.AddToCartRequest) (*model.AddToCartResponse, error)

	// GetCart returns the session cart.
	GetCart(ctx context.Context, sessionID string) (*model.CartResponse, error)

	// UpdateQuantity changes an item's quantity; zero or less removes it.
	UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*model.CartResponse, error)

	// RemoveItem deletes an item from the session cart.
	RemoveItem(ctx context.Context, sessionID, itemID string) (*model.CartResponse, error)

	// ClearCart empties the session cart.
	ClearCart(ctx context.Context, sessionID string) error
}

// FavoritesService manages saved designs per session.
type FavoritesService interface {
	List(ctx context.Context, sessionID string) ([]model.SavedDesign, error)
	Save(ctx context.Context, sessionID string, req *model.SaveDesignRequest) (*model.SavedDesign, error)
	Remove(ctx context.Context, sessionID, id string) error
}

// OrderService defines operations for order intake.
type OrderService interface {
	// Submit validates an order request and hands the order to the configured sink.
	Submit(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error)

	// GetByID retrieves a journalled order.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
}

// TemplateService lists design templates.
type TemplateService interface {
	List(ctx context.Context, category string) (*model.TemplateListResponse, error)
}

// LogoService accepts custom-logo quote requests.
type LogoService interface {
	Submit(ctx context.Context, req *model.LogoRequest) (*model.LogoResponse, error)
}
