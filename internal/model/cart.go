package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one configuration inside a cart. Price is captured when the item is
// added and never recomputed.
type LineItem struct {
	ID             string          `json:"id" msgpack:"id"`
	Config         Configuration   `json:"config" msgpack:"config"`
	Price          decimal.Decimal `json:"price" msgpack:"price"`
	Quantity       int             `json:"quantity" msgpack:"quantity"`
	PremiumOptions []string        `json:"premiumOptions,omitempty" msgpack:"premium_options"`
	AddedAt        time.Time       `json:"addedAt" msgpack:"added_at"`
}

// Subtotal returns price times quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Clone returns a copy that shares no mutable state with li.
func (li LineItem) Clone() LineItem {
	out := li
	out.Config = li.Config.Clone()
	out.PremiumOptions = append([]string(nil), li.PremiumOptions...)
	return out
}

// AddToCartRequest is the payload for the add-to-cart endpoint.
type AddToCartRequest struct {
	Config         *Configuration  `json:"config"`
	Price          decimal.Decimal `json:"price"`
	Quantity       *int            `json:"quantity,omitempty"`
	PremiumOptions []string        `json:"premiumOptions,omitempty"`
}

// AddToCartResponse acknowledges an add-to-cart request.
type AddToCartResponse struct {
	Success bool      `json:"success"`
	Item    *LineItem `json:"item"`
	Message string    `json:"message"`
}

// UpdateQuantityRequest changes the quantity of one cart item.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

// CartResponse is a snapshot of a session cart.
type CartResponse struct {
	Items      []LineItem      `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// SavedDesign is a favourited configuration.
type SavedDesign struct {
	ID      string        `json:"id" msgpack:"id"`
	Name    string        `json:"name" msgpack:"name"`
	Config  Configuration `json:"config" msgpack:"config"`
	SavedAt time.Time     `json:"savedAt" msgpack:"saved_at"`
}

// SaveDesignRequest is the payload for saving a favourite.
type SaveDesignRequest struct {
	Name   string         `json:"name"`
	Config *Configuration `json:"config"`
}

// FavoritesResponse lists a session's saved designs.
type FavoritesResponse struct {
	Success bool          `json:"success"`
	Designs []SavedDesign `json:"designs"`
}
