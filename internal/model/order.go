package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

// OrderStatusPending is the only status the intake boundary assigns.
const OrderStatusPending OrderStatus = "pending"

// CustomerInfo holds the contact fields collected at checkout.
type CustomerInfo struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone,omitempty" validate:"max=50"`
	Address string `json:"address,omitempty" validate:"max=500"`
	Notes   string `json:"notes,omitempty" validate:"max=2000"`
}

// Order is the record produced by the intake boundary.
type Order struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	Items          []OrderItem     `json:"items,omitempty"`
	Config         *Configuration  `json:"config,omitempty" db:"single_config"`
	Customer       CustomerInfo    `json:"customerInfo" db:"customer"`
	PremiumOptions []string        `json:"premiumOptions,omitempty" db:"premium_options"`
	TotalPrice     decimal.Decimal `json:"totalPrice" db:"total_price"`
	Status         OrderStatus     `json:"status" db:"status"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem is a snapshot of a cart line item inside an order.
type OrderItem struct {
	ID             uuid.UUID       `json:"-" db:"id"`
	OrderID        uuid.UUID       `json:"-" db:"order_id"`
	LineID         string          `json:"id,omitempty" db:"line_id"`
	Config         Configuration   `json:"config" db:"config"`
	Price          decimal.Decimal `json:"price" db:"unit_price"`
	Quantity       int             `json:"quantity" db:"quantity"`
	PremiumOptions []string        `json:"premiumOptions,omitempty" db:"premium_options"`
}

// OrderRequest is the payload for submitting an order. Either Items or Config is set.
type OrderRequest struct {
	Items          []OrderItemRequest `json:"items,omitempty"`
	Config         *Configuration     `json:"config,omitempty"`
	Customer       *CustomerInfo      `json:"customerInfo"`
	TotalPrice     decimal.Decimal    `json:"totalPrice"`
	PremiumOptions []string           `json:"premiumOptions,omitempty"`
	// Reference is a client-chosen idempotency key. Resubmitting a reference
	// returns the first acknowledgment instead of placing a second order.
	Reference string `json:"reference,omitempty"`
}

// OrderItemRequest is one line of an order request.
type OrderItemRequest struct {
	ID             string          `json:"id,omitempty"`
	Config         *Configuration  `json:"config"`
	Price          decimal.Decimal `json:"price"`
	Quantity       int             `json:"quantity"`
	PremiumOptions []string        `json:"premiumOptions,omitempty"`
}

// OrderResponse acknowledges a submitted order.
type OrderResponse struct {
	Success    bool   `json:"success"`
	Order      *Order `json:"order"`
	PaymentURL string `json:"paymentUrl"`
	Message    string `json:"message"`
}
