package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"neon-studio/internal/model"
	"neon-studio/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Keys used by browser-style local storage.
const (
	LocalCartKey      = "neon-cart"
	LocalFavoritesKey = "neon-favorites"
)

// SessionCartKey returns the storage key of a server-side session cart.
func SessionCartKey(sessionID string) string {
	return "cart:" + sessionID
}

// SessionFavoritesKey returns the storage key of a session's saved designs.
func SessionFavoritesKey(sessionID string) string {
	return "favorites:" + sessionID
}

// Option configures a Cart or Favorites list.
type Option func(*options)

type options struct {
	codec Codec
	now   func() time.Time
	newID func() string
}

// WithCodec sets the serialisation format. JSON is the default.
func WithCodec(c Codec) Option {
	return func(o *options) { o.codec = c }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func newOptions(opts []Option) options {
	o := options{
		codec: JSONCodec{},
		now:   time.Now,
		newID: newLineID,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// newLineID returns a time-ordered UUID (version 7).
func newLineID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Cart is the list of line items a customer intends to buy. Every mutation is
// written through to storage before it becomes visible; when the write fails the
// cart keeps its previous contents.
type Cart struct {
	mu      sync.Mutex
	storage store.Storage
	key     string
	opts    options
	items   []model.LineItem
	open    bool
}

// Load restores the cart stored under key. A missing key yields an empty cart.
func Load(ctx context.Context, storage store.Storage, key string, opts ...Option) (*Cart, error) {
	c := &Cart{
		storage: storage,
		key:     key,
		opts:    newOptions(opts),
	}

	data, err := storage.Load(ctx, key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return c, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	if err := c.opts.codec.Unmarshal(data, &c.items); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return c, nil
}

// AddItem appends a new line item with quantity 1 and opens the cart view.
func (c *Cart) AddItem(ctx context.Context, cfg model.Configuration, price decimal.Decimal, premium []string) (model.LineItem, error) {
	return c.AddItemQuantity(ctx, cfg, price, premium, 1)
}

// AddItemQuantity is AddItem with an explicit starting quantity.
func (c *Cart) AddItemQuantity(ctx context.Context, cfg model.Configuration, price decimal.Decimal, premium []string, quantity int) (model.LineItem, error) {
	if !price.IsPositive() {
		return model.LineItem{}, model.ErrInvalidPrice
	}
	if quantity < 1 {
		return model.LineItem{}, model.ErrInvalidQuantity
	}
	if err := model.CheckAmount("price", price); err != nil {
		return model.LineItem{}, err
	}
	if err := model.CheckQuantity("quantity", quantity); err != nil {
		return model.LineItem{}, err
	}

	item := model.LineItem{
		ID:             c.opts.newID(),
		Config:         cfg.Clone(),
		Price:          price,
		Quantity:       quantity,
		PremiumOptions: append([]string(nil), premium...),
		AddedAt:        c.opts.now().UTC(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) >= model.MaxCartItems {
		return model.LineItem{}, model.ErrCartFull
	}

	next := append(c.snapshot(), item)
	if err := c.commit(ctx, next); err != nil {
		return model.LineItem{}, err
	}
	c.open = true

	return item.Clone(), nil
}

// RemoveItem deletes the line item with the given id. Removing a missing id is a no-op.
func (c *Cart) RemoveItem(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return nil
	}

	next := c.snapshot()
	next = append(next[:idx], next[idx+1:]...)
	return c.commit(ctx, next)
}

// UpdateQuantity sets the quantity of a line item. A quantity of zero or less
// removes the item; an unknown id is a no-op. Quantities above
// model.MaxQuantity are rejected.
func (c *Cart) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return c.RemoveItem(ctx, id)
	}
	if err := model.CheckQuantity("quantity", quantity); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return nil
	}

	next := c.snapshot()
	next[idx].Quantity = quantity
	return c.commit(ctx, next)
}

// Clear empties the cart.
func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.commit(ctx, []model.LineItem{})
}

// Items returns copies of the line items in insertion order.
func (c *Cart) Items() []model.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshot()
}

// Item returns the line item with the given id.
func (c *Cart) Item(id string) (model.LineItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return model.LineItem{}, false
	}
	return c.items[idx].Clone(), true
}

// TotalPrice is the sum of price times quantity over all items.
func (c *Cart) TotalPrice() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// TotalItems is the sum of quantities.
func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, item := range c.items {
		n += item.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no items.
func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items) == 0
}

// IsOpen reports whether the cart view is open.
func (c *Cart) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.open
}

// Open shows the cart view.
func (c *Cart) Open() {
	c.mu.Lock()
	c.open = true
	c.mu.Unlock()
}

// Close hides the cart view.
func (c *Cart) Close() {
	c.mu.Lock()
	c.open = false
	c.mu.Unlock()
}

// Snapshot returns the cart contents for API responses.
func (c *Cart) Snapshot() *model.CartResponse {
	return &model.CartResponse{
		Items:      c.Items(),
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
	}
}

// snapshot copies the items; callers hold mu.
func (c *Cart) snapshot() []model.LineItem {
	out := make([]model.LineItem, len(c.items))
	for i, item := range c.items {
		out[i] = item.Clone()
	}
	return out
}

func (c *Cart) indexOf(id string) int {
	for i, item := range c.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// commit persists next and then makes it the current contents; callers hold mu.
func (c *Cart) commit(ctx context.Context, next []model.LineItem) error {
	data, err := c.opts.codec.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := c.storage.Save(ctx, c.key, data); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	c.items = next
	return nil
}
