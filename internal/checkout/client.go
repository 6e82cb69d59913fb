package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"neon-studio/internal/cart"
	"neon-studio/internal/model"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	DefaultTimeout         = 15 * time.Second
	DefaultMaxAttempts     = 4
	DefaultInitialInterval = 300 * time.Millisecond
	DefaultMaxInterval     = 3 * time.Second

	maxResponseBytes = 1 << 20
)

// ErrEmptyCart is returned when submitting a cart with no items.
var ErrEmptyCart = errors.New("cart is empty")

// StatusError is a non-2xx response from the storefront API.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("storefront returned %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("storefront returned %d", e.StatusCode)
}

// Client talks to the storefront API on behalf of a shopper's cart. Network errors
// and 5xx responses are retried with exponential backoff; 4xx responses are not.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	timeout         time.Duration
	maxAttempts     uint64
	initialInterval time.Duration
	maxInterval     time.Duration
	logger          zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each call including all retries.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetry sets the attempt limit and the first backoff interval.
func WithRetry(maxAttempts uint64, initialInterval time.Duration) Option {
	return func(c *Client) {
		c.maxAttempts = maxAttempts
		c.initialInterval = initialInterval
		if c.maxInterval < initialInterval {
			c.maxInterval = initialInterval
		}
	}
}

// NewClient creates a client for the storefront at baseURL.
func NewClient(baseURL string, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		httpClient:      &http.Client{},
		timeout:         DefaultTimeout,
		maxAttempts:     DefaultMaxAttempts,
		initialInterval: DefaultInitialInterval,
		maxInterval:     DefaultMaxInterval,
		logger:          logger.With().Str("component", "checkout_client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxAttempts < 1 {
		c.maxAttempts = 1
	}
	return c
}

// Quote prices a configuration.
func (c *Client) Quote(ctx context.Context, cfg model.Configuration, premium []string) (*model.PriceBreakdown, error) {
	var resp model.PriceResponse
	req := model.PriceRequest{Config: &cfg, PremiumOptions: premium}
	if err := c.post(ctx, "/api/calculate-price", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to quote configuration: %w", err)
	}
	return resp.Pricing, nil
}

// Submit places an order for the cart contents and clears the cart once the
// storefront has accepted it. Every attempt carries the same reference, so a
// retry after a lost acknowledgment does not place a second order.
func (c *Client) Submit(ctx context.Context, ct *cart.Cart, customer model.CustomerInfo, premium []string) (*model.OrderResponse, error) {
	items := ct.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	req := model.OrderRequest{
		Items:          make([]model.OrderItemRequest, len(items)),
		Customer:       &customer,
		TotalPrice:     ct.TotalPrice(),
		PremiumOptions: premium,
		Reference:      uuid.NewString(),
	}
	for i, item := range items {
		cfg := item.Config
		req.Items[i] = model.OrderItemRequest{
			ID:             item.ID,
			Config:         &cfg,
			Price:          item.Price,
			Quantity:       item.Quantity,
			PremiumOptions: item.PremiumOptions,
		}
	}

	var resp model.OrderResponse
	if err := c.post(ctx, "/api/submit-order", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to submit order: %w", err)
	}

	if err := ct.Clear(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("order placed but cart could not be cleared")
	}

	if resp.Order != nil {
		c.logger.Info().Str("order_id", resp.Order.ID.String()).Int("item_count", len(items)).Msg("order placed")
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.baseURL + path
	attempt := 0
	op := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return err
		}

		if resp.StatusCode >= 400 {
			statusErr := &StatusError{StatusCode: resp.StatusCode}
			var apiErr model.ErrorResponse
			if json.Unmarshal(data, &apiErr) == nil {
				statusErr.Code = apiErr.Error
				statusErr.Message = apiErr.Message
			}
			if resp.StatusCode < 500 {
				return backoff.Permanent(statusErr)
			}
			return statusErr
		}

		if err := json.Unmarshal(data, out); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval
	b.MaxInterval = c.maxInterval
	b.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(b, c.maxAttempts-1), ctx)
	notify := func(err error, wait time.Duration) {
		c.logger.Warn().
			Err(err).
			Str("path", path).
			Int("attempt", attempt).
			Dur("retry_in", wait).
			Msg("storefront request failed, retrying")
	}

	return backoff.RetryNotify(op, policy, notify)
}
