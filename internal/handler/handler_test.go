package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"neon-studio/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPricingService is a mock implementation of PricingService.
type MockPricingService struct {
	mock.Mock
}

func (m *MockPricingService) Calculate(ctx context.Context, req *model.PriceRequest) (*model.PriceBreakdown, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PriceBreakdown), args.Error(1)
}

// MockCartService is a mock implementation of CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) AddToCart(ctx context.Context, sessionID string, req *model.AddToCartRequest) (*model.AddToCartResponse, error) {
	args := m.Called(ctx, sessionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AddToCartResponse), args.Error(1)
}

func (m *MockCartService) GetCart(ctx context.Context, sessionID string) (*model.CartResponse, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartResponse), args.Error(1)
}

func (m *MockCartService) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*model.CartResponse, error) {
	args := m.Called(ctx, sessionID, itemID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartResponse), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, sessionID, itemID string) (*model.CartResponse, error) {
	args := m.Called(ctx, sessionID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartResponse), args.Error(1)
}

func (m *MockCartService) ClearCart(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// MockFavoritesService is a mock implementation of FavoritesService.
type MockFavoritesService struct {
	mock.Mock
}

func (m *MockFavoritesService) List(ctx context.Context, sessionID string) ([]model.SavedDesign, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SavedDesign), args.Error(1)
}

func (m *MockFavoritesService) Save(ctx context.Context, sessionID string, req *model.SaveDesignRequest) (*model.SavedDesign, error) {
	args := m.Called(ctx, sessionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SavedDesign), args.Error(1)
}

func (m *MockFavoritesService) Remove(ctx context.Context, sessionID, id string) error {
	args := m.Called(ctx, sessionID, id)
	return args.Error(0)
}

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Submit(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

// MockTemplateService is a mock implementation of TemplateService.
type MockTemplateService struct {
	mock.Mock
}

func (m *MockTemplateService) List(ctx context.Context, category string) (*model.TemplateListResponse, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TemplateListResponse), args.Error(1)
}

// MockLogoService is a mock implementation of LogoService.
type MockLogoService struct {
	mock.Mock
}

func (m *MockLogoService) Submit(ctx context.Context, req *model.LogoRequest) (*model.LogoResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LogoResponse), args.Error(1)
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	if s, ok := v.(string); ok {
		return bytes.NewReader([]byte(s))
	}
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
		expectedMsg    string
	}{
		{
			name:           "Domain validation error",
			err:            model.ErrInvalidPrice,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidPrice,
			expectedMsg:    model.ErrInvalidPrice.Message,
		},
		{
			name:           "Wrapped domain error",
			err:            errors.Join(errors.New("context"), model.ErrItemNotFound),
			expectedStatus: http.StatusNotFound,
			expectedCode:   model.ErrCodeItemNotFound,
			expectedMsg:    model.ErrItemNotFound.Message,
		},
		{
			name:           "File too large",
			err:            model.NewDomainError(model.ErrCodeFileTooLarge, "too big"),
			expectedStatus: http.StatusRequestEntityTooLarge,
			expectedCode:   model.ErrCodeFileTooLarge,
			expectedMsg:    "too big",
		},
		{
			name:           "Cart at capacity",
			err:            model.ErrCartFull,
			expectedStatus: http.StatusConflict,
			expectedCode:   model.ErrCodeLimitExceeded,
			expectedMsg:    model.ErrCartFull.Message,
		},
		{
			name:           "Unexpected error is sanitised",
			err:            errors.New("pq: password authentication failed for user admin"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   model.ErrCodeInternalError,
			expectedMsg:    "fallback message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeServiceError(w, tt.err, "fallback message", zerolog.Nop())

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			resp := decodeError(t, w)
			assert.Equal(t, tt.expectedCode, resp.Error)
			assert.Equal(t, tt.expectedMsg, resp.Message)
			assert.NotContains(t, w.Body.String(), "password")
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expectOK    bool
		expectedMsg string
	}{
		{name: "Valid body", body: `{"config":null}`, expectOK: true},
		{name: "Empty body", body: ``, expectedMsg: "request body is required"},
		{name: "Malformed body", body: `{"config":`, expectedMsg: "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", jsonBody(t, tt.body))
			w := httptest.NewRecorder()

			var v model.PriceRequest
			ok := decodeJSON(w, req, &v, zerolog.Nop())

			assert.Equal(t, tt.expectOK, ok)
			if !tt.expectOK {
				assert.Equal(t, http.StatusBadRequest, w.Code)
				resp := decodeError(t, w)
				assert.Equal(t, model.ErrCodeInvalidJSON, resp.Error)
				assert.Equal(t, tt.expectedMsg, resp.Message)
			}
		})
	}
}
