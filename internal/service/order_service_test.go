package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"neon-studio/internal/model"
	"neon-studio/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validCustomer() *model.CustomerInfo {
	return &model.CustomerInfo{Name: "Ada Lovelace", Email: "ada@example.com", Phone: "555-0100"}
}

func validOrderRequest() *model.OrderRequest {
	return &model.OrderRequest{
		Items: []model.OrderItemRequest{
			{ID: "line-1", Config: testConfig("WELCOME HOME"), Price: dec("215"), Quantity: 2},
			{ID: "line-2", Config: testConfig("HI"), Price: dec("200"), Quantity: 1},
		},
		Customer:   validCustomer(),
		TotalPrice: dec("630"),
	}
}

func TestOrderService_Submit_Success(t *testing.T) {
	ctx := context.Background()
	sink := new(MockSink)
	sink.On("Accept", ctx, mock.AnythingOfType("*model.Order")).Return(nil)

	svc := NewOrderService(sink, nil, "https://shop.example/", zerolog.Nop())

	resp, err := svc.Submit(ctx, validOrderRequest())
	require.NoError(t, err)

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Order)
	assert.NotEqual(t, uuid.Nil, resp.Order.ID)
	assert.Equal(t, uuid.Version(4), resp.Order.ID.Version())
	assert.Equal(t, model.OrderStatusPending, resp.Order.Status)
	assert.Equal(t, "https://shop.example/checkout/pay/"+resp.Order.ID.String(), resp.PaymentURL)
	assert.NotEmpty(t, resp.Message)
	assert.True(t, resp.Order.TotalPrice.Equal(dec("630")))
	assert.WithinDuration(t, time.Now(), resp.Order.CreatedAt, time.Minute)

	require.Len(t, resp.Order.Items, 2)
	for _, item := range resp.Order.Items {
		assert.Equal(t, resp.Order.ID, item.OrderID)
	}
	assert.Equal(t, "line-1", resp.Order.Items[0].LineID)
	assert.Equal(t, 1.0, resp.Order.Items[0].Config.TextScale, "configs are normalised")

	sink.AssertExpectations(t)
}

func TestOrderService_Submit_SingleConfig(t *testing.T) {
	ctx := context.Background()
	sink := new(MockSink)
	sink.On("Accept", ctx, mock.MatchedBy(func(o *model.Order) bool {
		return o.Config != nil && o.Config.Text() == "NEON" && len(o.Items) == 0
	})).Return(nil)

	svc := NewOrderService(sink, nil, "https://shop.example", zerolog.Nop())

	resp, err := svc.Submit(ctx, &model.OrderRequest{
		Config:         testConfig(" NEON "),
		Customer:       validCustomer(),
		TotalPrice:     dec("215"),
		PremiumOptions: []string{"express"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"express"}, resp.Order.PremiumOptions)
	sink.AssertExpectations(t)
}

func TestOrderService_Submit_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(r *model.OrderRequest)
		wantCode string
		wantMsg  string
	}{
		{
			name:     "No items and no config",
			mutate:   func(r *model.OrderRequest) { r.Items = nil },
			wantCode: model.ErrCodeMissingField,
			wantMsg:  "either items or config",
		},
		{
			name:     "Item without config",
			mutate:   func(r *model.OrderRequest) { r.Items[1].Config = nil },
			wantCode: model.ErrCodeMissingField,
			wantMsg:  "items[1].config is required",
		},
		{
			name:     "Item with invalid effect",
			mutate:   func(r *model.OrderRequest) { r.Items[0].Config.Effect = "strobe" },
			wantCode: model.ErrCodeInvalidEffect,
			wantMsg:  "items[0].config",
		},
		{
			name:     "Item quantity zero",
			mutate:   func(r *model.OrderRequest) { r.Items[0].Quantity = 0 },
			wantCode: model.ErrCodeInvalidQuantity,
		},
		{
			name:     "Item price zero",
			mutate:   func(r *model.OrderRequest) { r.Items[0].Price = dec("0") },
			wantCode: model.ErrCodeInvalidPrice,
		},
		{
			name:     "Missing customer",
			mutate:   func(r *model.OrderRequest) { r.Customer = nil },
			wantCode: model.ErrCodeMissingField,
			wantMsg:  "customerInfo is required",
		},
		{
			name:     "Missing customer name",
			mutate:   func(r *model.OrderRequest) { r.Customer.Name = "   " },
			wantCode: model.ErrCodeMissingField,
			wantMsg:  "customerInfo.name is required",
		},
		{
			name:     "Missing customer email",
			mutate:   func(r *model.OrderRequest) { r.Customer.Email = "" },
			wantCode: model.ErrCodeMissingField,
			wantMsg:  "customerInfo.email is required",
		},
		{
			name:     "Invalid customer email",
			mutate:   func(r *model.OrderRequest) { r.Customer.Email = "not-an-email" },
			wantCode: model.ErrCodeInvalidEmail,
		},
		{
			name:     "Notes too long",
			mutate:   func(r *model.OrderRequest) { r.Customer.Notes = strings.Repeat("x", 2001) },
			wantCode: model.ErrCodeInvalidField,
			wantMsg:  "customerInfo.notes",
		},
		{
			name:     "Zero total",
			mutate:   func(r *model.OrderRequest) { r.TotalPrice = dec("0") },
			wantCode: model.ErrCodeInvalidPrice,
			wantMsg:  "totalPrice",
		},
		{
			name:     "Total that rounds to zero cents",
			mutate:   func(r *model.OrderRequest) { r.TotalPrice = dec("0.004") },
			wantCode: model.ErrCodeInvalidPrice,
			wantMsg:  "totalPrice must have at most 2 decimal places",
		},
		{
			name:     "Total with sub-cent precision",
			mutate:   func(r *model.OrderRequest) { r.TotalPrice = dec("123.456") },
			wantCode: model.ErrCodeInvalidPrice,
			wantMsg:  "decimal places",
		},
		{
			name:     "Total too large for the journal",
			mutate:   func(r *model.OrderRequest) { r.TotalPrice = dec("10000000000") },
			wantCode: model.ErrCodeInvalidPrice,
			wantMsg:  "totalPrice must be less than",
		},
		{
			name:     "Item price with sub-cent precision",
			mutate:   func(r *model.OrderRequest) { r.Items[1].Price = dec("199.999") },
			wantCode: model.ErrCodeInvalidPrice,
			wantMsg:  "items[1].price",
		},
		{
			name:     "Item price too large",
			mutate:   func(r *model.OrderRequest) { r.Items[0].Price = dec("99999999999.99") },
			wantCode: model.ErrCodeInvalidPrice,
			wantMsg:  "items[0].price must be less than",
		},
		{
			name:     "Item quantity beyond int32",
			mutate:   func(r *model.OrderRequest) { r.Items[0].Quantity = math.MaxInt },
			wantCode: model.ErrCodeInvalidQuantity,
			wantMsg:  "items[0].quantity must be at most 999",
		},
		{
			name: "Too many items",
			mutate: func(r *model.OrderRequest) {
				for len(r.Items) <= model.MaxCartItems {
					r.Items = append(r.Items, r.Items[0])
				}
			},
			wantCode: model.ErrCodeLimitExceeded,
		},
		{
			name:     "Malformed reference",
			mutate:   func(r *model.OrderRequest) { r.Reference = "order #1" },
			wantCode: model.ErrCodeInvalidField,
			wantMsg:  "reference",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := new(MockSink)
			svc := NewOrderService(sink, nil, "https://shop.example", zerolog.Nop())

			req := validOrderRequest()
			tt.mutate(req)

			resp, err := svc.Submit(context.Background(), req)
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.Equal(t, tt.wantCode, domainCode(err))
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
			sink.AssertNotCalled(t, "Accept", mock.Anything, mock.Anything)
		})
	}
}

func TestOrderService_Submit_AcceptsTrailingZeroCents(t *testing.T) {
	ctx := context.Background()
	sink := new(MockSink)
	sink.On("Accept", ctx, mock.Anything).Return(nil)

	req := validOrderRequest()
	req.TotalPrice = dec("630.000")
	req.Items[0].Price = dec("215.50")

	_, err := NewOrderService(sink, nil, "https://shop.example", zerolog.Nop()).Submit(ctx, req)
	require.NoError(t, err)
	sink.AssertExpectations(t)
}

func TestOrderService_Submit_ReferenceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	sink := new(MockSink)
	sink.On("Accept", ctx, mock.Anything).Return(nil)

	receipts := store.NewMemory()
	svc := NewOrderService(sink, nil, "https://shop.example", zerolog.Nop(), WithOrderReceipts(receipts))

	req := validOrderRequest()
	req.Reference = uuid.NewString()
	first, err := svc.Submit(ctx, req)
	require.NoError(t, err)

	retry := validOrderRequest()
	retry.Reference = req.Reference
	again, err := svc.Submit(ctx, retry)
	require.NoError(t, err)

	assert.Equal(t, first.Order.ID, again.Order.ID)
	assert.Equal(t, first.PaymentURL, again.PaymentURL)
	assert.True(t, again.Order.TotalPrice.Equal(dec("630")))
	sink.AssertNumberOfCalls(t, "Accept", 1)

	other := validOrderRequest()
	other.Reference = uuid.NewString()
	third, err := svc.Submit(ctx, other)
	require.NoError(t, err)
	assert.NotEqual(t, first.Order.ID, third.Order.ID)

	unreferenced, err := svc.Submit(ctx, validOrderRequest())
	require.NoError(t, err)
	assert.NotEqual(t, first.Order.ID, unreferenced.Order.ID)
	sink.AssertNumberOfCalls(t, "Accept", 3)
}

func TestOrderService_Submit_ReceiptStoreErrors(t *testing.T) {
	ctx := context.Background()
	ref := uuid.NewString()

	t.Run("Unreadable store fails the submission", func(t *testing.T) {
		sink := new(MockSink)
		receipts := new(MockStorage)
		receipts.On("Load", ctx, OrderReceiptKey(ref)).Return(nil, errors.New("redis down"))

		req := validOrderRequest()
		req.Reference = ref
		_, err := NewOrderService(sink, nil, "https://shop.example", zerolog.Nop(), WithOrderReceipts(receipts)).Submit(ctx, req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load order receipt")
		sink.AssertNotCalled(t, "Accept", mock.Anything, mock.Anything)
	})

	t.Run("Failed receipt write keeps the accepted order", func(t *testing.T) {
		sink := new(MockSink)
		sink.On("Accept", ctx, mock.Anything).Return(nil)
		receipts := new(MockStorage)
		receipts.On("Load", ctx, OrderReceiptKey(ref)).Return(nil, store.ErrNotFound)
		receipts.On("Save", ctx, OrderReceiptKey(ref), mock.Anything).Return(errors.New("disk full"))

		req := validOrderRequest()
		req.Reference = ref
		resp, err := NewOrderService(sink, nil, "https://shop.example", zerolog.Nop(), WithOrderReceipts(receipts)).Submit(ctx, req)
		require.NoError(t, err)
		assert.True(t, resp.Success)
		receipts.AssertExpectations(t)
	})
}

func TestOrderService_Submit_SinkFailure(t *testing.T) {
	ctx := context.Background()
	sink := new(MockSink)
	sink.On("Accept", ctx, mock.Anything).Return(errors.New("database unavailable"))

	svc := NewOrderService(sink, nil, "https://shop.example", zerolog.Nop())

	resp, err := svc.Submit(ctx, validOrderRequest())
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "failed to submit order")
}

func TestOrderService_GetByID(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	tests := []struct {
		name      string
		setupMock func(*MockOrderRepository)
		noRepo    bool
		wantCode  string
		wantErr   string
	}{
		{
			name: "Found",
			setupMock: func(m *MockOrderRepository) {
				m.On("GetByID", ctx, id).Return(&model.Order{ID: id, Status: model.OrderStatusPending}, nil)
			},
		},
		{
			name: "Not found",
			setupMock: func(m *MockOrderRepository) {
				m.On("GetByID", ctx, id).Return(nil, nil)
			},
			wantCode: model.ErrCodeOrderNotFound,
		},
		{
			name: "Repository error",
			setupMock: func(m *MockOrderRepository) {
				m.On("GetByID", ctx, id).Return(nil, errors.New("connection reset"))
			},
			wantErr: "failed to get order",
		},
		{
			name:     "No journal configured",
			noRepo:   true,
			wantCode: model.ErrCodeOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var svc OrderService
			repo := new(MockOrderRepository)
			if tt.noRepo {
				svc = NewOrderService(new(MockSink), nil, "https://shop.example", zerolog.Nop())
			} else {
				tt.setupMock(repo)
				svc = NewOrderService(new(MockSink), repo, "https://shop.example", zerolog.Nop())
			}

			got, err := svc.GetByID(ctx, id)

			switch {
			case tt.wantCode != "":
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, domainCode(err))
			case tt.wantErr != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, id, got.ID)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestJournalSink_Accept(t *testing.T) {
	ctx := context.Background()
	order := &model.Order{
		ID:         uuid.New(),
		Customer:   *validCustomer(),
		TotalPrice: dec("200"),
		Items:      []model.OrderItem{{ID: uuid.New(), Config: *testConfig("HI"), Price: dec("200"), Quantity: 1}},
	}

	tests := []struct {
		name         string
		setupMocks   func(*MockOrderRepository, *MockTx)
		wantErr      string
		wantCommit   bool
		wantRollback bool
	}{
		{
			name: "Success",
			setupMocks: func(repo *MockOrderRepository, tx *MockTx) {
				repo.On("BeginTx", ctx).Return(tx, nil)
				repo.On("CreateOrder", ctx, tx, order).Return(nil)
				repo.On("CreateOrderItems", ctx, tx, order.Items).Return(nil)
				tx.On("Commit", ctx).Return(nil)
			},
			wantCommit: true,
		},
		{
			name: "Begin fails",
			setupMocks: func(repo *MockOrderRepository, tx *MockTx) {
				repo.On("BeginTx", ctx).Return(nil, errors.New("pool closed"))
			},
			wantErr: "failed to journal order",
		},
		{
			name: "Create order fails",
			setupMocks: func(repo *MockOrderRepository, tx *MockTx) {
				repo.On("BeginTx", ctx).Return(tx, nil)
				repo.On("CreateOrder", ctx, tx, order).Return(errors.New("constraint violation"))
				tx.On("Rollback", ctx).Return(nil)
			},
			wantErr:      "failed to journal order",
			wantRollback: true,
		},
		{
			name: "Create items fails",
			setupMocks: func(repo *MockOrderRepository, tx *MockTx) {
				repo.On("BeginTx", ctx).Return(tx, nil)
				repo.On("CreateOrder", ctx, tx, order).Return(nil)
				repo.On("CreateOrderItems", ctx, tx, order.Items).Return(errors.New("batch failed"))
				tx.On("Rollback", ctx).Return(nil)
			},
			wantErr:      "failed to journal order items",
			wantRollback: true,
		},
		{
			name: "Commit fails",
			setupMocks: func(repo *MockOrderRepository, tx *MockTx) {
				repo.On("BeginTx", ctx).Return(tx, nil)
				repo.On("CreateOrder", ctx, tx, order).Return(nil)
				repo.On("CreateOrderItems", ctx, tx, order.Items).Return(nil)
				tx.On("Commit", ctx).Return(errors.New("serialization failure"))
				tx.On("Rollback", ctx).Return(nil)
			},
			wantErr:      "failed to journal order",
			wantCommit:   true,
			wantRollback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockOrderRepository)
			tx := new(MockTx)
			tt.setupMocks(repo, tx)

			err := NewJournalSink(repo, zerolog.Nop()).Accept(ctx, order)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCommit, tx.committed)
			assert.Equal(t, tt.wantRollback, tx.rolledBack)
			repo.AssertExpectations(t)
			tx.AssertExpectations(t)
		})
	}
}

func TestLogSink_Accept(t *testing.T) {
	err := NewLogSink(zerolog.Nop()).Accept(context.Background(), &model.Order{ID: uuid.New(), TotalPrice: dec("1")})
	assert.NoError(t, err)
}
