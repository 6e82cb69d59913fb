package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"neon-studio/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPricingHandler_Calculate(t *testing.T) {
	breakdown := &model.PriceBreakdown{
		Size:          model.SizeLarge,
		BasePrice:     decimal.NewFromInt(200),
		TextSurcharge: decimal.NewFromInt(15),
		PremiumTotal:  decimal.NewFromInt(15),
		TotalPrice:    decimal.NewFromInt(230),
		Currency:      "USD",
	}

	tests := []struct {
		name           string
		method         string
		body           any
		mockReturn     *model.PriceBreakdown
		mockError      error
		expectedStatus int
		expectedCode   string
		expectService  bool
	}{
		{
			name:           "Success",
			method:         http.MethodPost,
			body:           `{"config":{"size":"100cm","text":"WELCOME HOME"},"premiumOptions":["express"]}`,
			mockReturn:     breakdown,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Wrong method",
			method:         http.MethodGet,
			expectedStatus: http.StatusMethodNotAllowed,
			expectedCode:   model.ErrCodeMethodNotAllowed,
		},
		{
			name:           "Invalid JSON",
			method:         http.MethodPost,
			body:           `{not json`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidJSON,
		},
		{
			name:           "Missing config",
			method:         http.MethodPost,
			body:           `{}`,
			mockError:      model.ErrMissingConfig,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeMissingField,
			expectService:  true,
		},
		{
			name:           "Unexpected failure",
			method:         http.MethodPost,
			body:           `{"config":{"size":"100cm","text":"HI"}}`,
			mockError:      errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   model.ErrCodeInternalError,
			expectService:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockPricingService)
			if tt.expectService {
				svc.On("Calculate", mock.Anything, mock.AnythingOfType("*model.PriceRequest")).Return(tt.mockReturn, tt.mockError)
			}
			h := NewPricingHandler(svc, zerolog.Nop())

			var req *http.Request
			if tt.body != nil {
				req = httptest.NewRequest(tt.method, "/api/calculate-price", jsonBody(t, tt.body))
			} else {
				req = httptest.NewRequest(tt.method, "/api/calculate-price", nil)
			}
			w := httptest.NewRecorder()

			h.Calculate(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Error)
			} else {
				var resp model.PriceResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.True(t, resp.Success)
				assert.True(t, resp.Pricing.TotalPrice.Equal(decimal.NewFromInt(230)))
			}

			if tt.expectService {
				svc.AssertExpectations(t)
			} else {
				svc.AssertNotCalled(t, "Calculate", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestPricingHandler_PassesDecodedRequest(t *testing.T) {
	svc := new(MockPricingService)
	svc.On("Calculate", mock.Anything, mock.MatchedBy(func(r *model.PriceRequest) bool {
		return r.Config != nil &&
			r.Config.Text() == "GOOD VIBES" &&
			r.Config.Multiline() &&
			len(r.PremiumOptions) == 2
	})).Return(&model.PriceBreakdown{}, nil)

	h := NewPricingHandler(svc, zerolog.Nop())
	body := `{"config":{"size":"50cm","lines":["GOOD","VIBES"],"multiline":true},"premiumOptions":["remote","timer"]}`
	w := httptest.NewRecorder()
	h.Calculate(w, httptest.NewRequest(http.MethodPost, "/api/calculate-price", jsonBody(t, body)))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
