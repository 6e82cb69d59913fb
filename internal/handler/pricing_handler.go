package handler

import (
	"net/http"

	"neon-studio/internal/model"
	"neon-studio/internal/service"

	"github.com/rs/zerolog"
)

// PricingHandler handles price calculation requests.
type PricingHandler struct {
	service service.PricingService
	logger  zerolog.Logger
}

// NewPricingHandler creates a new pricing handler.
func NewPricingHandler(service service.PricingService, logger zerolog.Logger) *PricingHandler {
	return &PricingHandler{
		service: service,
		logger:  logger.With().Str("handler", "pricing").Logger(),
	}
}

// Calculate handles POST /api/calculate-price requests.
func (h *PricingHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, h.logger, http.MethodPost) {
		return
	}

	var req model.PriceRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	breakdown, err := h.service.Calculate(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to calculate price", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.PriceResponse{Success: true, Pricing: breakdown})
}
