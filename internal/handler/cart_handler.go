package handler

import (
	"net/http"

	"neon-studio/internal/model"
	"neon-studio/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles add-to-cart and session cart requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// AddToCart handles POST /api/add-to-cart requests.
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, h.logger, http.MethodPost) {
		return
	}

	var req model.AddToCartRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	resp, err := h.service.AddToCart(r.Context(), r.Header.Get(SessionHeader), &req)
	if err != nil {
		writeServiceError(w, err, "failed to add item to cart", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Cart handles GET and DELETE /api/cart requests.
func (h *CartHandler) Cart(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, h.logger, http.MethodGet, http.MethodDelete) {
		return
	}

	sessionID := r.Header.Get(SessionHeader)

	if r.Method == http.MethodDelete {
		if err := h.service.ClearCart(r.Context(), sessionID); err != nil {
			writeServiceError(w, err, "failed to clear cart", h.logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	resp, err := h.service.GetCart(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve cart", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Item handles PATCH and DELETE /api/cart/items/{id} requests.
func (h *CartHandler) Item(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, h.logger, http.MethodPatch, http.MethodDelete) {
		return
	}

	sessionID := r.Header.Get(SessionHeader)
	itemID := r.PathValue("id")

	var (
		resp *model.CartResponse
		err  error
	)

	if r.Method == http.MethodDelete {
		resp, err = h.service.RemoveItem(r.Context(), sessionID, itemID)
	} else {
		var req model.UpdateQuantityRequest
		if !decodeJSON(w, r, &req, h.logger) {
			return
		}
		if req.Quantity == nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "quantity is required", h.logger)
			return
		}
		resp, err = h.service.UpdateQuantity(r.Context(), sessionID, itemID, *req.Quantity)
	}

	if err != nil {
		writeServiceError(w, err, "failed to update cart", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
