package handler

import (
	"net/http"

	"neon-studio/internal/model"
	"neon-studio/internal/service"

	"github.com/rs/zerolog"
)

// FavoritesHandler handles saved design requests.
type FavoritesHandler struct {
	service service.FavoritesService
	logger  zerolog.Logger
}

// NewFavoritesHandler creates a new favorites handler.
func NewFavoritesHandler(service service.FavoritesService, logger zerolog.Logger) *FavoritesHandler {
	return &FavoritesHandler{
		service: service,
		logger:  logger.With().Str("handler", "favorites").Logger(),
	}
}

// Collection handles GET and POST /api/favorites requests.
func (h *FavoritesHandler) Collection(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, h.logger, http.MethodGet, http.MethodPost) {
		return
	}

	sessionID := r.Header.Get(SessionHeader)

	if r.Method == http.MethodGet {
		designs, err := h.service.List(r.Context(), sessionID)
		if err != nil {
			writeServiceError(w, err, "failed to retrieve favorites", h.logger)
			return
		}
		writeJSON(w, http.StatusOK, model.FavoritesResponse{Success: true, Designs: designs})
		return
	}

	var req model.SaveDesignRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	design, err := h.service.Save(r.Context(), sessionID, &req)
	if err != nil {
		writeServiceError(w, err, "failed to save design", h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, design)
}

// Item handles DELETE /api/favorites/{id} requests.
func (h *FavoritesHandler) Item(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, h.logger, http.MethodDelete) {
		return
	}

	if err := h.service.Remove(r.Context(), r.Header.Get(SessionHeader), r.PathValue("id")); err != nil {
		writeServiceError(w, err, "failed to remove design", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
