package handler

import (
	"net/http"

	"neon-studio/internal/service"

	"github.com/rs/zerolog"
)

// TemplateHandler handles template listing requests.
type TemplateHandler struct {
	service service.TemplateService
	logger  zerolog.Logger
}

// NewTemplateHandler creates a new template handler.
func NewTemplateHandler(service service.TemplateService, logger zerolog.Logger) *TemplateHandler {
	return &TemplateHandler{
		service: service,
		logger:  logger.With().Str("handler", "template").Logger(),
	}
}

// List handles GET /api/get-templates requests.
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, h.logger, http.MethodGet) {
		return
	}

	resp, err := h.service.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeServiceError(w, err, "failed to retrieve templates", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
