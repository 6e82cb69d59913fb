package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"neon-studio/internal/model"
	"neon-studio/internal/service"

	"github.com/rs/zerolog"
)

// multipartOverhead is the allowance for form fields and boundaries on top of the
// file size limit.
const multipartOverhead = 64 << 10

const sniffLen = 1024

// LogoHandler handles custom-logo quote requests.
type LogoHandler struct {
	service  service.LogoService
	maxBytes int64
	logger   zerolog.Logger
}

// NewLogoHandler creates a logo handler accepting files up to maxBytes.
func NewLogoHandler(service service.LogoService, maxBytes int64, logger zerolog.Logger) *LogoHandler {
	return &LogoHandler{
		service:  service,
		maxBytes: maxBytes,
		logger:   logger.With().Str("handler", "logo").Logger(),
	}
}

// Submit handles POST /api/custom-logo multipart requests.
func (h *LogoHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, h.logger, http.MethodPost) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxBytes + multipartOverhead); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, model.ErrCodeFileTooLarge, "upload exceeds the size limit", h.logger)
			return
		}
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid multipart form", h.logger)
		return
	}
	defer r.MultipartForm.RemoveAll()

	req := &model.LogoRequest{
		Name:           r.FormValue("name"),
		Email:          r.FormValue("email"),
		Notes:          r.FormValue("notes"),
		SizePreference: r.FormValue("size"),
	}

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "image is required", h.logger)
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidFile, "unreadable image upload", h.logger)
		return
	}
	defer file.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		writeServiceError(w, err, "failed to read upload", h.logger)
		return
	}

	req.FileName = header.Filename
	req.FileSize = header.Size
	req.ContentType = sniffContentType(head[:n])

	resp, err := h.service.Submit(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "failed to submit logo request", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// sniffContentType classifies an upload by its leading bytes. The declared
// Content-Type of the part is not trusted.
func sniffContentType(head []byte) string {
	detected := http.DetectContentType(head)
	switch detected {
	case "image/png", "image/jpeg":
		return detected
	}
	if bytes.Contains(bytes.ToLower(head), []byte("<svg")) {
		return "image/svg+xml"
	}
	return detected
}
