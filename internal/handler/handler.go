package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"neon-studio/internal/model"

	"github.com/rs/zerolog"
)

// SessionHeader carries the client-chosen session id for server-side carts.
const SessionHeader = "X-Session-ID"

const maxJSONBody = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; an encode failure means the client went away.
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps err to a response. Domain errors are shown to the client;
// anything else is logged and replaced by fallback.
func writeServiceError(w http.ResponseWriter, err error, fallback string, logger zerolog.Logger) {
	de, ok := model.AsDomainError(err)
	if !ok {
		logger.Error().Err(err).Msg(fallback)
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, fallback, logger)
		return
	}

	status := http.StatusBadRequest
	switch de.Code {
	case model.ErrCodeItemNotFound, model.ErrCodeOrderNotFound:
		status = http.StatusNotFound
	case model.ErrCodeFileTooLarge:
		status = http.StatusRequestEntityTooLarge
	case model.ErrCodeLimitExceeded:
		status = http.StatusConflict
	}
	writeError(w, status, de.Code, de.Message, logger)
}

// allowMethod writes a 405 and returns false when r does not use one of methods.
func allowMethod(w http.ResponseWriter, r *http.Request, logger zerolog.Logger, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	writeError(w, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", logger)
	return false
}

// decodeJSON reads a JSON body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, logger zerolog.Logger) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		message := "invalid request body"
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			message = "request body is required"
		case errors.As(err, &maxErr):
			message = "request body is too large"
		}
		logger.Debug().Err(err).Msg("failed to decode request body")
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, message, logger)
		return false
	}
	return true
}
