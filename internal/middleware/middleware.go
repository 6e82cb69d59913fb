package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"neon-studio/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	headerRequestID = "X-Request-ID"
	headerSessionID = "X-Session-ID"
	headerAPIKey    = "X-API-Key"
)

var (
	corsMethods = strings.Join([]string{
		http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}, ", ")
	corsHeaders = strings.Join([]string{"Content-Type", headerAPIKey, headerSessionID}, ", ")
)

// RequestID tags every request with an id, echoed in the X-Request-ID response
// header, and stores a logger carrying that id in the request context. A
// caller-supplied id is kept as long as it is a valid UUID.
func RequestID(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(r.Header.Get(headerRequestID))
			if err != nil {
				id = uuid.New()
			}
			w.Header().Set(headerRequestID, id.String())

			reqLogger := logger.With().Str("request_id", id.String()).Logger()
			next.ServeHTTP(w, r.WithContext(reqLogger.WithContext(r.Context())))
		})
	}
}

// CORS allows any storefront origin. Preflight requests stop here with an
// empty 200.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", corsMethods)
		h.Set("Access-Control-Allow-Headers", corsHeaders)
		h.Set("Access-Control-Expose-Headers", headerRequestID)

		if r.Method != http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}

// APIKeyAuth guards a route with the shared X-API-Key secret. An empty
// configured key locks the route.
func APIKeyAuth(apiKey string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if reason := checkAPIKey(apiKey, r.Header.Get(headerAPIKey)); reason != "" {
				requestLogger(r, logger).Warn().
					Str("path", r.URL.Path).
					Str("reason", reason).
					Msg("rejected order lookup")
				writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "unauthorised: "+reason)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func checkAPIKey(want, got string) string {
	switch {
	case got == "":
		return "missing API key"
	case want == "" || subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1:
		return "invalid API key"
	default:
		return ""
	}
}

// Logging writes one access-log line per request. Responses with a 5xx status
// are logged at error level.
func Logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			l := requestLogger(r, logger)
			event := l.Info()
			if rec.Status() >= http.StatusInternalServerError {
				event = l.Error()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.Status()).
				Int("bytes", rec.written).
				Dur("duration", time.Since(started)).
				Str("remote_addr", r.RemoteAddr).
				Str("session_id", r.Header.Get(headerSessionID)).
				Msg("http request")
		})
	}
}

// Recovery turns a handler panic into a sanitized 500 response.
func Recovery(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if p == http.ErrAbortHandler {
					panic(p)
				}
				requestLogger(r, logger).Error().
					Interface("panic", p).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("panic recovered")
				writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger prefers the request-scoped logger installed by RequestID.
func requestLogger(r *http.Request, fallback zerolog.Logger) *zerolog.Logger {
	l := zerolog.Ctx(r.Context())
	if l.GetLevel() == zerolog.Disabled {
		return &fallback
	}
	return l
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Error: code, Message: message})
}

// statusRecorder remembers the status and body size written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.written += n
	return n, err
}

// Status reports the response status, 200 if the handler never set one.
func (s *statusRecorder) Status() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}
