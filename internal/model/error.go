package model

import (
	"errors"
	"fmt"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeMissingField     = "MISSING_FIELD"
	ErrCodeInvalidField     = "INVALID_FIELD"
	ErrCodeInvalidSession   = "INVALID_SESSION"
	ErrCodeInvalidSize      = "INVALID_SIZE"
	ErrCodeInvalidFont      = "INVALID_FONT"
	ErrCodeInvalidEffect    = "INVALID_EFFECT"
	ErrCodeInvalidBackboard = "INVALID_BACKBOARD"
	ErrCodeInvalidMounting  = "INVALID_MOUNTING"
	ErrCodeInvalidColor     = "INVALID_COLOR"
	ErrCodeInvalidText      = "INVALID_TEXT"
	ErrCodeInvalidScale     = "INVALID_TEXT_SCALE"
	ErrCodeInvalidPrice     = "INVALID_PRICE"
	ErrCodeInvalidQuantity  = "INVALID_QUANTITY"
	ErrCodeInvalidEmail     = "INVALID_EMAIL"
	ErrCodeInvalidFile      = "INVALID_FILE"
	ErrCodeFileTooLarge     = "FILE_TOO_LARGE"
	ErrCodeItemNotFound     = "ITEM_NOT_FOUND"
	ErrCodeOrderNotFound    = "ORDER_NOT_FOUND"
	ErrCodeLimitExceeded    = "LIMIT_EXCEEDED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// DomainError is a validation or business rule failure that is safe to show to clients.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// AsDomainError reports whether err wraps a DomainError and returns it.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Common domain errors
var (
	ErrMissingConfig   = NewDomainError(ErrCodeMissingField, "config is required")
	ErrMissingSession  = NewDomainError(ErrCodeMissingField, "X-Session-ID header is required")
	ErrInvalidSession  = NewDomainError(ErrCodeInvalidSession, "session id must be 1-128 letters, digits, '-' or '_'")
	ErrMissingSize     = NewDomainError(ErrCodeMissingField, "config size is required")
	ErrMissingText     = NewDomainError(ErrCodeMissingField, "config text is required")
	ErrInvalidPrice    = NewDomainError(ErrCodeInvalidPrice, "price must be greater than zero")
	ErrInvalidQuantity = NewDomainError(ErrCodeInvalidQuantity, "quantity must be greater than zero")
	ErrItemNotFound    = NewDomainError(ErrCodeItemNotFound, "cart item not found")
	ErrOrderNotFound   = NewDomainError(ErrCodeOrderNotFound, "order not found")
	ErrCartFull        = NewDomainError(ErrCodeLimitExceeded, fmt.Sprintf("a cart holds at most %d items", MaxCartItems))
	ErrFavoritesFull   = NewDomainError(ErrCodeLimitExceeded, fmt.Sprintf("at most %d designs can be saved", MaxFavorites))
)
