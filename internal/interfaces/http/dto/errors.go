package dto

import (
	"net/http"

	"github.com/shopfront/backend/internal/domain/shared"
)

// Transport-level error codes. Domain codes come from the shared package.
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// Business rule violations -> 422 Unprocessable Entity
	shared.CodeOutOfStock:        http.StatusUnprocessableEntity,
	shared.CodeInsufficientStock: http.StatusUnprocessableEntity,
	shared.CodeEmptyCart:         http.StatusUnprocessableEntity,
	shared.CodeInvalidTransition: http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	shared.CodeValidation:       http.StatusBadRequest,
	shared.CodePasswordMismatch: http.StatusBadRequest,
	ErrCodeBadRequest:           http.StatusBadRequest,

	// Resource errors
	shared.CodeNotFound:            http.StatusNotFound,
	shared.CodeAlreadyExists:       http.StatusConflict,
	shared.CodeConcurrencyConflict: http.StatusConflict,
	shared.CodeDuplicateRequest:    http.StatusConflict,

	// Auth errors
	shared.CodeUnauthorized: http.StatusUnauthorized,
	shared.CodeForbidden:    http.StatusForbidden,

	shared.CodeUnavailable: http.StatusServiceUnavailable,

	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeInternal:        http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
