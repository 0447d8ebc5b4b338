package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
)

// Checkout error codes
const (
	// ErrCodePriceMismatch is used when submitted totals fail verification
	ErrCodePriceMismatch = "ERR_PRICE_MISMATCH"
	// ErrCodePaymentDeclined is used when the POS declines the card payment
	ErrCodePaymentDeclined = "ERR_PAYMENT_DECLINED"
	// ErrCodePaymentFailed is used when payment capture failed after the order
	// was created; the response carries the order reference
	ErrCodePaymentFailed = "ERR_PAYMENT_FAILED"
	// ErrCodePosUnavailable is used when the POS cannot be reached
	ErrCodePosUnavailable = "ERR_POS_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeUnauthorized: http.StatusUnauthorized,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodePriceMismatch:   http.StatusUnprocessableEntity,
	ErrCodePaymentDeclined: http.StatusUnprocessableEntity,
	ErrCodePaymentFailed:   http.StatusUnprocessableEntity,

	// Upstream unavailable -> 502 Bad Gateway
	ErrCodePosUnavailable: http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
