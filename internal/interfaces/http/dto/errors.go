package dto

import "net/http"

// Transport-level error codes. Domain errors carry their own codes; these
// cover failures raised by the HTTP layer itself.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeTooLarge     = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Domain codes
// not listed here fall back to 500 so that an unmapped failure is loud.
var ErrorCodeHTTPStatus = map[string]int{
	// Transport errors
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,

	// Input validation -> 400 Bad Request
	"INVALID_INPUT":         http.StatusBadRequest,
	"INVALID_TENANT":        http.StatusBadRequest,
	"INVALID_ORDER_ID":      http.StatusBadRequest,
	"INVALID_VENDOR_ID":     http.StatusBadRequest,
	"INVALID_CUSTOMER_ID":   http.StatusBadRequest,
	"INVALID_QUANTITY":      http.StatusBadRequest,
	"INVALID_QUOTED_PRICE":  http.StatusBadRequest,
	"INVALID_LEAD_TIME":     http.StatusBadRequest,
	"INVALID_AMOUNT":        http.StatusBadRequest,
	"INVALID_CURRENCY":      http.StatusBadRequest,
	"INVALID_RATING":        http.StatusBadRequest,
	"INVALID_TIER":          http.StatusBadRequest,
	"INVALID_QUALITY_TIER":  http.StatusBadRequest,
	"INVALID_MATERIAL_TYPE": http.StatusBadRequest,
	"INVALID_BUDGET_RANGE":  http.StatusBadRequest,
	"INVALID_PRICING_INPUT": http.StatusBadRequest,
	"INVALID_VENDOR_NAME":   http.StatusBadRequest,
	"INVALID_VENDOR_CODE":   http.StatusBadRequest,
	"INVALID_CUSTOMER_NAME": http.StatusBadRequest,
	"INVALID_EXPIRY":        http.StatusBadRequest,

	// Missing resources -> 404 Not Found
	"ORDER_NOT_FOUND":    http.StatusNotFound,
	"VENDOR_NOT_FOUND":   http.StatusNotFound,
	"CUSTOMER_NOT_FOUND": http.StatusNotFound,

	// Business rule violations -> 422 Unprocessable Entity
	"INVALID_TRANSITION": http.StatusUnprocessableEntity,
	"INVALID_STATE":      http.StatusUnprocessableEntity,
	"EMPTY_ORDER":        http.StatusUnprocessableEntity,
	"NO_QUOTE":           http.StatusUnprocessableEntity,
	"NO_ACCEPTED_QUOTE":  http.StatusUnprocessableEntity,
	"CURRENCY_MISMATCH":  http.StatusUnprocessableEntity,
	"VENDOR_INACTIVE":    http.StatusUnprocessableEntity,
	"CUSTOMER_INACTIVE":  http.StatusUnprocessableEntity,
	"QUOTE_EXPIRED":      http.StatusUnprocessableEntity,

	// Conflicts -> 409
	"ALREADY_EXISTS":          http.StatusConflict,
	"CONCURRENT_MODIFICATION": http.StatusConflict,
	"CONCURRENCY_CONFLICT":    http.StatusConflict,

	// Cross-tenant access -> 403
	"TENANT_MISMATCH": http.StatusForbidden,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error when the code is not mapped.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
