package dto

import (
	"net/http"
	"strings"
	"time"
)

// Error codes returned in ErrorInfo.Code. Domain errors carry bare codes
// (QUOTE_EMPTY) that NormalizeErrorCode prefixes with ERR_.
const (
	ErrCodeInternal   = "ERR_INTERNAL"
	ErrCodeValidation = "ERR_VALIDATION"
	ErrCodeBadRequest = "ERR_BAD_REQUEST"

	ErrCodeInvalidInput    = "ERR_INVALID_INPUT"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	ErrCodeRateLimited     = "ERR_RATE_LIMITED"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"

	ErrCodeNotFound         = "ERR_NOT_FOUND"
	ErrCodeSequenceNotFound = "ERR_SEQUENCE_NOT_FOUND"
	ErrCodeAlreadyExists    = "ERR_ALREADY_EXISTS"
	// ErrCodeConcurrencyConflict means the stored version no longer matches
	// the one the client edited
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeInvalidState   = "ERR_INVALID_STATE"
	ErrCodeOverReceipt    = "ERR_OVER_RECEIPT"
	ErrCodeOverProduction = "ERR_OVER_PRODUCTION"

	ErrCodeWebhookSignature          = "ERR_WEBHOOK_SIGNATURE"
	ErrCodeWebhookTimestamp          = "ERR_WEBHOOK_TIMESTAMP"
	ErrCodeWebhookReplay             = "ERR_WEBHOOK_REPLAY"
	ErrCodeWebhookUnknownIntegration = "ERR_WEBHOOK_UNKNOWN_INTEGRATION"
	ErrCodeWebhookForwardFailed      = "ERR_WEBHOOK_FORWARD_FAILED"

	// ErrCodeStorageUnavailable is returned for archived documents when no
	// object storage is configured
	ErrCodeStorageUnavailable = "ERR_STORAGE_UNAVAILABLE"
)

var statusByCode = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeBadRequest: http.StatusBadRequest,

	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeSequenceNotFound:    http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:   http.StatusUnprocessableEntity,
	ErrCodeOverReceipt:    http.StatusUnprocessableEntity,
	ErrCodeOverProduction: http.StatusUnprocessableEntity,

	ErrCodeWebhookSignature:          http.StatusUnauthorized,
	ErrCodeWebhookTimestamp:          http.StatusUnauthorized,
	ErrCodeWebhookReplay:             http.StatusConflict,
	ErrCodeWebhookUnknownIntegration: http.StatusNotFound,
	ErrCodeWebhookForwardFailed:      http.StatusServiceUnavailable,

	ErrCodeStorageUnavailable: http.StatusServiceUnavailable,
}

// HTTPStatus maps a normalized code to its status. Codes without an
// explicit mapping are classified by their shape: ERR_INVALID_* is a 400,
// *_NOT_FOUND a 404, *_EXISTS a 409 and any other rule violation a 422.
func HTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	switch {
	case code == "":
		return http.StatusInternalServerError
	case strings.HasPrefix(code, "ERR_INVALID_"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "_EXISTS"):
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

var codeAliases = map[string]string{
	"VALIDATION_ERROR": ErrCodeValidation,
	"INTERNAL_ERROR":   ErrCodeInternal,
}

// NormalizeErrorCode converts a domain code to the ERR_ form. Codes already
// carrying the prefix are returned unchanged.
func NormalizeErrorCode(code string) string {
	if alias, ok := codeAliases[code]; ok {
		return alias
	}
	if code == "" || strings.HasPrefix(code, "ERR_") {
		return code
	}
	return "ERR_" + code
}

// ErrorInfo is the error member of the response envelope
type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// ValidationDetail describes one invalid field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func NewErrorResponse(code, message string) Response {
	return NewErrorResponseWithRequestID(code, message, "")
}

func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	return Response{
		Error: &ErrorInfo{
			Code:      NormalizeErrorCode(code),
			Message:   message,
			RequestID: requestID,
			Timestamp: time.Now(),
		},
	}
}

// NewValidationErrorResponse is an ERR_VALIDATION response listing the
// invalid fields
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	resp := NewErrorResponseWithRequestID(ErrCodeValidation, message, requestID)
	resp.Error.Details = details
	return resp
}
