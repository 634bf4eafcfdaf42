package errors

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeInvalidIdentifier = "INVALID_IDENTIFIER"
	ErrCodeInvalidAmount     = "INVALID_AMOUNT"
	ErrCodeEncodingFailure   = "ENCODING_FAILURE"
	ErrCodeExportFailure     = "EXPORT_FAILURE"
	ErrCodeNoPayload         = "NO_PAYLOAD"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

func WriteError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    code,
		Details: details,
	})
}

// StatusFor returns the HTTP status a form error code is reported with.
// Rejected form input is 422 so the client can redraw the returned state.
func StatusFor(code string) int {
	switch code {
	case ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeInvalidIdentifier, ErrCodeInvalidAmount, ErrCodeEncodingFailure,
		ErrCodeExportFailure, ErrCodeNoPayload:
		return http.StatusUnprocessableEntity
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
