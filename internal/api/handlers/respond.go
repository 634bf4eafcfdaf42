package handlers

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"promptqr/internal/engine/export"
	"promptqr/internal/engine/promptpay"
	"promptqr/internal/pkg/errors"
)

const maxBodyBytes = 1 << 16

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return false
	}
	return true
}

// classify maps an engine error to an HTTP status and error code.
func classify(err error) (int, string) {
	code := errors.ErrCodeInternal
	switch {
	case stderrors.Is(err, promptpay.ErrInvalidIdentifier):
		code = errors.ErrCodeInvalidIdentifier
	case stderrors.Is(err, promptpay.ErrInvalidAmount):
		code = errors.ErrCodeInvalidAmount
	case stderrors.Is(err, promptpay.ErrEncodingFailure):
		code = errors.ErrCodeEncodingFailure
	case stderrors.Is(err, export.ErrNoPayload):
		code = errors.ErrCodeNoPayload
	case stderrors.Is(err, export.ErrExportFailure):
		code = errors.ErrCodeExportFailure
	}
	return errors.StatusFor(code), code
}

func contentDisposition(disposition, filename string) string {
	return fmt.Sprintf("%s; filename=%q", disposition, filename)
}
