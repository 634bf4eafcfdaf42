package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"promptqr/internal/platform/preferences"
)

type HealthHandler struct {
	store preferences.Store
}

// NewHealthHandler checks store when it can be pinged. A nil store means
// persistence is disabled.
func NewHealthHandler(store preferences.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)

	switch s := h.store.(type) {
	case nil:
		checks["preferences"] = "disabled"
	case preferences.Pinger:
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.Ping(ctx); err != nil {
			checks["preferences"] = "unhealthy: " + err.Error()
		} else {
			checks["preferences"] = "healthy"
		}
	default:
		checks["preferences"] = "healthy"
	}

	status := "healthy"
	for _, check := range checks {
		if len(check) >= 9 && check[:9] == "unhealthy" {
			status = "degraded"
			break
		}
	}

	response := struct {
		Status    string            `json:"status"`
		Timestamp int64             `json:"timestamp"`
		Checks    map[string]string `json:"checks"`
	}{
		Status:    status,
		Timestamp: time.Now().Unix(),
		Checks:    checks,
	}

	statusCode := http.StatusOK
	if status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}
