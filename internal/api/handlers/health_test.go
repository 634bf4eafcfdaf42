package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"promptqr/internal/platform/preferences"
)

type pingStore struct {
	*preferences.MemoryStore
	err error
}

func (s *pingStore) Ping(context.Context) error { return s.err }

func TestHealthHandler_Check(t *testing.T) {
	tests := []struct {
		name       string
		store      preferences.Store
		wantCode   int
		wantStatus string
		wantCheck  string
	}{
		{"disabled", nil, http.StatusOK, "healthy", "disabled"},
		{"memory", preferences.NewMemoryStore(), http.StatusOK, "healthy", "healthy"},
		{"pinger ok", &pingStore{MemoryStore: preferences.NewMemoryStore()}, http.StatusOK, "healthy", "healthy"},
		{"pinger down", &pingStore{MemoryStore: preferences.NewMemoryStore(), err: errors.New("connection refused")}, http.StatusServiceUnavailable, "degraded", "unhealthy: connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			NewHealthHandler(tt.store).Check(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			if rr.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantCode)
			}

			var resp struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("status field = %s, want %s", resp.Status, tt.wantStatus)
			}
			if resp.Checks["preferences"] != tt.wantCheck {
				t.Errorf("checks.preferences = %s, want %s", resp.Checks["preferences"], tt.wantCheck)
			}
		})
	}
}
