package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestRateLimiter_Allow(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rl := NewRateLimiter(nil, clock)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("k", 3) {
			t.Fatalf("Allow() #%d = false, want true", i)
		}
	}
	if rl.Allow("k", 3) {
		t.Error("Allow() = true after the bucket drained")
	}
	if !rl.Allow("other", 3) {
		t.Error("Allow() = false for an unrelated key")
	}

	// 3 per minute refills one token every 20s
	clock.Advance(20 * time.Second)
	if !rl.Allow("k", 3) {
		t.Error("Allow() = false after refill")
	}
}

func TestRateLimiter_Cleanup(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rl := NewRateLimiter(nil, clock)
	defer rl.Stop()

	rl.Allow("k", 1)
	clock.Advance(11 * time.Minute)
	rl.cleanup(10 * time.Minute)

	if _, ok := rl.store.Load("k"); ok {
		t.Error("cleanup() kept an idle bucket")
	}
}

func TestRateLimiter_Limit(t *testing.T) {
	rl := NewRateLimiter(map[string]int{LimitGenerate: 1}, clockwork.NewFakeClock())
	defer rl.Stop()

	handler := rl.Limit(LimitGenerate)(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		remoteAddr string
		want       int
	}{
		{"first request", "10.0.0.1:5000", http.StatusOK},
		{"same client", "10.0.0.1:5001", http.StatusTooManyRequests},
		{"other client", "10.0.0.2:5000", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/form/generate", nil)
			req.RemoteAddr = tt.remoteAddr
			rr := httptest.NewRecorder()

			handler(rr, req)

			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
			if tt.want == http.StatusTooManyRequests && rr.Header().Get("Retry-After") != "60" {
				t.Error("Retry-After header missing")
			}
		})
	}
}
