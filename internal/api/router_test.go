package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"promptqr/internal/api/handlers"
	"promptqr/internal/api/middleware"
	"promptqr/internal/engine/form"
	"promptqr/internal/engine/promptpay"
	"promptqr/internal/engine/render"
	"promptqr/internal/engine/session"
	"promptqr/internal/pkg/errors"
	"promptqr/internal/platform/preferences"
)

const cookieName = "promptqr_session"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	renderer, err := render.NewRenderer(260, "highest", false)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	clock := clockwork.NewFakeClock()
	store := preferences.NewMemoryStore()

	registry := session.NewRegistry(time.Hour, clock, session.ControllerFactory(form.Options{
		Renderer: renderer,
		Clock:    clock,
		Locale:   "th",
	}, store))
	t.Cleanup(registry.Close)

	limiter := middleware.NewRateLimiter(map[string]int{
		middleware.LimitGenerate: 1000,
		middleware.LimitExport:   1000,
	}, clock)
	t.Cleanup(limiter.Stop)

	return NewRouter(&Dependencies{
		FormHandler:       handlers.NewFormHandler(),
		QRHandler:         handlers.NewQRHandler(promptpay.NewEncoder(), renderer),
		HealthHandler:     handlers.NewHealthHandler(store),
		MetricsHandler:    handlers.NewMetricsHandler(),
		SessionMiddleware: middleware.NewSessionMiddleware(registry, cookieName, time.Hour, "th"),
		RateLimiter:       limiter,
		DefaultLocale:     "th",
	})
}

type client struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func (c *client) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	rr := httptest.NewRecorder()
	c.handler.ServeHTTP(rr, req)

	for _, ck := range rr.Result().Cookies() {
		if ck.Name == cookieName {
			c.cookie = ck
		}
	}
	return rr
}

func decodeState(t *testing.T, rr *httptest.ResponseRecorder) form.State {
	t.Helper()
	var st form.State
	if err := json.NewDecoder(rr.Body).Decode(&st); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return st
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) (errors.ErrorResponse, form.State) {
	t.Helper()
	var resp struct {
		errors.ErrorResponse
		Details form.State `json:"details"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return resp.ErrorResponse, resp.Details
}

func TestFormFlow(t *testing.T) {
	c := &client{t: t, handler: newTestRouter(t)}

	rr := c.do(http.MethodPost, "/api/v1/form/generate", `{"identifier":"0812345678","amount":"100"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("generate status = %d, body %s", rr.Code, rr.Body)
	}
	st := decodeState(t, rr)
	want := "00020101021129370016A000000677010111011300668123456785802TH53037645406100.006304BB8A"
	if st.LastPayload != want {
		t.Errorf("last_payload = %q, want %q", st.LastPayload, want)
	}
	if st.SuccessMessage == "" {
		t.Error("success_message is empty")
	}
	if c.cookie == nil {
		t.Fatal("no session cookie issued")
	}

	rr = c.do(http.MethodGet, "/api/v1/form/qr.png", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("qr.png status = %d, body %s", rr.Code, rr.Body)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %s, want image/png", ct)
	}
	wantDisposition := `attachment; filename="PromptPay_QR_081-234-5678_100.png"`
	if got := rr.Header().Get("Content-Disposition"); got != wantDisposition {
		t.Errorf("Content-Disposition = %s, want %s", got, wantDisposition)
	}

	rr = c.do(http.MethodGet, "/api/v1/form/qr.svg", "")
	if rr.Code != http.StatusOK || !strings.HasPrefix(rr.Body.String(), `<svg width="260"`) {
		t.Errorf("qr.svg status = %d, body %.60s", rr.Code, rr.Body)
	}

	rr = c.do(http.MethodPost, "/api/v1/form/copy", "")
	if rr.Code != http.StatusOK || rr.Body.String() != want {
		t.Errorf("copy status = %d, body %q", rr.Code, rr.Body)
	}

	rr = c.do(http.MethodGet, "/api/v1/form", "")
	st = decodeState(t, rr)
	if st.Identifier != "081-234-5678" || st.Amount != "100" || st.LastPayload != want {
		t.Errorf("GET /api/v1/form = %+v", st)
	}
}

func TestFormFailures(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"short identifier", http.MethodPost, "/api/v1/form/generate", `{"identifier":"123"}`, http.StatusUnprocessableEntity, errors.ErrCodeInvalidIdentifier},
		{"fourteen digit identifier", http.MethodPost, "/api/v1/form/generate", `{"identifier":"11017002092615"}`, http.StatusUnprocessableEntity, errors.ErrCodeInvalidIdentifier},
		{"hex amount", http.MethodPost, "/api/v1/form/generate", `{"identifier":"0812345678","amount":"0x1p4"}`, http.StatusUnprocessableEntity, errors.ErrCodeInvalidAmount},
		{"negative amount", http.MethodPost, "/api/v1/form/generate", `{"identifier":"0812345678","amount":"-5"}`, http.StatusUnprocessableEntity, errors.ErrCodeInvalidAmount},
		{"png without payload", http.MethodGet, "/api/v1/form/qr.png", "", http.StatusUnprocessableEntity, errors.ErrCodeNoPayload},
		{"copy without payload", http.MethodPost, "/api/v1/form/copy", "", http.StatusUnprocessableEntity, errors.ErrCodeNoPayload},
		{"bad json", http.MethodPost, "/api/v1/form/generate", `{`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"remember missing", http.MethodPut, "/api/v1/form/remember", `{}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown route", http.MethodGet, "/nope", "", http.StatusNotFound, errors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &client{t: t, handler: newTestRouter(t)}

			rr := c.do(tt.method, tt.path, tt.body)
			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.wantCode, rr.Body)
			}
			resp, st := decodeError(t, rr)
			if resp.Code != tt.wantErr {
				t.Errorf("code = %s, want %s", resp.Code, tt.wantErr)
			}
			if tt.wantCode == http.StatusUnprocessableEntity && st.ErrorMessage != resp.Message {
				t.Errorf("details.error_message = %q, message = %q", st.ErrorMessage, resp.Message)
			}
		})
	}
}

func TestBlurAndRemember(t *testing.T) {
	c := &client{t: t, handler: newTestRouter(t)}

	rr := c.do(http.MethodPost, "/api/v1/form/amount/blur", `{"amount":"12.5"}`)
	if st := decodeState(t, rr); st.Amount != "12.50" {
		t.Errorf("amount = %q, want 12.50", st.Amount)
	}

	rr = c.do(http.MethodPut, "/api/v1/form/remember", `{"remember":false}`)
	if st := decodeState(t, rr); st.RememberPreference {
		t.Error("remember_preference = true, want false")
	}

	rr = c.do(http.MethodPost, "/api/v1/form/identifier/blur", `{"identifier":"11017002092615"}`)
	st := decodeState(t, rr)
	if st.Identifier != "1-1017-00209-26-15" || st.LastPayload != "" {
		t.Errorf("blur with 14 digits = %+v, want no payload and every digit kept", st)
	}

	rr = c.do(http.MethodPost, "/api/v1/form/identifier/blur", `{"identifier":"1101700209261"}`)
	st = decodeState(t, rr)
	if st.Identifier != "1-1017-00209-26-1" {
		t.Errorf("identifier = %q, want masked national id", st.Identifier)
	}
	if st.LastPayload == "" {
		t.Error("blur with a complete identifier did not generate")
	}
}

func TestStatelessQR(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name     string
		query    string
		lang     string
		wantCode int
		wantType string
		wantBody string
	}{
		{
			name:     "text",
			query:    "id=0812345678",
			wantCode: http.StatusOK,
			wantType: "text/plain; charset=utf-8",
			wantBody: "00020101021129370016A000000677010111011300668123456785802TH530376463045D82",
		},
		{
			name:     "png",
			query:    "id=0812345678&amount=100&format=png",
			wantCode: http.StatusOK,
			wantType: "image/png",
		},
		{
			name:     "svg",
			query:    "id=1101700209261&format=svg",
			wantCode: http.StatusOK,
			wantType: "image/svg+xml",
		},
		{
			name:     "bad format",
			query:    "id=0812345678&format=gif",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "fourteen digits",
			query:    "id=11017002092615",
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "invalid id in english",
			query:    "id=123",
			lang:     "en",
			wantCode: http.StatusUnprocessableEntity,
			wantBody: "PromptPay ID must be a 10-digit mobile number or a 13-digit national ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/qr?"+tt.query, nil)
			if tt.lang != "" {
				req.Header.Set("Accept-Language", tt.lang)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.wantCode, rr.Body)
			}
			if tt.wantType != "" && rr.Header().Get("Content-Type") != tt.wantType {
				t.Errorf("Content-Type = %s, want %s", rr.Header().Get("Content-Type"), tt.wantType)
			}
			if tt.wantBody != "" && !strings.Contains(rr.Body.String(), tt.wantBody) {
				t.Errorf("body = %s, want it to contain %s", rr.Body, tt.wantBody)
			}
		})
	}
}

func TestOperationalEndpoints(t *testing.T) {
	h := newTestRouter(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("/healthz status = %d, want 200", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rr.Body.String(), "promptqr_up 1") {
		t.Errorf("/metrics body = %s", rr.Body)
	}
	if !strings.Contains(rr.Body.String(), "# TYPE promptqr_generations_total counter") {
		t.Errorf("/metrics missing generation counter: %s", rr.Body)
	}
}
