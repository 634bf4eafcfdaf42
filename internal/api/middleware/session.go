package middleware

import (
	"context"
	"net/http"
	"time"

	apiContext "promptqr/internal/api/context"
	"promptqr/internal/engine/form"
	"promptqr/internal/engine/session"
	"promptqr/internal/pkg/i18n"
)

// Acquirer hands out the form controller of a session.
type Acquirer interface {
	Acquire(ctx context.Context, id string) *form.Controller
}

// SessionContext is what handlers find under apiContext.Session.
type SessionContext struct {
	ID   string
	Form *form.Controller
}

type SessionMiddleware struct {
	sessions      Acquirer
	cookieName    string
	cookieMaxAge  time.Duration
	defaultLocale string
}

func NewSessionMiddleware(sessions Acquirer, cookieName string, maxAge time.Duration, defaultLocale string) *SessionMiddleware {
	return &SessionMiddleware{
		sessions:      sessions,
		cookieName:    cookieName,
		cookieMaxAge:  maxAge,
		defaultLocale: defaultLocale,
	}
}

// Handle resolves the session cookie, issuing a new one when it is missing
// or malformed, and puts the session's form controller in the context.
func (m *SessionMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(m.cookieName); err == nil && session.ValidID(c.Value) {
			id = c.Value
		}
		if id == "" {
			id = session.NewID()
		}

		http.SetCookie(w, &http.Cookie{
			Name:     m.cookieName,
			Value:    id,
			Path:     "/",
			MaxAge:   int(m.cookieMaxAge.Seconds()),
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})

		controller := m.sessions.Acquire(r.Context(), id)
		loc := LocalizerFrom(r)
		if loc == nil {
			loc = i18n.New(i18n.Match(r.Header.Get("Accept-Language"), m.defaultLocale).String())
		}
		controller.SetLocale(loc.Tag().String())

		ctx := context.WithValue(r.Context(), apiContext.Session, &SessionContext{ID: id, Form: controller})
		next(w, r.WithContext(ctx))
	}
}

// Locale picks the message language from Accept-Language.
func Locale(defaultLocale string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			tag := i18n.Match(r.Header.Get("Accept-Language"), defaultLocale)
			ctx := context.WithValue(r.Context(), apiContext.Localizer, i18n.New(tag.String()))
			next(w, r.WithContext(ctx))
		}
	}
}

func LocalizerFrom(r *http.Request) *i18n.Localizer {
	loc, _ := r.Context().Value(apiContext.Localizer).(*i18n.Localizer)
	return loc
}

func SessionFrom(r *http.Request) *SessionContext {
	s, _ := r.Context().Value(apiContext.Session).(*SessionContext)
	return s
}
