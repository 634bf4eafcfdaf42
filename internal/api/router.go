package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	apiContext "promptqr/internal/api/context"
	"promptqr/internal/api/handlers"
	"promptqr/internal/api/middleware"
	"promptqr/internal/pkg/errors"
)

type Dependencies struct {
	FormHandler       *handlers.FormHandler
	QRHandler         *handlers.QRHandler
	HealthHandler     *handlers.HealthHandler
	MetricsHandler    *handlers.MetricsHandler
	SessionMiddleware *middleware.SessionMiddleware
	RateLimiter       *middleware.RateLimiter
	DefaultLocale     string
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(notFound)

	// Operational endpoints
	router.GET("/healthz", wrap(deps.HealthHandler.Check))
	router.GET("/metrics", wrap(deps.MetricsHandler.Export))

	locale := middleware.Locale(deps.DefaultLocale)
	sessionMid := deps.SessionMiddleware.Handle
	generateLimit := deps.RateLimiter.Limit(middleware.LimitGenerate)
	exportLimit := deps.RateLimiter.Limit(middleware.LimitExport)

	// Stateless generation
	router.GET("/api/v1/qr",
		chain(deps.QRHandler.Generate, locale, generateLimit))

	// Session form
	router.GET("/api/v1/form",
		chain(deps.FormHandler.Get, locale, sessionMid))
	router.POST("/api/v1/form/generate",
		chain(deps.FormHandler.Generate, locale, sessionMid, generateLimit))
	router.POST("/api/v1/form/identifier/blur",
		chain(deps.FormHandler.BlurIdentifier, locale, sessionMid, generateLimit))
	router.POST("/api/v1/form/amount/blur",
		chain(deps.FormHandler.BlurAmount, locale, sessionMid))
	router.PUT("/api/v1/form/remember",
		chain(deps.FormHandler.SetRemember, locale, sessionMid))

	// Exports
	router.GET("/api/v1/form/qr.png",
		chain(deps.FormHandler.DownloadPNG, locale, sessionMid, exportLimit))
	router.GET("/api/v1/form/qr.svg",
		chain(deps.FormHandler.DownloadSVG, locale, sessionMid, exportLimit))
	router.POST("/api/v1/form/copy",
		chain(deps.FormHandler.Copy, locale, sessionMid, exportLimit))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		// Inject params into context
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Route not found", nil)
}
