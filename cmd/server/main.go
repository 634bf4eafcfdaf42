package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"promptqr/internal/api"
	"promptqr/internal/api/handlers"
	"promptqr/internal/api/middleware"
	"promptqr/internal/engine/export"
	"promptqr/internal/engine/form"
	"promptqr/internal/engine/promptpay"
	"promptqr/internal/engine/render"
	"promptqr/internal/engine/session"
	"promptqr/internal/pkg/logger"
	"promptqr/internal/platform/config"
	"promptqr/internal/platform/preferences"
)

func main() {
	configPath := pflag.String("config", "configs/config.yaml", "Path to config file")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Preference store
	store, closer, err := preferences.Open(ctx, cfg.Preferences)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Preferences.Driver).Msg("failed to open preference store")
	}
	defer closer.Close()

	renderer, err := render.NewRenderer(cfg.QR.Size, cfg.QR.Level, cfg.QR.Border)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid qr settings")
	}
	encoder := promptpay.NewEncoder()
	clock := clockwork.NewRealClock()

	// Sessions
	factory := session.ControllerFactory(form.Options{
		Encoder:    encoder,
		Renderer:   renderer,
		Capturer:   export.NewPNGCapturer(),
		Clock:      clock,
		SuccessTTL: cfg.Form.SuccessTTL,
		Locale:     cfg.Form.DefaultLocale,
	}, store)
	registry := session.NewRegistry(cfg.Session.IdleTTL, clock, factory)
	defer registry.Close()
	go registry.Run(ctx, cfg.Session.SweepInterval)

	limiter := middleware.NewRateLimiter(map[string]int{
		middleware.LimitGenerate: cfg.RateLimit.GeneratePerMinute,
		middleware.LimitExport:   cfg.RateLimit.ExportPerMinute,
	}, clock)
	defer limiter.Stop()

	// Router
	deps := &api.Dependencies{
		FormHandler:       handlers.NewFormHandler(),
		QRHandler:         handlers.NewQRHandler(encoder, renderer),
		HealthHandler:     handlers.NewHealthHandler(store),
		MetricsHandler:    handlers.NewMetricsHandler(),
		SessionMiddleware: middleware.NewSessionMiddleware(registry, cfg.Session.CookieName, cfg.Preferences.Retention, cfg.Form.DefaultLocale),
		RateLimiter:       limiter,
		DefaultLocale:     cfg.Form.DefaultLocale,
	}
	router := api.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("preferences", cfg.Preferences.Driver).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error().Err(err).Msg("server failed")
		return
	case <-quit:
		log.Info().Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server exited")
}
