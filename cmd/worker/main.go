package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"promptqr/internal/pkg/logger"
	"promptqr/internal/platform/config"
	"promptqr/internal/platform/database"
	"promptqr/internal/platform/preferences"
	"promptqr/internal/workers"
)

func main() {
	configPath := pflag.String("config", "configs/config.yaml", "Path to config file")
	once := pflag.Bool("once", false, "Prune once and exit")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Logging)

	// redis entries expire by TTL and memory stores die with the server
	if cfg.Preferences.Driver != "sqlite" {
		log.Info().Str("driver", cfg.Preferences.Driver).Msg("nothing to prune for this preference driver")
		return
	}

	db, err := database.OpenSQLite(cfg.Preferences.Path, 1)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open preference database")
	}
	defer db.Close()

	store := preferences.NewSQLStore(db)
	clock := clockwork.NewRealClock()

	if *once {
		if _, err := workers.PrunePreferences(context.Background(), store, clock, cfg.Preferences.Retention); err != nil {
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Dur("interval", cfg.Worker.PruneInterval).Msg("starting preference pruner")
	workers.RunPruner(ctx, store, clock, cfg.Preferences.Retention, cfg.Worker.PruneInterval)
	log.Info().Msg("worker stopped")
}
