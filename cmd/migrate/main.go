package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"promptqr/internal/pkg/logger"
	"promptqr/internal/platform/config"
	"promptqr/internal/platform/database"
)

func main() {
	direction := pflag.String("direction", "up", "Migration direction: up or down")
	dir := pflag.String("dir", "migrations", "Directory holding the .sql files")
	dbPath := pflag.String("db", "", "SQLite file (defaults to preferences.path from config)")
	configPath := pflag.String("config", "configs/config.yaml", "Path to config file")

	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Logging)

	path := *dbPath
	if path == "" {
		path = cfg.Preferences.Path
	}

	db, err := database.OpenSQLite(path, 1)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("failed to open database")
	}
	defer db.Close()

	applied, err := database.Migrate(context.Background(), db, afero.NewOsFs(), *dir, *direction)
	if err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	log.Info().Int("files", len(applied)).Str("direction", *direction).Msg("migration completed successfully")
}
