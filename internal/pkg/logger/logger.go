package logger

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"promptqr/internal/platform/config"
)

func Init(cfg config.LoggingConfig) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var level zerolog.Level
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Output == "file" && cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
			log.Error().Err(err).Msg("failed to create log directory")
			// fallback to stdout
			return
		}

		file, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0664)
		if err != nil {
			log.Error().Err(err).Msg("failed to open log file")
			return
		}
		log.Logger = zerolog.New(file).With().Timestamp().Logger()
	} else if cfg.Format == "text" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		// JSON format to stderr keeps stdout free for CLI output
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

// ForSession returns a child of the global logger tagged with the component
// and the form session it serves. An empty session is left off.
func ForSession(component, session string) zerolog.Logger {
	ctx := log.With().Str("component", component)
	if session != "" {
		ctx = ctx.Str("session", session)
	}
	return ctx.Logger()
}

// MaskIdentifier keeps the last four characters of a PromptPay identifier
// so log lines can correlate requests without carrying the full number.
func MaskIdentifier(id string) string {
	if len(id) <= 4 {
		return "****"
	}
	masked := make([]byte, len(id))
	for i := range masked {
		if i < len(id)-4 {
			masked[i] = '*'
		} else {
			masked[i] = id[i]
		}
	}
	return string(masked)
}
