// Command promptqr generates a PromptPay QR code from the command line.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"promptqr/internal/engine/export"
	"promptqr/internal/engine/form"
	"promptqr/internal/engine/render"
	"promptqr/internal/pkg/logger"
	"promptqr/internal/platform/config"
	"promptqr/internal/platform/preferences"
)

type app struct {
	fs        afero.Fs
	clipboard export.Clipboard
	stdout    io.Writer
	stderr    io.Writer
}

func main() {
	a := &app{
		fs:        afero.NewOsFs(),
		clipboard: export.NewSystemClipboard(),
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}
	os.Exit(a.run(context.Background(), os.Args[1:]))
}

func (a *app) run(ctx context.Context, args []string) int {
	flags := pflag.NewFlagSet("promptqr", pflag.ContinueOnError)
	flags.SetOutput(a.stderr)

	id := flags.String("id", "", "PromptPay ID: 10-digit mobile number or 13-digit national ID")
	amount := flags.String("amount", "", "Amount in baht (optional)")
	remember := flags.Bool("remember", true, "Remember the ID and amount for next time")
	png := flags.Bool("png", false, "Save the QR code as PNG")
	svg := flags.Bool("svg", false, "Save the QR code as SVG")
	copyPayload := flags.Bool("copy", false, "Copy the QR string to the clipboard")
	terminal := flags.Bool("terminal", false, "Draw the QR code in the terminal")
	out := flags.String("out", ".", "Directory for saved files")
	flags.String("lang", "", "Message language: th or en")
	flags.String("store", "", "Preference store: sqlite, memory or none")
	configPath := flags.String("config", "", "Path to config file")

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	v := viper.New()
	v.SetDefault("preferences.driver", "sqlite")
	v.SetDefault("preferences.path", defaultPreferencesPath())
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "text")
	v.BindPFlag("form.default_locale", flags.Lookup("lang"))
	v.BindPFlag("preferences.driver", flags.Lookup("store"))

	cfg, err := config.LoadWith(v, *configPath)
	if err != nil {
		fmt.Fprintf(a.stderr, "Failed to load config: %v\n", err)
		return 1
	}
	logger.Init(cfg.Logging)

	store, closer, err := preferences.Open(ctx, cfg.Preferences)
	if err != nil {
		log.Warn().Err(err).Str("driver", cfg.Preferences.Driver).Msg("preferences unavailable, continuing without")
		store, closer = nil, io.NopCloser(nil)
	}
	defer closer.Close()

	renderer, err := render.NewRenderer(cfg.QR.Size, cfg.QR.Level, cfg.QR.Border)
	if err != nil {
		fmt.Fprintf(a.stderr, "Invalid QR settings: %v\n", err)
		return 1
	}

	c := form.New(form.Options{
		Renderer:   renderer,
		Store:      store,
		Clock:      clockwork.NewRealClock(),
		SuccessTTL: cfg.Form.SuccessTTL,
		Locale:     cfg.Form.DefaultLocale,
	})
	defer c.Close()

	if err := c.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to load stored preference")
	}

	if *id != "" {
		in := form.Input{Identifier: *id, Amount: *amount}
		if flags.Changed("remember") {
			in.Remember = remember
		}
		_ = c.Generate(ctx, in)
	}

	state := c.State()
	if state.LastPayload == "" {
		if state.ErrorMessage != "" {
			fmt.Fprintln(a.stderr, state.ErrorMessage)
		} else {
			fmt.Fprintln(a.stderr, "No remembered PromptPay ID; pass --id")
		}
		return 1
	}
	fmt.Fprintln(a.stdout, state.LastPayload)

	if *terminal {
		sym, err := renderer.Render(state.LastPayload)
		if err != nil {
			fmt.Fprintf(a.stderr, "Failed to draw QR: %v\n", err)
			return 1
		}
		fmt.Fprint(a.stdout, sym.Terminal())
	}

	status := 0
	saver := export.NewDirSaver(a.fs, *out)
	steps := []struct {
		enabled bool
		run     func() error
	}{
		{*png, func() error { return c.DownloadPNG(ctx, saver) }},
		{*svg, func() error { return c.DownloadSVG(ctx, saver) }},
		{*copyPayload, func() error { return c.CopyPayload(ctx, a.clipboard) }},
	}
	for _, step := range steps {
		if !step.enabled {
			continue
		}
		err := step.run()
		st := c.State()
		if err != nil {
			fmt.Fprintln(a.stderr, st.ErrorMessage)
			status = 1
			continue
		}
		fmt.Fprintln(a.stderr, st.SuccessMessage)
	}

	return status
}

func defaultPreferencesPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "promptqr", "preferences.db")
}
