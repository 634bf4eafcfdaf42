package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"promptqr/internal/platform/config"
)

func TestInit_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "promptqr.log")
	Init(config.LoggingConfig{Level: "warn", Output: "file", FilePath: path})
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Errorf("GlobalLevel() = %v, want %v", zerolog.GlobalLevel(), zerolog.WarnLevel)
	}

	log.Warn().Msg("written")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected log file to contain the warning")
	}
}

func TestMaskIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0812345678", "******5678"},
		{"1101700209261", "*********9261"},
		{"123", "****"},
		{"", "****"},
	}
	for _, tt := range tests {
		if got := MaskIdentifier(tt.in); got != tt.want {
			t.Errorf("MaskIdentifier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestForSession(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	tests := []struct {
		name      string
		session   string
		wantField bool
	}{
		{"with session", "6f1c2a", true},
		{"without session", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			l := ForSession("form", tt.session)
			l.Warn().Msg("x")

			var entry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("decode log line: %v", err)
			}
			if entry["component"] != "form" {
				t.Errorf("component = %v, want form", entry["component"])
			}
			_, ok := entry["session"]
			if ok != tt.wantField {
				t.Errorf("session present = %v, want %v", ok, tt.wantField)
			}
			if ok && entry["session"] != tt.session {
				t.Errorf("session = %v, want %s", entry["session"], tt.session)
			}
		})
	}
}
