package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{in: "debug", want: zerolog.DebugLevel},
		{in: "INFO", want: zerolog.InfoLevel},
		{in: "warning", want: zerolog.WarnLevel},
		{in: "error", want: zerolog.ErrorLevel},
		{in: "", want: zerolog.InfoLevel},
		{in: "chatty", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseLevel(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseLevel(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewWritesConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "treetile.log")

	logger, closeFn, err := New(WithLevel(zerolog.InfoLevel), WithConsole(&console), WithFile(path))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug().Msg("hidden")
	logger.Info().Uint32("window_id", 7).Msg("visible")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if !strings.Contains(console.String(), "visible") || strings.Contains(console.String(), "hidden") {
		t.Fatalf("unexpected console output %q", console.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "window_id=7") {
		t.Fatalf("log file missing field: %q", data)
	}
}

func TestNewWithoutWriters(t *testing.T) {
	logger, closeFn, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info().Msg("dropped")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
