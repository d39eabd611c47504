package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{" error ", zerolog.ErrorLevel},
		{"", zerolog.WarnLevel},
		{"bogus", zerolog.WarnLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResolveLevel(t *testing.T) {
	t.Setenv(EnvLevel, "info")

	if got := ResolveLevel("debug", "warn"); got != "debug" {
		t.Errorf("flag should win, got %q", got)
	}
	if got := ResolveLevel("", "warn"); got != "info" {
		t.Errorf("env should beat config, got %q", got)
	}

	t.Setenv(EnvLevel, "")
	if got := ResolveLevel("", "error"); got != "error" {
		t.Errorf("config fallback, got %q", got)
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New("warn", &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Str("file", "a.txt").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "a.txt") {
		t.Errorf("warn message missing: %q", out)
	}
}
