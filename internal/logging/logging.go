// Package logging builds the zerolog logger shared by the CLI and the MCP server.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// EnvLevel is the environment variable that overrides the configured level.
const EnvLevel = "GVT_LOG_LEVEL"

// New returns a console logger writing to w at the given level.
// Unknown level names fall back to warn.
func New(level string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: true}
	return zerolog.New(out).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// ResolveLevel picks the first non-empty of flag, $GVT_LOG_LEVEL and the config value.
func ResolveLevel(flag, configured string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvLevel); env != "" {
		return env
	}
	return configured
}

// ParseLevel maps a level name to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.WarnLevel
	}
	return lvl
}
