// Package logging builds the zerolog loggers used by the dx tools.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvLogLevel     = "DX_LOG_LEVEL"
	EnvLogTimestamp = "DX_LOG_TIMESTAMP"
	EnvLogNoColor   = "DX_LOG_NOCOLOR"
)

type Config struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
}

func DefaultConfig() Config {
	return Config{
		Level:     zerolog.InfoLevel,
		Timestamp: true,
	}
}

// New returns a console logger tagged with app and installs it as the
// global zerolog logger. Environment overrides win over cfg.
func New(app string, cfg Config, out io.Writer) zerolog.Logger {
	ApplyEnv(&cfg)
	if out == nil {
		out = os.Stderr
	}
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    cfg.NoColor,
	}
	if !cfg.Timestamp {
		output.PartsExclude = []string{zerolog.TimestampFieldName}
	}

	logger := zerolog.New(output).Level(cfg.Level).With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}

// ApplyEnv overlays the DX_LOG_* variables onto cfg. Unset or unparsable
// values are ignored.
func ApplyEnv(cfg *Config) {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
}

func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
