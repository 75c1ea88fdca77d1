// Package config loads dxinspect settings from TOML.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/dxformat/dx"
	"github.com/dxformat/dx/internal/logging"
	"github.com/dxformat/dx/machine"
)

const DefaultPath = "dxinspect.toml"

type Config struct {
	LogLevel         zerolog.Level
	MaxInputSize     int
	DetailedUTF8     bool
	CompressionLevel machine.CompressionLevel
}

func Default() Config {
	return Config{
		LogLevel:         zerolog.InfoLevel,
		MaxInputSize:     dx.MaxInputSize,
		CompressionLevel: machine.LevelDefault,
	}
}

type fileConfig struct {
	LogLevel         string `toml:"log_level"`
	MaxInputSize     int    `toml:"max_input_size"`
	DetailedUTF8     bool   `toml:"detailed_utf8"`
	CompressionLevel string `toml:"compression_level"`
}

// Load reads path over the defaults. Keys absent from the file keep their
// default values; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load dxinspect config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("load dxinspect config: unknown keys %s", strings.Join(keys, ", "))
	}

	if meta.IsDefined("log_level") {
		lvl, ok := logging.ParseLevel(raw.LogLevel)
		if !ok {
			return Config{}, fmt.Errorf("parse log_level: unknown level %q", raw.LogLevel)
		}
		cfg.LogLevel = lvl
	}

	if meta.IsDefined("max_input_size") {
		cfg.MaxInputSize = raw.MaxInputSize
	}

	if meta.IsDefined("detailed_utf8") {
		cfg.DetailedUTF8 = raw.DetailedUTF8
	}

	if meta.IsDefined("compression_level") {
		lvl, err := machine.ParseCompressionLevel(raw.CompressionLevel)
		if err != nil {
			return Config{}, fmt.Errorf("parse compression_level: %w", err)
		}
		cfg.CompressionLevel = lvl
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.MaxInputSize <= 0 || c.MaxInputSize > dx.MaxInputSize {
		return fmt.Errorf("max_input_size must be in 1..%d, got %d", dx.MaxInputSize, c.MaxInputSize)
	}
	return nil
}

// CheckSize applies the configured input limit, which may be tighter than
// dx.MaxInputSize.
func (c Config) CheckSize(n int) error {
	if n > c.MaxInputSize {
		return &dx.InputTooLargeError{Size: n, Max: c.MaxInputSize}
	}
	return nil
}
