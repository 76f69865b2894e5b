// Package config loads front-end settings and the simulation configuration
// from YAML or .properties files and FORESTFIRE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"forestfire/internal/core"
	"forestfire/internal/forest"
	"forestfire/internal/logging"
)

// Settings is everything a front end needs to start.
type Settings struct {
	Simulation forest.Config
	Logging    LoggingConfig
	Server     ServerConfig
	Display    DisplayConfig
}

// LoggingConfig configures the slog output.
type LoggingConfig struct {
	// Level is "debug", "info" (default), "warn" or "error".
	Level string `yaml:"level"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DisplayConfig configures the terminal and window front ends.
type DisplayConfig struct {
	// Scale is the pixel size of one cell in the window.
	Scale int `yaml:"scale"`
	// TPS is the autoplay rate in steps per second.
	TPS int `yaml:"tps"`
}

// Default returns settings with sensible defaults.
func Default() Settings {
	return Settings{
		Simulation: forest.DefaultConfig(),
		Logging:    LoggingConfig{Level: "info"},
		Server:     ServerConfig{Addr: ":8080"},
		Display:    DisplayConfig{Scale: 16, TPS: 5},
	}
}

// Load builds settings from defaults, then the file at path (if any), then
// the environment, then adjust (if non-nil), and validates the result.
func Load(path string, adjust func(*Settings) error) (Settings, error) {
	s := Default()
	if path != "" {
		var err error
		if s, err = LoadFile(path); err != nil {
			return Settings{}, err
		}
	}
	if err := ApplyEnv(&s); err != nil {
		return Settings{}, err
	}
	if adjust != nil {
		if err := adjust(&s); err != nil {
			return Settings{}, err
		}
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadFile reads settings from a .yaml/.yml or .properties file on top of the
// defaults. The result is not validated.
func LoadFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("reading config file: %w", err)
	}
	s := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = decodeYAML(data, &s)
	case ".properties":
		err = decodeProperties(data, &s)
	default:
		return Settings{}, fmt.Errorf("unsupported config file type %q", ext)
	}
	if err != nil {
		return Settings{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return s, nil
}

// Validate checks the simulation configuration and the front-end settings.
func (s Settings) Validate() error {
	if err := s.Simulation.Validate(); err != nil {
		return err
	}
	if !logging.ValidLevel(s.Logging.Level) {
		return invalid("log.level", "unknown level %q (valid: debug, info, warn, error)", s.Logging.Level)
	}
	if strings.TrimSpace(s.Server.Addr) == "" {
		return invalid("server.addr", "must not be empty")
	}
	if s.Display.Scale < 1 {
		return invalid("display.scale", "must be at least 1, got %d", s.Display.Scale)
	}
	if s.Display.TPS < core.MinTPS || s.Display.TPS > core.MaxTPS {
		return invalid("display.tps", "must be between %d and %d, got %d", core.MinTPS, core.MaxTPS, s.Display.TPS)
	}
	return nil
}

func invalid(field, format string, args ...any) error {
	return &forest.ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// asConfigError keeps configuration errors intact and turns decoder failures
// into configuration errors attributed to field.
func asConfigError(field string, err error) error {
	if err == nil || errors.Is(err, forest.ErrInvalidConfig) {
		return err
	}
	return &forest.ConfigurationError{Field: field, Reason: err.Error()}
}
