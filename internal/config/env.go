package config

import (
	"os"

	"forestfire/internal/forest"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "FORESTFIRE_"

// envSettings holds raw environment values. Fields are pre-filled from the
// current settings so unset variables leave them unchanged.
type envSettings struct {
	Height      int     `env:"HEIGHT"`
	Width       int     `env:"WIDTH"`
	Probability float64 `env:"PROBABILITY"`
	Ignitions   string  `env:"IGNITIONS"`
	Seed        int64   `env:"SEED"`
	LogLevel    string  `env:"LOG_LEVEL"`
	Addr        string  `env:"ADDR"`
	Scale       int     `env:"SCALE"`
	TPS         int     `env:"TPS"`
}

// ApplyEnv overlays FORESTFIRE_* variables from the process environment.
func ApplyEnv(s *Settings) error {
	return applyEnv(s, env.ToMap(os.Environ()))
}

func applyEnv(s *Settings, environ map[string]string) error {
	raw := envSettings{
		Height:      s.Simulation.Height,
		Width:       s.Simulation.Width,
		Probability: s.Simulation.Probability,
		Ignitions:   forest.FormatIgnitions(s.Simulation.Ignitions),
		Seed:        s.Simulation.Seed,
		LogLevel:    s.Logging.Level,
		Addr:        s.Server.Addr,
		Scale:       s.Display.Scale,
		TPS:         s.Display.TPS,
	}
	if err := env.ParseWithOptions(&raw, env.Options{Prefix: EnvPrefix, Environment: environ}); err != nil {
		return asConfigError("env", err)
	}
	positions, err := forest.ParseIgnitions(raw.Ignitions)
	if err != nil {
		return err
	}
	s.Simulation = forest.Config{
		Height:      raw.Height,
		Width:       raw.Width,
		Probability: raw.Probability,
		Ignitions:   positions,
		Seed:        raw.Seed,
	}
	s.Logging.Level = raw.LogLevel
	s.Server.Addr = raw.Addr
	s.Display.Scale = raw.Scale
	s.Display.TPS = raw.TPS
	return nil
}
