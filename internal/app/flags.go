package app

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"forestfire/internal/config"
	"forestfire/internal/forest"
	"forestfire/internal/logging"

	"github.com/spf13/pflag"
)

// Options holds the command-line parameters shared by every front end.
// Flags left at their zero value defer to the config file and environment.
type Options struct {
	ConfigPath string
	LogLevel   string
	Overrides  []string
	Scale      int
	TPS        int
}

// NewOptions returns empty options; defaults come from config.Default.
func NewOptions() *Options {
	return &Options{}
}

// Bind attaches the configuration flags to fs.
func (o *Options) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ConfigPath, "config", "c", o.ConfigPath, "path to a .yaml or .properties config file")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "log level (debug, info, warn, error)")
	fs.StringArrayVar(&o.Overrides, "set", o.Overrides, "simulation override in key=value form (repeatable)")
}

// BindDisplay attaches the window and console flags to fs.
func (o *Options) BindDisplay(fs *pflag.FlagSet) {
	fs.IntVar(&o.Scale, "scale", o.Scale, "pixels per cell")
	fs.IntVar(&o.TPS, "tps", o.TPS, "autoplay steps per second")
}

// Load resolves settings from defaults, the config file, the environment and
// finally the flags, then validates the result.
func (o *Options) Load() (config.Settings, error) {
	return config.Load(o.ConfigPath, o.apply)
}

func (o *Options) apply(s *config.Settings) error {
	overrides, err := ParseOverrides(o.Overrides)
	if err != nil {
		return err
	}
	if len(overrides) > 0 {
		cfg, err := s.Simulation.Apply(overrides)
		if err != nil {
			return err
		}
		s.Simulation = cfg
	}
	if o.LogLevel != "" {
		s.Logging.Level = o.LogLevel
	}
	if o.Scale != 0 {
		s.Display.Scale = o.Scale
	}
	if o.TPS != 0 {
		s.Display.TPS = o.TPS
	}
	return nil
}

// ParseOverrides splits key=value pairs. Later pairs win.
func ParseOverrides(list []string) (map[string]string, error) {
	kv := make(map[string]string, len(list))
	for _, item := range list {
		key, value, ok := strings.Cut(item, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, &forest.ConfigurationError{Field: "set", Reason: fmt.Sprintf("expected key=value, got %q", item)}
		}
		kv[key] = strings.TrimSpace(value)
	}
	return kv, nil
}

// Logger builds the slog logger the settings ask for.
func Logger(s config.Settings, w io.Writer) *slog.Logger {
	return logging.NewLogger(s.Logging.Level, w)
}
