package forest

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"forestfire/internal/core"
)

// Canonical configuration keys, shared by the properties loader, CLI
// overrides and the parameter snapshot.
const (
	KeyHeight      = "forest.height"
	KeyWidth       = "forest.width"
	KeyProbability = "fire.propagation.probability"
	KeyIgnitions   = "fire.initial.positions"
	KeySeed        = "simulation.seed"
)

var keyAliases = map[string]string{
	"h":           KeyHeight,
	"height":      KeyHeight,
	"w":           KeyWidth,
	"width":       KeyWidth,
	"p":           KeyProbability,
	"probability": KeyProbability,
	"fire":        KeyIgnitions,
	"ignitions":   KeyIgnitions,
	"seed":        KeySeed,
}

// MaxCells bounds height*width so a configuration cannot demand an
// allocation the process cannot satisfy.
const MaxCells = 1 << 24

// Config holds the parameters a simulation is built from.
type Config struct {
	Height      int
	Width       int
	Probability float64
	Ignitions   []core.Coord
	// Seed drives the propagation draws. Zero picks a fresh seed every time
	// the simulation is initialized.
	Seed int64
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Height:      10,
		Width:       10,
		Probability: 0.5,
		Ignitions:   []core.Coord{{Row: 0, Col: 0}},
	}
}

// Size reports the configured grid dimensions.
func (c Config) Size() core.Size { return core.Size{W: c.Width, H: c.Height} }

// Clone returns a copy that shares no memory with c.
func (c Config) Clone() Config {
	c.Ignitions = slices.Clone(c.Ignitions)
	return c
}

// Validate checks every parameter and reports the first violation as a
// *ConfigurationError.
func (c Config) Validate() error {
	if err := validateDimensions(c.Height, c.Width); err != nil {
		return err
	}
	if err := validateProbability(c.Probability); err != nil {
		return err
	}
	for _, pos := range c.Ignitions {
		if err := validateCoord(pos, c.Height, c.Width); err != nil {
			return err
		}
	}
	return nil
}

func validateDimensions(height, width int) error {
	if height <= 0 {
		return configErrorf(KeyHeight, "must be positive, got %d", height)
	}
	if width <= 0 {
		return configErrorf(KeyWidth, "must be positive, got %d", width)
	}
	if width > MaxCells/height {
		return configErrorf(KeyWidth, "%dx%d forest exceeds %d cells", height, width, MaxCells)
	}
	return nil
}

func validateProbability(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return configErrorf(KeyProbability, "must be between 0 and 1, got %v", p)
	}
	return nil
}

func validateCoord(pos core.Coord, height, width int) error {
	if pos.Row < 0 || pos.Row >= height || pos.Col < 0 || pos.Col >= width {
		return configErrorf(KeyIgnitions, "position (%d,%d) is outside the %dx%d forest", pos.Row, pos.Col, height, width)
	}
	return nil
}

// FromMap builds a validated config from defaults plus key/value pairs.
func FromMap(kv map[string]string) (Config, error) {
	c, err := DefaultConfig().Apply(kv)
	if err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Apply returns a copy of c with the given key/value overrides parsed in.
// Keys are the canonical property names or their short aliases (h, w, p,
// fire, seed). The result is not validated.
func (c Config) Apply(kv map[string]string) (Config, error) {
	c = c.Clone()
	for rawKey, raw := range kv {
		key := CanonicalKey(rawKey)
		value := strings.TrimSpace(raw)
		switch key {
		case KeyHeight:
			parsed, err := strconv.Atoi(value)
			if err != nil {
				return Config{}, configErrorf(key, "not an integer: %q", raw)
			}
			c.Height = parsed
		case KeyWidth:
			parsed, err := strconv.Atoi(value)
			if err != nil {
				return Config{}, configErrorf(key, "not an integer: %q", raw)
			}
			c.Width = parsed
		case KeyProbability:
			parsed, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return Config{}, configErrorf(key, "not a number: %q", raw)
			}
			c.Probability = parsed
		case KeyIgnitions:
			positions, err := ParseIgnitions(value)
			if err != nil {
				return Config{}, err
			}
			c.Ignitions = positions
		case KeySeed:
			parsed, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return Config{}, configErrorf(key, "not an integer: %q", raw)
			}
			c.Seed = parsed
		default:
			return Config{}, configErrorf(rawKey, "unknown key")
		}
	}
	return c, nil
}

// CanonicalKey resolves short aliases to canonical key names.
func CanonicalKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	if canonical, ok := keyAliases[key]; ok {
		return canonical
	}
	return key
}

// ParseIgnitions parses "row,col;row,col;..." into coordinates. Blank
// segments are skipped so an empty string means no ignitions; anything else
// that is not exactly two integers is rejected.
func ParseIgnitions(s string) ([]core.Coord, error) {
	var positions []core.Coord
	for _, segment := range strings.Split(s, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		parts := strings.Split(segment, ",")
		if len(parts) != 2 {
			return nil, configErrorf(KeyIgnitions, "invalid position format %q", segment)
		}
		row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, configErrorf(KeyIgnitions, "invalid position format %q", segment)
		}
		col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, configErrorf(KeyIgnitions, "invalid position format %q", segment)
		}
		positions = append(positions, core.Coord{Row: row, Col: col})
	}
	return positions, nil
}

// FormatIgnitions is the inverse of ParseIgnitions.
func FormatIgnitions(positions []core.Coord) string {
	parts := make([]string, len(positions))
	for i, pos := range positions {
		parts[i] = pos.String()
	}
	return strings.Join(parts, ";")
}
