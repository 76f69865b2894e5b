package config

import (
	"fmt"

	"forestfire/internal/core"
	"forestfire/internal/forest"

	"gopkg.in/yaml.v3"
)

// IgnitionList decodes either a "row,col;row,col" string or a sequence whose
// items are [row, col] pairs or "row,col" strings.
type IgnitionList []core.Coord

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *IgnitionList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		positions, err := forest.ParseIgnitions(node.Value)
		if err != nil {
			return err
		}
		*l = positions
		return nil
	case yaml.SequenceNode:
		positions := make([]core.Coord, 0, len(node.Content))
		for _, item := range node.Content {
			pos, err := decodeCoord(item)
			if err != nil {
				return err
			}
			positions = append(positions, pos)
		}
		*l = positions
		return nil
	default:
		return &forest.ConfigurationError{Field: forest.KeyIgnitions, Reason: fmt.Sprintf("line %d: expected a list or a string", node.Line)}
	}
}

// MarshalYAML writes the compact string form.
func (l IgnitionList) MarshalYAML() (any, error) {
	return forest.FormatIgnitions(l), nil
}

func decodeCoord(node *yaml.Node) (core.Coord, error) {
	if node.Kind == yaml.ScalarNode {
		positions, err := forest.ParseIgnitions(node.Value)
		if err != nil {
			return core.Coord{}, err
		}
		if len(positions) != 1 {
			return core.Coord{}, &forest.ConfigurationError{Field: forest.KeyIgnitions, Reason: fmt.Sprintf("line %d: expected one position, got %q", node.Line, node.Value)}
		}
		return positions[0], nil
	}
	var pair []int
	if err := node.Decode(&pair); err != nil || len(pair) != 2 {
		return core.Coord{}, &forest.ConfigurationError{Field: forest.KeyIgnitions, Reason: fmt.Sprintf("line %d: expected [row, col]", node.Line)}
	}
	return core.Coord{Row: pair[0], Col: pair[1]}, nil
}

// fileSettings is the on-disk YAML layout.
type fileSettings struct {
	Forest struct {
		Height int `yaml:"height"`
		Width  int `yaml:"width"`
	} `yaml:"forest"`
	Fire struct {
		Probability float64      `yaml:"probability"`
		Ignitions   IgnitionList `yaml:"ignitions"`
	} `yaml:"fire"`
	Seed    int64         `yaml:"seed"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
	Display DisplayConfig `yaml:"display"`
}

func toFile(s Settings) fileSettings {
	var f fileSettings
	f.Forest.Height = s.Simulation.Height
	f.Forest.Width = s.Simulation.Width
	f.Fire.Probability = s.Simulation.Probability
	f.Fire.Ignitions = IgnitionList(s.Simulation.Ignitions)
	f.Seed = s.Simulation.Seed
	f.Logging = s.Logging
	f.Server = s.Server
	f.Display = s.Display
	return f
}

func (f fileSettings) apply(s *Settings) {
	s.Simulation = forest.Config{
		Height:      f.Forest.Height,
		Width:       f.Forest.Width,
		Probability: f.Fire.Probability,
		Ignitions:   []core.Coord(f.Fire.Ignitions),
		Seed:        f.Seed,
	}
	s.Logging = f.Logging
	s.Server = f.Server
	s.Display = f.Display
}

func decodeYAML(data []byte, s *Settings) error {
	f := toFile(*s)
	if err := yaml.Unmarshal(data, &f); err != nil {
		return asConfigError("yaml", err)
	}
	f.apply(s)
	return nil
}

// MarshalYAML renders settings in the layout LoadFile reads back.
func MarshalYAML(s Settings) ([]byte, error) {
	out, err := yaml.Marshal(toFile(s))
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	return out, nil
}
