package config

import (
	"strconv"

	"forestfire/internal/forest"

	"github.com/magiconair/properties"
)

// parseProperties reads java.util.Properties syntax. Expansion of ${key}
// references is disabled so values are taken literally.
func parseProperties(data []byte) (map[string]string, error) {
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := loader.LoadBytes(data)
	if err != nil {
		return nil, &forest.ConfigurationError{Field: "properties", Reason: err.Error()}
	}
	return p.Map(), nil
}

func decodeProperties(data []byte, s *Settings) error {
	props, err := parseProperties(data)
	if err != nil {
		return err
	}
	simulation := map[string]string{}
	for key, value := range props {
		switch key {
		case "log.level":
			s.Logging.Level = value
		case "server.addr":
			s.Server.Addr = value
		case "display.scale":
			n, err := strconv.Atoi(value)
			if err != nil {
				return invalid(key, "not an integer: %q", value)
			}
			s.Display.Scale = n
		case "display.tps":
			n, err := strconv.Atoi(value)
			if err != nil {
				return invalid(key, "not an integer: %q", value)
			}
			s.Display.TPS = n
		default:
			simulation[key] = value
		}
	}
	cfg, err := s.Simulation.Apply(simulation)
	if err != nil {
		return err
	}
	s.Simulation = cfg
	return nil
}
