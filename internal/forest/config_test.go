package forest

import (
	"errors"
	"slices"
	"testing"

	"forestfire/internal/core"
)

func TestParseIgnitions(t *testing.T) {
	tests := []struct {
		in   string
		want []core.Coord
	}{
		{"", nil},
		{"0,0", []core.Coord{{Row: 0, Col: 0}}},
		{" 1 , 2 ; 3,4 ;", []core.Coord{{Row: 1, Col: 2}, {Row: 3, Col: 4}}},
		{"-1,5", []core.Coord{{Row: -1, Col: 5}}},
	}
	for _, tt := range tests {
		got, err := ParseIgnitions(tt.in)
		if err != nil {
			t.Fatalf("ParseIgnitions(%q): %v", tt.in, err)
		}
		if !slices.Equal(got, tt.want) {
			t.Fatalf("ParseIgnitions(%q) = %v, expected %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"1", "1,2,3", "a,b", "1;2,3"} {
		if _, err := ParseIgnitions(bad); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("ParseIgnitions(%q) expected ConfigurationError, got %v", bad, err)
		}
	}
}

func TestFormatIgnitionsRoundTrip(t *testing.T) {
	positions := []core.Coord{{Row: 1, Col: 2}, {Row: 0, Col: 9}}
	s := FormatIgnitions(positions)
	if s != "1,2;0,9" {
		t.Fatalf("FormatIgnitions = %q", s)
	}
	parsed, err := ParseIgnitions(s)
	if err != nil || !slices.Equal(parsed, positions) {
		t.Fatalf("round trip = %v, %v", parsed, err)
	}
}

func TestFromMap(t *testing.T) {
	cfg, err := FromMap(map[string]string{
		"h":      "20",
		KeyWidth: "30",
		"p":      "0.25",
		"fire":   "5,5;19,29",
		"SEED":   "42",
	})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	if cfg.Height != 20 || cfg.Width != 30 || cfg.Probability != 0.25 || cfg.Seed != 42 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if len(cfg.Ignitions) != 2 || cfg.Ignitions[1] != (core.Coord{Row: 19, Col: 29}) {
		t.Fatalf("unexpected ignitions %v", cfg.Ignitions)
	}

	def, err := FromMap(nil)
	if err != nil {
		t.Fatalf("FromMap(nil): %v", err)
	}
	if def.Height != 10 || def.Width != 10 || def.Probability != 0.5 {
		t.Fatalf("FromMap(nil) should return defaults, got %+v", def)
	}
}

func TestFromMapRejects(t *testing.T) {
	tests := []struct {
		name string
		kv   map[string]string
	}{
		{"unparsable height", map[string]string{"h": "ten"}},
		{"unparsable probability", map[string]string{"p": "half"}},
		{"unparsable seed", map[string]string{"seed": "x"}},
		{"unknown key", map[string]string{"wind": "3"}},
		{"negative height", map[string]string{"h": "-1"}},
		{"ignition outside", map[string]string{"h": "2", "w": "2", "fire": "5,5"}},
		{"probability above one", map[string]string{"p": "1.5"}},
		{"probability NaN", map[string]string{"p": "NaN"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromMap(tt.kv); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ConfigurationError, got %v", err)
			}
		})
	}
}

func TestValidateAcceptsDuplicatesAndEmptyIgnitions(t *testing.T) {
	cfg := Config{Height: 2, Width: 2, Probability: 0, Ignitions: []core.Coord{{Row: 1, Col: 1}, {Row: 1, Col: 1}}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("duplicates should be accepted: %v", err)
	}
	cfg.Ignitions = nil
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty ignitions should be accepted: %v", err)
	}
}

func TestValidateRejectsOversizedForest(t *testing.T) {
	tests := []struct {
		name          string
		height, width int
	}{
		{"product overflows", 1 << 32, 1 << 32},
		{"product wraps to zero", 1 << 62, 4},
		{"above cell cap", 1_000_000, 1_000_000},
		{"one past cap", MaxCells, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Height: tt.height, Width: tt.width, Probability: 0.5, Ignitions: []core.Coord{{Row: 0, Col: 0}}}
			err := cfg.Validate()
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) || cfgErr.Field != KeyWidth {
				t.Fatalf("Validate() = %v, expected width ConfigurationError", err)
			}
			if _, err := NewEngine(cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("NewEngine() = %v, expected ErrInvalidConfig", err)
			}
			if _, err := New(tt.height, tt.width, 0.5, core.NewRNG(1)); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("New() = %v, expected ErrInvalidConfig", err)
			}
		})
	}

	if err := (Config{Height: MaxCells, Width: 1, Probability: 0.5}).Validate(); err != nil {
		t.Fatalf("a forest of exactly MaxCells should be accepted: %v", err)
	}
}

func TestConfigurationErrorMessage(t *testing.T) {
	err := Config{Height: 2, Width: 2, Probability: 0.5, Ignitions: []core.Coord{{Row: 5, Col: 5}}}.Validate()
	want := "invalid configuration: fire.initial.positions: position (5,5) is outside the 2x2 forest"
	if err == nil || err.Error() != want {
		t.Fatalf("Validate() = %v, expected %q", err, want)
	}
}
