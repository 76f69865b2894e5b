package api

import (
	"forestfire/internal/core"
	"forestfire/internal/forest"
	"forestfire/internal/render"
)

// ConfigDTO is the JSON form of forest.Config.
type ConfigDTO struct {
	ForestHeight               int      `json:"forestHeight"`
	ForestWidth                int      `json:"forestWidth"`
	FirePropagationProbability float64  `json:"firePropagationProbability"`
	FireInitialPositions       [][2]int `json:"fireInitialPositions"`
	Seed                       int64    `json:"seed,omitempty"`
}

// StateDTO is the JSON form of the engine state.
type StateDTO struct {
	Grid     [][]string    `json:"grid"`
	Step     int           `json:"step"`
	Complete bool          `json:"complete"`
	Counts   forest.Counts `json:"counts"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func configToDTO(cfg forest.Config) ConfigDTO {
	positions := make([][2]int, len(cfg.Ignitions))
	for i, pos := range cfg.Ignitions {
		positions[i] = [2]int{pos.Row, pos.Col}
	}
	return ConfigDTO{
		ForestHeight:               cfg.Height,
		ForestWidth:                cfg.Width,
		FirePropagationProbability: cfg.Probability,
		FireInitialPositions:       positions,
		Seed:                       cfg.Seed,
	}
}

func (d ConfigDTO) config() forest.Config {
	positions := make([]core.Coord, len(d.FireInitialPositions))
	for i, pos := range d.FireInitialPositions {
		positions[i] = core.Coord{Row: pos[0], Col: pos[1]}
	}
	return forest.Config{
		Height:      d.ForestHeight,
		Width:       d.ForestWidth,
		Probability: d.FirePropagationProbability,
		Ignitions:   positions,
		Seed:        d.Seed,
	}
}

// stateToDTO converts the engine state. cells is scratch space reused
// between calls; the returned DTO does not alias it.
func stateToDTO(e *forest.Engine, cells []uint8) (StateDTO, []uint8) {
	cells = e.CopyCells(cells)
	return StateDTO{
		Grid:     render.Rows(e.Size(), cells),
		Step:     e.Steps(),
		Complete: !e.Running(),
		Counts:   e.Counts(),
	}, cells
}
