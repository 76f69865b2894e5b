package forest

import (
	"strconv"

	"forestfire/internal/core"
)

// MaxDimension caps grid sizes reachable from HUD controls.
const MaxDimension = 512

// Parameters exposes the active configuration for display.
func (e *Engine) Parameters() core.ParameterSnapshot {
	cfg := e.cfg
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Forest",
			Params: []core.Parameter{
				intParam(KeyHeight, "Height", cfg.Height),
				intParam(KeyWidth, "Width", cfg.Width),
			},
		},
		{
			Name: "Fire",
			Params: []core.Parameter{
				floatParam(KeyProbability, "Spread chance", cfg.Probability),
				{Key: KeyIgnitions, Label: "Ignitions", Type: core.ParamTypeText, Value: FormatIgnitions(cfg.Ignitions)},
			},
		},
		{
			Name: "Run",
			Params: []core.Parameter{
				{Key: KeySeed, Label: "Seed", Type: core.ParamTypeInt, Value: strconv.FormatInt(e.seed, 10)},
				intParam("step", "Step", e.steps),
			},
		},
	}}
}

// ParameterControls lists the parameters the HUD may adjust.
func (e *Engine) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: KeyHeight, Label: "Height", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: MaxDimension, HasMin: true, HasMax: true},
		{Key: KeyWidth, Label: "Width", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: MaxDimension, HasMin: true, HasMax: true},
		{Key: KeyProbability, Label: "Spread chance", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
	}
}

// SetIntParameter reconfigures the engine with a new integer value. It
// reports false when the key is unknown or the resulting config is rejected,
// in which case nothing changes.
func (e *Engine) SetIntParameter(key string, value int) bool {
	cfg := e.cfg.Clone()
	switch key {
	case KeyHeight:
		cfg.Height = value
	case KeyWidth:
		cfg.Width = value
	default:
		return false
	}
	return e.Reconfigure(cfg) == nil
}

// SetFloatParameter reconfigures the engine with a new probability.
func (e *Engine) SetFloatParameter(key string, value float64) bool {
	if key != KeyProbability {
		return false
	}
	cfg := e.cfg.Clone()
	cfg.Probability = value
	return e.Reconfigure(cfg) == nil
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}
