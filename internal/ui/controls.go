package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"forestfire/internal/core"
	"forestfire/internal/forest"
)

type parameterProvider interface {
	Parameters() core.ParameterSnapshot
}

type countsProvider interface {
	Counts() forest.Counts
}

// Controls tracks the adjustable parameters of a simulation and applies
// +/- adjustments through its setters. It holds no drawing state.
type Controls struct {
	sim         core.Sim
	snapshot    core.ParameterSnapshot
	items       []controlState
	intSetter   core.IntParameterSetter
	floatSetter core.FloatParameterSetter
}

type controlState struct {
	control core.ParameterControl
	value   string

	intValue   int
	floatValue float64
	hasValue   bool
}

// NewControls discovers the controls and setters sim implements.
func NewControls(sim core.Sim) *Controls {
	c := &Controls{sim: sim}
	if provider, ok := sim.(core.ParameterControlsProvider); ok {
		controls := provider.ParameterControls()
		c.items = make([]controlState, len(controls))
		for i, ctrl := range controls {
			c.items[i] = controlState{control: ctrl, value: "--"}
		}
	}
	if setter, ok := sim.(core.IntParameterSetter); ok {
		c.intSetter = setter
	}
	if setter, ok := sim.(core.FloatParameterSetter); ok {
		c.floatSetter = setter
	}
	return c
}

// Title names the panel after the simulation.
func (c *Controls) Title() string {
	if c.sim == nil || c.sim.Name() == "" {
		return "Controls"
	}
	name := c.sim.Name()
	return strings.ToUpper(name[:1]) + name[1:] + " Controls"
}

// Len returns the number of controls.
func (c *Controls) Len() int { return len(c.items) }

// Label returns the label of control i.
func (c *Controls) Label(i int) string { return c.items[i].control.Label }

// Value returns the formatted value of control i and whether it is known.
func (c *Controls) Value(i int) (string, bool) {
	return c.items[i].value, c.items[i].hasValue
}

// Refresh re-reads parameter values from the simulation.
func (c *Controls) Refresh() {
	provider, ok := c.sim.(parameterProvider)
	if !ok {
		c.snapshot = core.ParameterSnapshot{}
		return
	}
	c.snapshot = provider.Parameters()
	for i := range c.items {
		state := &c.items[i]
		state.hasValue = false
		state.value = "--"
		param, ok := c.snapshot.Lookup(state.control.Key)
		if !ok {
			continue
		}
		switch state.control.Type {
		case core.ParamTypeInt:
			parsed, err := strconv.Atoi(param.Value)
			if err != nil {
				continue
			}
			state.intValue = parsed
			state.floatValue = float64(parsed)
			state.value = strconv.Itoa(parsed)
			state.hasValue = true
		case core.ParamTypeFloat:
			parsed, err := strconv.ParseFloat(param.Value, 64)
			if err != nil {
				continue
			}
			state.floatValue = parsed
			state.value = formatFloat(state.control, parsed)
			state.hasValue = true
		}
	}
}

// Status summarizes the run for the panel footer.
func (c *Controls) Status() []string {
	if c.sim == nil {
		return nil
	}
	state := "burning"
	if !c.sim.Running() {
		state = "burned out"
	}
	lines := []string{fmt.Sprintf("Step %d (%s)", c.sim.Steps(), state)}
	if seed, ok := c.snapshot.Lookup(forest.KeySeed); ok {
		lines = append(lines, "Seed "+seed.Value)
	}
	if ignitions, ok := c.snapshot.Lookup(forest.KeyIgnitions); ok && ignitions.Value != "" {
		lines = append(lines, "Fire at "+ignitions.Value)
	}
	if provider, ok := c.sim.(countsProvider); ok {
		counts := provider.Counts()
		lines = append(lines, fmt.Sprintf("Trees %d  Fire %d  Ash %d", counts.Alive, counts.Burning, counts.Burned))
	}
	return lines
}

// Adjust moves control i one step in direction (+1 or -1), clamped to its
// bounds, and reports whether the simulation accepted the new value.
func (c *Controls) Adjust(i, direction int) bool {
	state := &c.items[i]
	if !state.hasValue || direction == 0 {
		return false
	}
	switch state.control.Type {
	case core.ParamTypeInt:
		if c.intSetter == nil {
			return false
		}
		target := state.intValue + direction*intStep(state.control)
		if state.control.HasMin {
			target = max(target, int(math.Round(state.control.Min)))
		}
		if state.control.HasMax {
			target = min(target, int(math.Round(state.control.Max)))
		}
		if target == state.intValue || !c.intSetter.SetIntParameter(state.control.Key, target) {
			return false
		}
		state.intValue = target
		state.floatValue = float64(target)
		state.value = strconv.Itoa(target)
		return true
	case core.ParamTypeFloat:
		if c.floatSetter == nil {
			return false
		}
		// Snap to the step grid so repeated steps do not accumulate error.
		target := roundTo(state.floatValue+float64(direction)*floatStep(state.control), floatStep(state.control))
		if state.control.HasMin && target < state.control.Min {
			target = state.control.Min
		}
		if state.control.HasMax && target > state.control.Max {
			target = state.control.Max
		}
		if math.Abs(target-state.floatValue) < 1e-9 || !c.floatSetter.SetFloatParameter(state.control.Key, target) {
			return false
		}
		state.floatValue = target
		state.value = formatFloat(state.control, target)
		return true
	}
	return false
}

// CanAdjust reports whether a step in direction stays within bounds.
func (c *Controls) CanAdjust(i, direction int) bool {
	state := &c.items[i]
	if !state.hasValue || direction == 0 {
		return false
	}
	switch state.control.Type {
	case core.ParamTypeInt:
		if c.intSetter == nil {
			return false
		}
		target := state.intValue + direction*intStep(state.control)
		if state.control.HasMin && direction < 0 && target < int(math.Round(state.control.Min)) {
			return false
		}
		if state.control.HasMax && direction > 0 && target > int(math.Round(state.control.Max)) {
			return false
		}
		return true
	case core.ParamTypeFloat:
		if c.floatSetter == nil {
			return false
		}
		target := state.floatValue + float64(direction)*floatStep(state.control)
		if state.control.HasMin && direction < 0 && target < state.control.Min-1e-9 {
			return false
		}
		if state.control.HasMax && direction > 0 && target > state.control.Max+1e-9 {
			return false
		}
		return true
	}
	return false
}

func intStep(ctrl core.ParameterControl) int {
	if step := int(math.Round(ctrl.Step)); step > 0 {
		return step
	}
	return 1
}

func floatStep(ctrl core.ParameterControl) float64 {
	if ctrl.Step > 0 {
		return ctrl.Step
	}
	return 0.05
}

func roundTo(v, step float64) float64 {
	return math.Round(v/step) * step
}

func formatFloat(ctrl core.ParameterControl, value float64) string {
	step := floatStep(ctrl)
	precision := 1
	switch {
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}
