package forest

import "fmt"

// State is the discrete condition of a single cell.
type State uint8

const (
	// Alive is unburned, flammable forest.
	Alive State = iota
	// Burning cells are on fire during the current step.
	Burning
	// Burned cells are inert ash and never change again.
	Burned
)

// States lists every state in encoding order.
var States = [...]State{Alive, Burning, Burned}

// String returns the transport token for the state.
func (s State) String() string {
	switch s {
	case Alive:
		return "TREE"
	case Burning:
		return "FIRE"
	case Burned:
		return "ASH"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// ParseState maps a transport token back to a State.
func ParseState(token string) (State, error) {
	switch token {
	case "TREE":
		return Alive, nil
	case "FIRE":
		return Burning, nil
	case "ASH":
		return Burned, nil
	default:
		return 0, fmt.Errorf("unknown cell state %q", token)
	}
}

// Cell is a read-only view of one grid location.
type Cell struct {
	Row   int
	Col   int
	State State
}
