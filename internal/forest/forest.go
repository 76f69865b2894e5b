package forest

import "forestfire/internal/core"

// Orthogonal neighbour offsets in draw order: north, east, south, west.
var neighbours = [4][2]int{{-1, 0}, {0, 1}, {1, 0}, {0, -1}}

// Counts tallies cells per state.
type Counts struct {
	Alive   int `json:"alive"`
	Burning int `json:"burning"`
	Burned  int `json:"burned"`
}

// Forest is the cell grid plus the propagation rule.
type Forest struct {
	h, w int
	p    float64
	cur  *core.ByteGrid
	nxt  *core.ByteGrid
	src  core.Source
}

// New returns a forest of the given size with every cell Alive.
func New(height, width int, probability float64, src core.Source) (*Forest, error) {
	if err := validateDimensions(height, width); err != nil {
		return nil, err
	}
	if err := validateProbability(probability); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, &ConfigurationError{Field: "source", Reason: "random source is required"}
	}
	f := &Forest{
		h:   height,
		w:   width,
		p:   probability,
		cur: core.NewByteGrid(width, height),
		nxt: core.NewByteGrid(width, height),
		src: src,
	}
	f.cur.Fill(uint8(Alive))
	return f, nil
}

// Dimensions returns the grid height and width.
func (f *Forest) Dimensions() (height, width int) { return f.h, f.w }

// Probability returns the per-attempt ignition chance.
func (f *Forest) Probability() float64 { return f.p }

// Ignite sets every listed cell Burning. All coordinates are checked before
// any cell changes.
func (f *Forest) Ignite(positions []core.Coord) error {
	for _, pos := range positions {
		if err := validateCoord(pos, f.h, f.w); err != nil {
			return err
		}
	}
	for _, pos := range positions {
		f.cur.Set(pos.Col, pos.Row, uint8(Burning))
	}
	return nil
}

// Step advances the whole grid by one time unit and reports whether any cell
// is still burning. The rule reads only the current snapshot; results land in
// the back buffer, which then replaces the front buffer.
func (f *Forest) Step() bool {
	f.nxt.CopyFrom(f.cur)
	for row := 0; row < f.h; row++ {
		for col := 0; col < f.w; col++ {
			switch State(f.cur.At(col, row)) {
			case Burning:
				f.nxt.Set(col, row, uint8(Burned))
				f.spread(row, col)
			case Alive, Burned:
			}
		}
	}
	f.cur, f.nxt = f.nxt, f.cur
	return f.HasBurningCells()
}

// spread makes one independent ignition attempt on each Alive neighbour of
// the burning cell at (row, col).
func (f *Forest) spread(row, col int) {
	for _, d := range neighbours {
		r, c := row+d[0], col+d[1]
		if !f.cur.InBounds(c, r) || State(f.cur.At(c, r)) != Alive {
			continue
		}
		if f.src.Float64() < f.p {
			f.nxt.Set(c, r, uint8(Burning))
		}
	}
}

// HasBurningCells reports whether any cell is Burning.
func (f *Forest) HasBurningCells() bool {
	for _, v := range f.cur.Cells() {
		if State(v) == Burning {
			return true
		}
	}
	return false
}

// CellAt returns the cell at (row, col).
func (f *Forest) CellAt(row, col int) (Cell, error) {
	if !f.cur.InBounds(col, row) {
		return Cell{}, &IndexError{Row: row, Col: col, Height: f.h, Width: f.w}
	}
	return Cell{Row: row, Col: col, State: State(f.cur.At(col, row))}, nil
}

// Counts tallies the current cell states.
func (f *Forest) Counts() Counts {
	var c Counts
	for _, v := range f.cur.Cells() {
		switch State(v) {
		case Alive:
			c.Alive++
		case Burning:
			c.Burning++
		case Burned:
			c.Burned++
		}
	}
	return c
}

// CopyCells appends the row-major state bytes to dst[:0] and returns it.
func (f *Forest) CopyCells(dst []uint8) []uint8 {
	return append(dst[:0], f.cur.Cells()...)
}
