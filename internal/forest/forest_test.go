package forest

import (
	"errors"
	"testing"

	"forestfire/internal/core"
)

// seqSource replays a fixed sequence of draws and counts how many were taken.
type seqSource struct {
	vals  []float64
	drawn int
}

func (s *seqSource) Float64() float64 {
	v := s.vals[s.drawn%len(s.vals)]
	s.drawn++
	return v
}

func constSource(v float64) *seqSource { return &seqSource{vals: []float64{v}} }

func mustForest(t *testing.T, h, w int, p float64, src core.Source, ignite ...core.Coord) *Forest {
	t.Helper()
	f, err := New(h, w, p, src)
	if err != nil {
		t.Fatalf("New(%d, %d, %v): %v", h, w, p, err)
	}
	if err := f.Ignite(ignite); err != nil {
		t.Fatalf("Ignite: %v", err)
	}
	return f
}

func stateAt(t *testing.T, f *Forest, row, col int) State {
	t.Helper()
	cell, err := f.CellAt(row, col)
	if err != nil {
		t.Fatalf("CellAt(%d,%d): %v", row, col, err)
	}
	return cell.State
}

func expectGrid(t *testing.T, f *Forest, want []string) {
	t.Helper()
	symbols := map[byte]State{'T': Alive, 'F': Burning, 'A': Burned}
	for row, line := range want {
		for col := 0; col < len(line); col++ {
			if got := stateAt(t, f, row, col); got != symbols[line[col]] {
				t.Fatalf("cell (%d,%d) = %v, expected %v", row, col, got, symbols[line[col]])
			}
		}
	}
}

func TestNewRejectsInvalidParameters(t *testing.T) {
	tests := []struct {
		name  string
		h, w  int
		p     float64
		field string
	}{
		{"zero height", 0, 3, 0.5, KeyHeight},
		{"negative height", -1, 3, 0.5, KeyHeight},
		{"zero width", 3, 0, 0.5, KeyWidth},
		{"probability below zero", 3, 3, -0.1, KeyProbability},
		{"probability above one", 3, 3, 1.01, KeyProbability},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.h, tt.w, tt.p, constSource(0))
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigurationError, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Fatalf("expected field %q, got %q", tt.field, cfgErr.Field)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatal("ConfigurationError should match ErrInvalidConfig")
			}
		})
	}

	if _, err := New(2, 2, 0.5, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("nil source should be rejected, got %v", err)
	}
}

func TestNewForestStartsAlive(t *testing.T) {
	f := mustForest(t, 3, 4, 0.5, constSource(0))
	if h, w := f.Dimensions(); h != 3 || w != 4 {
		t.Fatalf("Dimensions() = %d,%d", h, w)
	}
	if f.HasBurningCells() {
		t.Fatal("fresh forest must not burn")
	}
	if c := f.Counts(); c.Alive != 12 || c.Burning != 0 || c.Burned != 0 {
		t.Fatalf("unexpected counts %+v", c)
	}
	cell, err := f.CellAt(2, 3)
	if err != nil || cell.Row != 2 || cell.Col != 3 || cell.State != Alive {
		t.Fatalf("CellAt(2,3) = %+v, %v", cell, err)
	}
}

func TestIgniteOutOfBoundsChangesNothing(t *testing.T) {
	f := mustForest(t, 2, 2, 0.5, constSource(0))
	err := f.Ignite([]core.Coord{{Row: 0, Col: 0}, {Row: 5, Col: 5}})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if f.HasBurningCells() {
		t.Fatal("a rejected ignition list must not ignite any cell")
	}
}

func TestCellAtOutOfBounds(t *testing.T) {
	f := mustForest(t, 2, 3, 0.5, constSource(0))
	for _, pos := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 3}} {
		_, err := f.CellAt(pos[0], pos[1])
		var idxErr *IndexError
		if !errors.As(err, &idxErr) {
			t.Fatalf("CellAt(%d,%d) expected IndexError, got %v", pos[0], pos[1], err)
		}
		if !errors.Is(err, ErrOutOfBounds) {
			t.Fatal("IndexError should match ErrOutOfBounds")
		}
	}
}

func TestCenterIgnitionFullProbability(t *testing.T) {
	f := mustForest(t, 3, 3, 1, constSource(0), core.Coord{Row: 1, Col: 1})

	if !f.Step() {
		t.Fatal("fire should remain after step 1")
	}
	expectGrid(t, f, []string{
		"TFT",
		"FAF",
		"TFT",
	})

	if !f.Step() {
		t.Fatal("fire should remain after step 2")
	}
	expectGrid(t, f, []string{
		"FAF",
		"AAA",
		"FAF",
	})

	if f.Step() {
		t.Fatal("fire should be out after step 3")
	}
	expectGrid(t, f, []string{
		"AAA",
		"AAA",
		"AAA",
	})
}

func TestStepReadsSnapshotOnly(t *testing.T) {
	f := mustForest(t, 1, 4, 1, constSource(0), core.Coord{Row: 0, Col: 0})
	f.Step()
	expectGrid(t, f, []string{"AFTT"})
	f.Step()
	expectGrid(t, f, []string{"AAFT"})
}

func TestZeroProbabilityOnlyConsumesBurning(t *testing.T) {
	src := constSource(0)
	f := mustForest(t, 4, 4, 0, src, core.Coord{Row: 1, Col: 1}, core.Coord{Row: 2, Col: 3})
	if f.Step() {
		t.Fatal("no fire may remain with zero probability")
	}
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			want := Alive
			if (row == 1 && col == 1) || (row == 2 && col == 3) {
				want = Burned
			}
			if got := stateAt(t, f, row, col); got != want {
				t.Fatalf("cell (%d,%d) = %v, expected %v", row, col, got, want)
			}
		}
	}
}

func TestFullProbabilityStopsAtBurnedBarrier(t *testing.T) {
	f := mustForest(t, 5, 5, 1, constSource(0), core.Coord{Row: 0, Col: 0})
	for row := 0; row < 5; row++ {
		f.cur.Set(2, row, uint8(Burned))
	}

	for f.Step() {
	}
	for row := 0; row < 5; row++ {
		for col := 0; col < 5; col++ {
			got := stateAt(t, f, row, col)
			switch {
			case col < 3 && got != Burned:
				t.Fatalf("reachable cell (%d,%d) = %v, expected ASH", row, col, got)
			case col > 2 && got != Alive:
				t.Fatalf("unreachable cell (%d,%d) = %v, expected TREE", row, col, got)
			}
		}
	}
}

func TestEachBurningNeighbourDrawsIndependently(t *testing.T) {
	tests := []struct {
		name  string
		draws []float64
		want  State
	}{
		{"first attempt fails, second succeeds", []float64{0.9, 0.1}, Burning},
		{"first attempt succeeds, second still drawn", []float64{0.1, 0.9}, Burning},
		{"both attempts fail", []float64{0.9, 0.9}, Alive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &seqSource{vals: tt.draws}
			f := mustForest(t, 1, 3, 0.5, src, core.Coord{Row: 0, Col: 0}, core.Coord{Row: 0, Col: 2})
			f.Step()
			if got := stateAt(t, f, 0, 1); got != tt.want {
				t.Fatalf("middle cell = %v, expected %v", got, tt.want)
			}
			if src.drawn != 2 {
				t.Fatalf("expected 2 draws, got %d", src.drawn)
			}
		})
	}
}

func TestNoDrawsForNonAliveNeighbours(t *testing.T) {
	src := constSource(0)
	f := mustForest(t, 1, 2, 0.5, src, core.Coord{Row: 0, Col: 0}, core.Coord{Row: 0, Col: 1})
	f.Step()
	if src.drawn != 0 {
		t.Fatalf("burning neighbours must not be drawn for, got %d draws", src.drawn)
	}
}

func TestBurnedCellsNeverChange(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		f := mustForest(t, 12, 12, 0.6, core.NewRNG(seed), core.Coord{Row: 6, Col: 6}, core.Coord{Row: 0, Col: 11})
		prev := f.CopyCells(nil)
		for f.Step() {
			cur := f.CopyCells(nil)
			for i := range cur {
				before, after := State(prev[i]), State(cur[i])
				switch before {
				case Burned:
					if after != Burned {
						t.Fatalf("seed %d: cell %d resurrected from ASH to %v", seed, i, after)
					}
				case Burning:
					if after != Burned {
						t.Fatalf("seed %d: burning cell %d became %v", seed, i, after)
					}
				}
			}
			prev = cur
		}
	}
}

func TestSingleCellBurnsOutInOneStep(t *testing.T) {
	for _, p := range []float64{0, 0.5, 1} {
		f := mustForest(t, 1, 1, p, core.NewRNG(7), core.Coord{Row: 0, Col: 0})
		if f.Step() {
			t.Fatalf("p=%v: 1x1 forest should burn out in one step", p)
		}
		if got := stateAt(t, f, 0, 0); got != Burned {
			t.Fatalf("p=%v: expected ASH, got %v", p, got)
		}
	}
}

func TestStateTokens(t *testing.T) {
	for _, s := range States {
		parsed, err := ParseState(s.String())
		if err != nil || parsed != s {
			t.Fatalf("ParseState(%q) = %v, %v", s.String(), parsed, err)
		}
	}
	if _, err := ParseState("SMOKE"); err == nil {
		t.Fatal("unknown tokens must be rejected")
	}
}
