package render

import (
	"image/color"
	"slices"
	"testing"

	"forestfire/internal/core"
	"forestfire/internal/forest"
)

func TestFillPaletteRGBA(t *testing.T) {
	cells := []uint8{uint8(forest.Alive), uint8(forest.Burning), uint8(forest.Burned), 9}
	buf := make([]byte, 4*len(cells))
	FillPaletteRGBA(buf, cells, Palette)

	for i, c := range cells {
		want := Palette[min(int(c), len(Palette)-1)]
		got := color.RGBA{R: buf[i*4], G: buf[i*4+1], B: buf[i*4+2], A: buf[i*4+3]}
		if got != want {
			t.Fatalf("cell %d: got %v want %v", i, got, want)
		}
	}
}

func TestFillPaletteRGBAEmptyPaletteClears(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	FillPaletteRGBA(buf, []uint8{0, 1}, nil)
	if !slices.Equal(buf, make([]byte, 8)) {
		t.Fatalf("expected cleared buffer, got %v", buf)
	}
}

func TestFireMaskRGBA(t *testing.T) {
	cells := []uint8{uint8(forest.Alive), uint8(forest.Burning), uint8(forest.Burned)}
	buf := make([]byte, 4*len(cells))
	FireMaskRGBA(buf, cells, color.White, color.Black)
	want := []byte{0, 0, 0, 255, 255, 255, 255, 255, 0, 0, 0, 255}
	if !slices.Equal(buf, want) {
		t.Fatalf("got %v want %v", buf, want)
	}
}

func TestText(t *testing.T) {
	cells := []uint8{
		uint8(forest.Alive), uint8(forest.Burning), uint8(forest.Burned),
		uint8(forest.Burned), uint8(forest.Alive), uint8(forest.Alive),
	}
	got := Text(core.Size{W: 3, H: 2}, cells)
	want := "T F A\nA T T\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestTextShortBuffer(t *testing.T) {
	got := Text(core.Size{W: 2, H: 1}, []uint8{uint8(forest.Burning)})
	if got != "F ?\n" {
		t.Fatalf("got %q", got)
	}
}

func TestRows(t *testing.T) {
	cells := []uint8{uint8(forest.Alive), uint8(forest.Burning), uint8(forest.Burned), uint8(forest.Alive)}
	rows := Rows(core.Size{W: 2, H: 2}, cells)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if !slices.Equal(rows[0], []string{"TREE", "FIRE"}) || !slices.Equal(rows[1], []string{"ASH", "TREE"}) {
		t.Fatalf("unexpected rows %v", rows)
	}
}
