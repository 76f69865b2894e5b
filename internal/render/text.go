package render

import (
	"strings"

	"forestfire/internal/core"
	"forestfire/internal/forest"
)

// Glyph returns the single-character form of a state: T, F or A.
func Glyph(s forest.State) byte {
	switch s {
	case forest.Burning:
		return 'F'
	case forest.Burned:
		return 'A'
	default:
		return 'T'
	}
}

// Text renders cells as one line per row with cells separated by spaces.
// Cells beyond the buffer are drawn as '?'.
func Text(size core.Size, cells []uint8) string {
	var b strings.Builder
	b.Grow(size.H * (2*size.W + 1))
	for row := 0; row < size.H; row++ {
		for col := 0; col < size.W; col++ {
			if col > 0 {
				b.WriteByte(' ')
			}
			i := row*size.W + col
			if i >= len(cells) {
				b.WriteByte('?')
				continue
			}
			b.WriteByte(Glyph(forest.State(cells[i])))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Rows renders cells as one token slice per row using the state names.
func Rows(size core.Size, cells []uint8) [][]string {
	rows := make([][]string, size.H)
	for row := range rows {
		line := make([]string, size.W)
		for col := range line {
			i := row*size.W + col
			if i < len(cells) {
				line[col] = forest.State(cells[i]).String()
			}
		}
		rows[row] = line
	}
	return rows
}
