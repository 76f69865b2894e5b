// Package render turns forest cell buffers into pixels and text.
package render

import (
	"image/color"

	"forestfire/internal/forest"
)

// Palette maps each cell state to its display colour, indexed by State.
var Palette = []color.RGBA{
	forest.Alive:   {R: 0x2e, G: 0x8b, B: 0x57, A: 0xff},
	forest.Burning: {R: 0xff, G: 0x45, B: 0x00, A: 0xff},
	forest.Burned:  {R: 0x3a, G: 0x3a, B: 0x3a, A: 0xff},
}

// FillPaletteRGBA converts cell values into RGBA pixels in buf using palette.
// Values past the end of the palette use its last colour. When the palette is
// empty the buffer is cleared to transparent black.
func FillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// fillMaskRGBA paints cells equal to state with on and everything else with
// off. Used to highlight a single state.
func fillMaskRGBA(buf []byte, cells []uint8, state forest.State, on, off color.Color) {
	rOn, gOn, bOn, aOn := on.RGBA()
	rOff, gOff, bOff, aOff := off.RGBA()
	for i, c := range cells {
		base := i * 4
		if forest.State(c) == state {
			buf[base+0] = uint8(rOn >> 8)
			buf[base+1] = uint8(gOn >> 8)
			buf[base+2] = uint8(bOn >> 8)
			buf[base+3] = uint8(aOn >> 8)
			continue
		}
		buf[base+0] = uint8(rOff >> 8)
		buf[base+1] = uint8(gOff >> 8)
		buf[base+2] = uint8(bOff >> 8)
		buf[base+3] = uint8(aOff >> 8)
	}
}

// FireMaskRGBA paints burning cells with on and all other cells with off.
func FireMaskRGBA(buf []byte, cells []uint8, on, off color.Color) {
	fillMaskRGBA(buf, cells, forest.Burning, on, off)
}
