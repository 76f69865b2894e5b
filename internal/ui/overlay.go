//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"forestfire/internal/core"
	"forestfire/internal/forest"
	"forestfire/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Overlay draws optional visuals on top of the grid: ignition markers
// (key 1), a fire-front highlight (key 2) and the key help (H).
type Overlay struct {
	sim   core.Sim
	scale int

	showIgnitions bool
	showFront     bool
	showHelp      bool

	maskImg *ebiten.Image
	maskBuf []byte
	cells   []uint8
	pixel   *ebiten.Image
}

// NewOverlay constructs an overlay for sim drawn at scale pixels per cell.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: max(scale, 1), showIgnitions: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles overlay layers.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showIgnitions = !o.showIgnitions
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showFront = !o.showFront
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		o.showHelp = !o.showHelp
	}
}

// Draw renders the enabled layers onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	if o.showFront {
		o.drawFront(screen, size)
	}
	if o.showIgnitions {
		o.drawIgnitions(screen)
	}
	if o.showHelp {
		o.drawHelp(screen)
	}
}

func (o *Overlay) drawFront(screen *ebiten.Image, size core.Size) {
	total := size.Cells()
	if o.maskImg == nil || o.maskImg.Bounds().Dx() != size.W || o.maskImg.Bounds().Dy() != size.H {
		o.maskImg = ebiten.NewImage(size.W, size.H)
		o.maskBuf = make([]byte, 4*total)
	}
	o.cells = o.sim.CopyCells(o.cells)
	if len(o.cells) != total {
		return
	}
	render.FireMaskRGBA(o.maskBuf, o.cells, color.RGBA{R: 255, G: 240, B: 120, A: 160}, color.Transparent)
	o.maskImg.WritePixels(o.maskBuf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(o.scale), float64(o.scale))
	screen.DrawImage(o.maskImg, op)
}

func (o *Overlay) drawIgnitions(screen *ebiten.Image) {
	provider, ok := o.sim.(parameterProvider)
	if !ok {
		return
	}
	param, ok := provider.Parameters().Lookup(forest.KeyIgnitions)
	if !ok {
		return
	}
	positions, err := forest.ParseIgnitions(param.Value)
	if err != nil {
		return
	}
	marker := color.RGBA{R: 255, G: 255, B: 255, A: 200}
	s := float64(o.scale)
	thickness := math.Max(1, s/8)
	for _, pos := range positions {
		x0 := float64(pos.Col) * s
		y0 := float64(pos.Row) * s
		o.drawLine(screen, x0, y0, x0+s, y0+s, thickness, marker)
		o.drawLine(screen, x0+s, y0, x0, y0+s, thickness, marker)
	}
}

func (o *Overlay) drawHelp(screen *ebiten.Image) {
	lines := []string{
		"Space pause  N step  Enter run",
		"R reset  Q quit",
		"1 ignitions  2 fire front  H help",
	}
	face := basicfont.Face7x13
	y := 16
	for _, line := range lines {
		bounds := text.BoundString(face, line)
		o.drawRect(screen, 4, float64(y-bounds.Dy()-2), float64(bounds.Dx()+8), float64(bounds.Dy()+6), color.RGBA{A: 180})
		text.Draw(screen, line, face, 8, y, color.White)
		y += 18
	}
}

func (o *Overlay) drawRect(screen *ebiten.Image, x, y, w, h float64, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 || thickness <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
