//go:build ebiten

package ui

import (
	"image"
	"image/color"

	"forestfire/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the parameter panel to the right of the simulation view.
type HUD struct {
	sim        core.Sim
	controls   *Controls
	width      int
	panel      *ebiten.Image
	lastHeight int

	rows         []hudRow
	panelOffsetX int
	changed      bool

	pixel *ebiten.Image
}

type hudRow struct {
	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

// NewHUD constructs a HUD for sim with a panel of the given width.
func NewHUD(sim core.Sim, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{sim: sim, controls: NewControls(sim), width: width}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	h.layoutControls()
	return h
}

// Update refreshes parameter values and handles clicks on the +/- buttons.
// It reports whether a click reconfigured the simulation.
func (h *HUD) Update(panelOffsetX int) bool {
	if h == nil {
		return false
	}
	h.panelOffsetX = panelOffsetX
	h.controls.Refresh()
	return h.handleInput()
}

// Draw paints the panel anchored at offsetX, at least minHeight tall.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, minHeight int) {
	if h == nil || h.width <= 0 {
		return
	}
	height := max(minHeight, PanelHeight(h.controls.Len()))
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawControls()
	h.drawStatus()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

// PanelHeight is the minimum panel height for n controls plus the footer.
func PanelHeight(n int) int {
	return controlsTop + n*lineHeight + statusLines*statusSpacing + panelPadding
}

func (h *HUD) handleInput() bool {
	if h.controls.Len() == 0 || !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return false
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return false
	}
	px := mx - h.panelOffsetX
	for i, row := range h.rows {
		if pointInRect(px, my, row.minusRect) {
			return h.controls.Adjust(i, -1)
		}
		if pointInRect(px, my, row.plusRect) {
			return h.controls.Adjust(i, 1)
		}
	}
	return false
}

func (h *HUD) drawControls() {
	face := basicfont.Face7x13
	headerY := panelPadding + headerBaseline
	text.Draw(h.panel, h.controls.Title(), face, panelPadding, headerY, color.RGBA{R: 200, G: 200, B: 210, A: 255})
	if h.controls.Len() == 0 {
		text.Draw(h.panel, "No adjustable parameters", face, panelPadding, headerY+infoSpacing, dimText)
		return
	}
	for i, row := range h.rows {
		labelY := row.top + labelBaseline
		text.Draw(h.panel, h.controls.Label(i), face, panelPadding, labelY, brightText)
		value, ok := h.controls.Value(i)
		valueColor := brightText
		if !ok {
			valueColor = dimText
		}
		valueX := row.minusRect.Min.X - buttonGap - text.BoundString(face, value).Dx()
		text.Draw(h.panel, value, face, valueX, labelY, valueColor)

		h.drawButton(row.minusRect, "-", h.controls.CanAdjust(i, -1))
		h.drawButton(row.plusRect, "+", h.controls.CanAdjust(i, 1))
	}
}

func (h *HUD) drawStatus() {
	face := basicfont.Face7x13
	y := controlsTop + h.controls.Len()*lineHeight + statusSpacing
	for _, line := range h.controls.Status() {
		text.Draw(h.panel, line, face, panelPadding, y, dimText)
		y += statusSpacing
	}
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	if h.pixel == nil {
		return
	}
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func (h *HUD) layoutControls() {
	if h.width <= 0 {
		return
	}
	h.rows = make([]hudRow, h.controls.Len())
	for i := range h.rows {
		top := controlsTop + i*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plusRect := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
		minusRect := image.Rect(plusRect.Min.X-buttonGap-buttonSize, buttonY, plusRect.Min.X-buttonGap, buttonY+buttonSize)
		h.rows[i] = hudRow{top: top, minusRect: minusRect, plusRect: plusRect}
	}
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

var (
	brightText = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimText    = color.RGBA{R: 160, G: 160, B: 170, A: 255}
)

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	infoSpacing    = 36
	statusSpacing  = 18
	statusLines    = 5
	controlsTop    = panelPadding + headerBaseline + 14
)
