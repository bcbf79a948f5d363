//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"sandfall/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

var (
	panelColor    = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	titleColor    = color.RGBA{R: 250, G: 190, B: 60, A: 255}
	textColor     = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimColor      = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	buttonColor   = color.RGBA{R: 54, G: 56, B: 64, A: 255}
	buttonOffText = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	buttonOff     = color.RGBA{R: 32, G: 34, B: 40, A: 255}
)

const (
	panelPadding = 12
	rowHeight    = 32
	buttonSize   = 22
	buttonGap    = 6
	titleY       = panelPadding + 14
	rowsTop      = titleY + 12
	statsSpacing = 16
)

// HUD is the side panel listing the session's adjustable controls with
// -/+ buttons, followed by read-only statistics.
type HUD struct {
	sim    core.Sim
	width  int
	offset int

	panel *ebiten.Image
	pixel *ebiten.Image

	rows  []hudRow
	stats []core.Parameter

	ints    core.IntParameterSetter
	floats  core.FloatParameterSetter
	choices core.ChoiceParameterSetter
}

type hudRow struct {
	ctrl  core.ParameterControl
	text  string
	num   float64
	index int
	known bool

	top         int
	minus, plus image.Rectangle
}

// NewHUD builds a panel of the given width for sim. A zero width disables it.
func NewHUD(sim core.Sim, width int) *HUD {
	h := &HUD{sim: sim, width: max(width, 0)}
	if h.width == 0 {
		return h
	}
	h.pixel = ebiten.NewImage(1, 1)
	h.pixel.Fill(color.White)
	h.ints, _ = sim.(core.IntParameterSetter)
	h.floats, _ = sim.(core.FloatParameterSetter)
	h.choices, _ = sim.(core.ChoiceParameterSetter)
	if p, ok := sim.(core.ParameterControlsProvider); ok {
		for i, c := range p.ParameterControls() {
			top := rowsTop + i*rowHeight
			y := top + (rowHeight-buttonSize)/2
			plus := image.Rect(h.width-panelPadding-buttonSize, y, h.width-panelPadding, y+buttonSize)
			minus := plus.Sub(image.Pt(buttonSize+buttonGap, 0))
			h.rows = append(h.rows, hudRow{ctrl: c, text: "--", top: top, minus: minus, plus: plus})
		}
	}
	return h
}

// Update pulls fresh values from the session and applies button clicks.
// panelOffsetX is the screen x where the panel starts.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil || h.width == 0 {
		return
	}
	h.offset = panelOffsetX
	p, ok := h.sim.(core.ParameterProvider)
	if !ok {
		return
	}
	h.refresh(p.Parameters())
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	pt := image.Pt(mx-h.offset, my)
	for i := range h.rows {
		r := &h.rows[i]
		switch {
		case pt.In(r.minus):
			h.nudge(r, -1)
			return
		case pt.In(r.plus):
			h.nudge(r, 1)
			return
		}
	}
}

// Width returns the panel width in pixels.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Contains reports whether screen column x lies over the panel.
func (h *HUD) Contains(x int) bool {
	return h != nil && h.width > 0 && x >= h.offset
}

// Draw paints the panel at offsetX, as tall as the scaled grid.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width == 0 {
		return
	}
	height := h.sim.Size().H * max(scale, 1)
	if height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(panelColor)

	face := basicfont.Face7x13
	text.Draw(h.panel, "Sandfall", face, panelPadding, titleY, titleColor)
	for i := range h.rows {
		r := &h.rows[i]
		baseline := r.top + rowHeight/2 + 5
		text.Draw(h.panel, r.ctrl.Label, face, panelPadding, baseline, textColor)
		c := textColor
		if !r.known {
			c = dimColor
		}
		w := text.BoundString(face, r.text).Dx()
		text.Draw(h.panel, r.text, face, r.minus.Min.X-buttonGap-w, baseline, c)
		h.button(r.minus, "-", r.known && h.can(r, -1))
		h.button(r.plus, "+", r.known && h.can(r, 1))
	}
	y := rowsTop + len(h.rows)*rowHeight + statsSpacing
	for _, p := range h.stats {
		text.Draw(h.panel, fmt.Sprintf("%s: %s", p.Label, p.Value), face, panelPadding, y, dimColor)
		y += statsSpacing
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) refresh(snap core.ParameterSnapshot) {
	h.stats = h.stats[:0]
	for _, g := range snap.Groups {
		for _, p := range g.Params {
			if p.Type == core.ParamTypeInfo {
				h.stats = append(h.stats, p)
			}
		}
	}
	for i := range h.rows {
		r := &h.rows[i]
		r.known = false
		r.text = "--"
		p, ok := snap.Lookup(r.ctrl.Key)
		if !ok {
			continue
		}
		switch r.ctrl.Type {
		case core.ParamTypeInt, core.ParamTypeFloat:
			v, err := strconv.ParseFloat(p.Value, 64)
			if err != nil {
				continue
			}
			r.num = v
			r.text = formatValue(r.ctrl, v)
			r.known = true
		case core.ParamTypeChoice:
			for j, name := range r.ctrl.Choices {
				if name == p.Value {
					r.index = j
					r.text = name
					r.known = true
				}
			}
		}
	}
}

// target is the value one step away from r in direction dir, after clamping.
func target(r *hudRow, dir int) float64 {
	step := r.ctrl.Step
	if step <= 0 {
		step = 1
	}
	v := r.ctrl.Clamp(r.num + float64(dir)*step)
	if r.ctrl.Type == core.ParamTypeInt {
		v = math.Round(v)
	}
	return v
}

func (h *HUD) can(r *hudRow, dir int) bool {
	switch r.ctrl.Type {
	case core.ParamTypeInt:
		return h.ints != nil && target(r, dir) != r.num
	case core.ParamTypeFloat:
		return h.floats != nil && math.Abs(target(r, dir)-r.num) > 1e-9
	case core.ParamTypeChoice:
		return h.choices != nil && len(r.ctrl.Choices) > 1
	}
	return false
}

func (h *HUD) nudge(r *hudRow, dir int) {
	if !r.known || !h.can(r, dir) {
		return
	}
	switch r.ctrl.Type {
	case core.ParamTypeInt:
		v := target(r, dir)
		if h.ints.SetIntParameter(r.ctrl.Key, int(v)) {
			r.num, r.text = v, formatValue(r.ctrl, v)
		}
	case core.ParamTypeFloat:
		v := target(r, dir)
		if h.floats.SetFloatParameter(r.ctrl.Key, v) {
			r.num, r.text = v, formatValue(r.ctrl, v)
		}
	case core.ParamTypeChoice:
		n := len(r.ctrl.Choices)
		next := ((r.index+dir)%n + n) % n
		if h.choices.SetChoiceParameter(r.ctrl.Key, r.ctrl.Choices[next]) {
			r.index, r.text = next, r.ctrl.Choices[next]
		}
	}
}

func (h *HUD) button(rect image.Rectangle, label string, enabled bool) {
	bg, fg := buttonColor, textColor
	if !enabled {
		bg, fg = buttonOff, buttonOffText
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	b := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-b.Dx())/2
	y := rect.Min.Y + (rect.Dy()+b.Dy())/2
	text.Draw(h.panel, label, face, x, y, fg)
}

func formatValue(c core.ParameterControl, v float64) string {
	if c.Type == core.ParamTypeInt {
		return strconv.Itoa(int(v))
	}
	if c.Step > 0 && c.Step < 0.1 {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
