//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"sandfall/internal/core"
	"sandfall/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type stuckMaskProvider interface {
	StuckMask() []float32
}

type gravityProvider interface {
	Gravity() (float64, float64)
}

// Overlay draws optional debugging visuals on top of the grain view.
type Overlay struct {
	sim         core.Sim
	scale       int
	showStuck   bool
	showGravity bool
	maskImg     *ebiten.Image
	maskBuf     []byte

	pixel *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: scale}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles the overlay layers.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showStuck = !o.showStuck
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showGravity = !o.showGravity
	}
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}

	if o.showStuck {
		if provider, ok := o.sim.(stuckMaskProvider); ok {
			o.drawMask(screen, provider.StuckMask(), size, scale, color.RGBA{R: 223, G: 64, B: 96})
		}
	}
	if o.showGravity {
		if provider, ok := o.sim.(gravityProvider); ok {
			gx, gy := provider.Gravity()
			o.drawGravity(screen, gx, gy, size, scale)
		}
	}
}

func (o *Overlay) drawMask(screen *ebiten.Image, mask []float32, size core.Size, scale int, tint color.RGBA) {
	total := size.W * size.H
	if len(mask) != total || total == 0 {
		return
	}
	if o.maskImg == nil || o.maskImg.Bounds().Dx() != size.W || o.maskImg.Bounds().Dy() != size.H {
		o.maskImg = ebiten.NewImage(size.W, size.H)
		o.maskBuf = make([]byte, 4*total)
	}
	render.FillMaskRGBA(o.maskBuf, mask, tint)
	o.maskImg.WritePixels(o.maskBuf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(o.maskImg, op)
}

// drawGravity draws an arrow from the view centre whose length follows the
// acceleration magnitude relative to the move scale of 20.
func (o *Overlay) drawGravity(screen *ebiten.Image, gx, gy float64, size core.Size, scale int) {
	const (
		fullScale = 20.0
		headAngle = math.Pi / 6
	)
	cx := float64(size.W*scale) / 2
	cy := float64(size.H*scale) / 2
	speed := math.Hypot(gx, gy)
	if speed < 1e-6 {
		o.drawPoint(screen, cx, cy, float64(scale)*3, color.RGBA{R: 90, G: 130, B: 170, A: 160})
		return
	}

	maxLength := math.Min(cx, cy) * 0.8
	normalized := clamp01(speed / fullScale)
	length := maxLength * math.Sqrt(normalized)
	nx, ny := gx/speed, gy/speed
	tipX, tipY := cx+nx*length, cy+ny*length
	headLength := math.Min(length*0.3, float64(scale)*6)
	thickness := math.Max(1, float64(scale)*(0.8+0.6*normalized))

	col := interpolateColor(normalized)
	o.drawLine(screen, cx, cy, tipX, tipY, thickness, col)
	angle := math.Atan2(ny, nx)
	o.drawLine(screen, tipX, tipY, tipX-math.Cos(angle+headAngle)*headLength, tipY-math.Sin(angle+headAngle)*headLength, thickness*0.85, col)
	o.drawLine(screen, tipX, tipY, tipX-math.Cos(angle-headAngle)*headLength, tipY-math.Sin(angle-headAngle)*headLength, thickness*0.85, col)
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	if o.pixel == nil || size <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size*0.5, y-size*0.5)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
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

func interpolateColor(t float64) color.RGBA {
	t = clamp01(t)
	r := uint8(math.Round(80 + 170*t))
	g := uint8(math.Round(170 - 60*t))
	b := uint8(math.Round(230 - 170*t))
	a := uint8(math.Round(150 + 90*t))
	return color.RGBA{R: r, G: g, B: b, A: a}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
