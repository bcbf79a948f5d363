package render

import (
	"image/color"
	"math"
)

// FillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
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

// FillMaskRGBA tints mask intensities in [0, 1] into translucent RGBA pixels.
// Zero cells stay fully transparent.
func FillMaskRGBA(buf []byte, mask []float32, tint color.RGBA) {
	const (
		maxAlpha      = 140.0
		glowBase      = 0.35
		glowRange     = 0.65
		intensityBias = 0.75
	)

	for i, m := range mask {
		base := i * 4
		intensity := clamp01(float64(m))
		if intensity == 0 {
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
			continue
		}

		alpha := uint8(math.Round(maxAlpha * math.Pow(intensity, intensityBias)))
		glow := glowBase + glowRange*math.Sqrt(intensity)

		buf[base+0] = scaleComponent(tint.R, glow)
		buf[base+1] = scaleComponent(tint.G, glow)
		buf[base+2] = scaleComponent(tint.B, glow)
		buf[base+3] = alpha
	}
}

func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
