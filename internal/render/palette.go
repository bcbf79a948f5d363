package render

import (
	"image/color"
	"math"
)

// GrainBase is the colour of a grain at full brightness.
var GrainBase = color.RGBA{R: 250, G: 190, B: 60, A: 255}

// Background is the colour of an empty cell.
var Background = color.RGBA{A: 255}

var sandPalette = buildSandPalette()

// SandPalette maps display values to colours: 0 is the background and value
// i is GrainBase scaled by i/255.
func SandPalette() []color.RGBA {
	return sandPalette
}

func buildSandPalette() []color.RGBA {
	palette := make([]color.RGBA, 256)
	palette[0] = Background
	for i := 1; i < len(palette); i++ {
		palette[i] = shade(GrainBase, float64(i)/255)
	}
	return palette
}

func shade(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{
		R: scaleComponent(c.R, f),
		G: scaleComponent(c.G, f),
		B: scaleComponent(c.B, f),
		A: c.A,
	}
}

func scaleComponent(v uint8, f float64) uint8 {
	scaled := math.Round(float64(v) * f)
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}
