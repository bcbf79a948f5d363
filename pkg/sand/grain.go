package sand

import "math"

// Grain is a single particle occupying one cell.
type Grain struct {
	X, Y int
	// Brightness is a cosmetic shade factor fixed at creation.
	Brightness float64
	// Streak counts consecutive move attempts blocked by another grain.
	Streak int
}

// shadeCursor is a ping-pong oscillator over [min, max]. It walks an integer
// phase so repeated float steps cannot drift past either bound.
type shadeCursor struct {
	min, max, step float64
	phase, span    int
	dir            int
}

func newShadeCursor(min, max, step float64) shadeCursor {
	span := 0
	if step > 0 && max > min {
		span = int(math.Ceil((max-min)/step - 1e-9))
	}
	return shadeCursor{min: min, max: max, step: step, span: span, dir: 1}
}

// current returns the brightness the next grain receives.
func (c *shadeCursor) current() float64 {
	if c.phase >= c.span {
		if c.span == 0 {
			return c.max
		}
		return c.min
	}
	return c.max - float64(c.phase)*c.step
}

func (c *shadeCursor) advance() {
	if c.span == 0 {
		return
	}
	next := c.phase + c.dir
	if next > c.span || next < 0 {
		c.dir = -c.dir
		next = c.phase + c.dir
	}
	c.phase = next
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
