package session

import "math"

// Cells returns the display buffer: 0 for empty cells, otherwise the
// grain's brightness scaled to 1..255.
func (s *Session) Cells() []uint8 {
	if s.dirty {
		s.rebuildDisplay()
	}
	return s.display
}

// StuckMask returns, per cell, how close the grain there is to being
// jostled: its stationary streak over the threshold, capped at 1.
func (s *Session) StuckMask() []float32 {
	w, h := s.sim.Width(), s.sim.Height()
	if len(s.stuck) != w*h {
		s.stuck = make([]float32, w*h)
	}
	clear(s.stuck)
	threshold := s.sim.Config().StationaryThreshold
	for g := range s.sim.All() {
		if g.Streak <= 0 {
			continue
		}
		v := float32(1)
		if threshold > 0 && g.Streak < threshold {
			v = float32(g.Streak) / float32(threshold)
		}
		s.stuck[g.Y*w+g.X] = v
	}
	return s.stuck
}

func (s *Session) rebuildDisplay() {
	clear(s.display)
	w := s.sim.Width()
	for g := range s.sim.All() {
		s.display[g.Y*w+g.X] = encodeBrightness(g.Brightness)
	}
	s.dirty = false
}

func encodeBrightness(b float64) uint8 {
	v := math.Round(b * 255)
	if !(v >= 1) {
		return 1
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
