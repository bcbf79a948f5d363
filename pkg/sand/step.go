package sand

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects the stepping variant.
type Mode uint8

const (
	// ModeStatic moves grains as a direct function of the acceleration.
	ModeStatic Mode = iota
	// ModeDynamic additionally jostles grains that have been stuck for a while.
	ModeDynamic
)

// String returns the lower-case mode name.
func (m Mode) String() string {
	switch m {
	case ModeStatic:
		return "static"
	case ModeDynamic:
		return "dynamic"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// ParseMode maps "static" or "dynamic" (case-insensitive) to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "static":
		return ModeStatic, nil
	case "dynamic":
		return ModeDynamic, nil
	}
	return ModeStatic, fmt.Errorf("unknown mode %q (want static or dynamic)", s)
}

// StepStats counts what happened to each grain during one Step.
type StepStats struct {
	Moved       int
	Blocked     int
	WallBlocked int
	Idle        int
	Jostled     int
}

// LastStep reports the counts from the most recent Step.
func (s *Simulation) LastStep() StepStats { return s.last }

// Step advances every grain by at most one cell per axis.
//
// Per grain the random draws happen in a fixed order: the x and y jostle
// terms (dynamic mode, stuck grains only), then the x and y move checks.
func (s *Simulation) Step(xAcc, yAcc float64, mode Mode) {
	stats := StepStats{}
	for i := range s.sand {
		g := &s.sand[i]

		ax, ay := xAcc, yAcc
		if mode == ModeDynamic {
			var jostled bool
			ax, ay, jostled = s.effectiveAccel(g, xAcc, yAcc)
			if jostled {
				stats.Jostled++
			}
		}

		dx := s.offset(ax)
		dy := s.offset(ay)
		if dx == 0 && dy == 0 {
			stats.Idle++
			continue
		}

		nx, ny := g.X+dx, g.Y+dy
		switch {
		case s.IsFree(nx, ny):
			s.occ.Set(g.X, g.Y, false)
			g.X, g.Y = nx, ny
			s.occ.Set(nx, ny, true)
			if mode == ModeDynamic {
				g.Streak = 0
			}
			stats.Moved++
		case s.occ.InBounds(nx, ny):
			if mode == ModeDynamic {
				g.Streak++
			}
			stats.Blocked++
		default:
			stats.WallBlocked++
		}
	}
	s.last = stats
}

// effectiveAccel applies the dynamic-mode jostle and cap for one grain.
func (s *Simulation) effectiveAccel(g *Grain, xAcc, yAcc float64) (float64, float64, bool) {
	limit := s.cfg.AccelCap
	stuck := g.Streak >= s.cfg.StationaryThreshold

	if s.cfg.ClampOrder == ClampBeforeJostle {
		ax, ay := capAccel(xAcc, limit), capAccel(yAcc, limit)
		if !stuck {
			return ax, ay, false
		}
		jx := (s.src.Float64() - 0.5) * s.jostleScale(ay)
		jy := (s.src.Float64() - 0.5) * s.jostleScale(ax)
		return ax + jx, ay + jy, true
	}

	ax, ay := xAcc, yAcc
	if stuck {
		ax += (s.src.Float64() - 0.5) * s.jostleScale(yAcc)
		ay += (s.src.Float64() - 0.5) * s.jostleScale(xAcc)
	}
	return capAccel(ax, limit), capAccel(ay, limit), stuck
}

// jostleScale is the full width of the jostle interval for a cross-axis
// acceleration.
func (s *Simulation) jostleScale(cross float64) float64 {
	switch s.cfg.Jostle {
	case JostleLinear:
		return s.cfg.JostleGain * math.Abs(cross)
	case JostleUnscaled:
		return math.Abs(cross)
	default:
		return cross * cross
	}
}

// offset draws the move check for one axis and returns -1, 0 or 1.
func (s *Simulation) offset(a float64) int {
	if s.cfg.MoveScale*s.src.Float64() < math.Abs(a) {
		return sign(a)
	}
	return 0
}

func capAccel(a, limit float64) float64 {
	if a > limit {
		return limit
	}
	if a < -limit {
		return -limit
	}
	return a
}

func sign(a float64) int {
	switch {
	case a > 0:
		return 1
	case a < 0:
		return -1
	}
	return 0
}
