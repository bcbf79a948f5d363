// Package sand implements a bounded falling-grain simulation. Grains move at
// most one cell per axis per tick under a directional acceleration and never
// share a cell.
//
// A Simulation is not safe for concurrent use. One goroutine owns it and runs
// TryInsert, Step and Reset to completion before any other call.
package sand

import (
	"fmt"
	"iter"
	"math"
	"slices"

	"sandfall/pkg/core"
)

// Simulation owns the grain collection and the occupancy index over the
// grid.
type Simulation struct {
	cfg  Config
	src  core.Source
	occ  *core.Occupancy
	sand []Grain

	shade shadeCursor
	last  StepStats
}

// New builds an empty simulation. Invalid config fields fall back to
// defaults; a nil src is replaced by a fixed-seed RNG.
func New(cfg Config, src core.Source) *Simulation {
	cfg = cfg.normalized()
	if src == nil {
		src = core.NewRNG(1)
	}
	return &Simulation{
		cfg:   cfg,
		src:   src,
		occ:   core.NewOccupancy(cfg.Width, cfg.Height),
		shade: newShadeCursor(cfg.MinBrightness, cfg.MaxBrightness, cfg.BrightnessStep),
	}
}

// Config returns the effective configuration.
func (s *Simulation) Config() Config { return s.cfg }

// Width returns the number of columns.
func (s *Simulation) Width() int { return s.cfg.Width }

// Height returns the number of rows.
func (s *Simulation) Height() int { return s.cfg.Height }

// InsideBounds reports whether (x, y) lies on the grid.
func (s *Simulation) InsideBounds(x, y int) bool { return s.occ.InBounds(x, y) }

// IsFree reports whether (x, y) lies on the grid and holds no grain.
func (s *Simulation) IsFree(x, y int) bool {
	return s.occ.InBounds(x, y) && !s.occ.Occupied(x, y)
}

// TryInsert places a grain at (x, y) shaded by the brightness cursor. It
// returns false without changing anything when the cell is off the grid or
// taken.
func (s *Simulation) TryInsert(x, y int) bool {
	return s.insert(x, y, s.shade.current())
}

// TryInsertShaded is TryInsert with an explicit brightness, clamped into the
// configured range. The cursor still advances on success.
func (s *Simulation) TryInsertShaded(x, y int, brightness float64) bool {
	if math.IsNaN(brightness) {
		brightness = s.shade.current()
	}
	return s.insert(x, y, clampFloat(brightness, s.cfg.MinBrightness, s.cfg.MaxBrightness))
}

func (s *Simulation) insert(x, y int, brightness float64) bool {
	if !s.IsFree(x, y) {
		return false
	}
	s.sand = append(s.sand, Grain{X: x, Y: y, Brightness: brightness})
	s.occ.Set(x, y, true)
	s.shade.advance()
	return true
}

// Reset removes every grain. The brightness cursor keeps its phase.
func (s *Simulation) Reset() {
	s.sand = s.sand[:0]
	s.occ.Clear()
	s.last = StepStats{}
}

// Len returns the number of grains.
func (s *Simulation) Len() int { return len(s.sand) }

// Grains returns a copy of the grain collection in insertion order.
func (s *Simulation) Grains() []Grain { return slices.Clone(s.sand) }

// All yields each grain by value in insertion order.
func (s *Simulation) All() iter.Seq[Grain] {
	return func(yield func(Grain) bool) {
		for _, g := range s.sand {
			if !yield(g) {
				return
			}
		}
	}
}

// Verify checks that the occupancy index and the grain collection describe
// the same set of cells.
func (s *Simulation) Verify() error {
	seen := make(map[[2]int]int, len(s.sand))
	for i, g := range s.sand {
		if !s.occ.InBounds(g.X, g.Y) {
			return fmt.Errorf("grain %d at (%d,%d) is outside %dx%d", i, g.X, g.Y, s.cfg.Width, s.cfg.Height)
		}
		key := [2]int{g.X, g.Y}
		if j, dup := seen[key]; dup {
			return fmt.Errorf("grains %d and %d share cell (%d,%d)", j, i, g.X, g.Y)
		}
		seen[key] = i
		if !s.occ.Occupied(g.X, g.Y) {
			return fmt.Errorf("grain %d at (%d,%d) is not marked occupied", i, g.X, g.Y)
		}
	}
	if n := s.occ.Count(); n != len(s.sand) {
		return fmt.Errorf("occupancy marks %d cells for %d grains", n, len(s.sand))
	}
	return nil
}
