// Package session owns one falling-sand simulation together with the
// interactive state the front ends adjust: gravity, mode, speed and brush.
package session

import (
	"math"

	"sandfall/internal/core"
	pcore "sandfall/pkg/core"
	"sandfall/pkg/sand"
)

// Options configures a Session.
type Options struct {
	Sim      sand.Config
	GravityX float64
	GravityY float64
	Mode     sand.Mode
	// Speed is the number of ticks per frame. Fractions carry over.
	Speed float64
	// Brush is the painted disc size; the disc radius is Brush-1.
	Brush int
	Seed  int64
}

// DefaultOptions returns the interactive defaults.
func DefaultOptions() Options {
	return Options{
		Sim:      sand.DefaultConfig(),
		GravityX: 0,
		GravityY: 9.7,
		Mode:     sand.ModeDynamic,
		Speed:    2,
		Brush:    2,
		Seed:     1,
	}
}

// FrameStats aggregates the tick statistics of the most recent frame.
type FrameStats struct {
	Ticks int
	sand.StepStats
}

// Session drives a sand.Simulation one frame at a time.
type Session struct {
	opts   Options
	rng    *pcore.RNG
	sim    *sand.Simulation
	budget *core.StepBudget

	display []uint8
	stuck   []float32
	dirty   bool

	ticks int
	last  FrameStats
}

// New builds a session and resets it with opts.Seed.
func New(opts Options) *Session {
	if opts.Brush < 1 {
		opts.Brush = 1
	}
	rng := pcore.NewRNG(opts.Seed)
	sim := sand.New(opts.Sim, rng)
	opts.Sim = sim.Config()
	s := &Session{
		opts:    opts,
		rng:     rng,
		sim:     sim,
		budget:  core.NewStepBudget(0),
		display: make([]uint8, sim.Width()*sim.Height()),
	}
	s.SetSpeed(opts.Speed)
	s.Reset(opts.Seed)
	return s
}

// Name returns the simulation identifier.
func (s *Session) Name() string { return "sandfall" }

// Size reports the grid dimensions.
func (s *Session) Size() core.Size { return core.Size{W: s.sim.Width(), H: s.sim.Height()} }

// Simulation exposes the underlying grid for inspection.
func (s *Session) Simulation() *sand.Simulation { return s.sim }

// Options returns the current settings.
func (s *Session) Options() Options { return s.opts }

// Reset clears every grain and reseeds the random source. A zero seed keeps
// the configured seed.
func (s *Session) Reset(seed int64) {
	if seed == 0 {
		seed = s.opts.Seed
	}
	s.opts.Seed = seed
	s.rng.Seed(seed)
	s.sim.Reset()
	s.budget.Reset()
	s.ticks = 0
	s.last = FrameStats{}
	s.dirty = true
}

// Step advances one frame: as many ticks as the speed budget allows.
func (s *Session) Step() {
	n := s.budget.Due()
	frame := FrameStats{}
	for range n {
		s.tick(&frame)
	}
	s.last = frame
}

// Tick advances exactly one simulation tick regardless of speed.
func (s *Session) Tick() {
	frame := FrameStats{}
	s.tick(&frame)
	s.last = frame
}

func (s *Session) tick(frame *FrameStats) {
	s.sim.Step(s.opts.GravityX, s.opts.GravityY, s.opts.Mode)
	st := s.sim.LastStep()
	frame.Ticks++
	frame.Moved += st.Moved
	frame.Blocked += st.Blocked
	frame.WallBlocked += st.WallBlocked
	frame.Idle += st.Idle
	frame.Jostled += st.Jostled
	s.ticks++
	s.dirty = true
}

// Paint drops a disc of grains centred on (x, y) and returns how many were
// placed.
func (s *Session) Paint(x, y int) int {
	n := s.sim.InsertDisc(x, y, s.opts.Brush-1)
	if n > 0 {
		s.dirty = true
	}
	return n
}

// Ticks returns the number of ticks since the last reset.
func (s *Session) Ticks() int { return s.ticks }

// LastFrame returns statistics for the most recent Step or Tick.
func (s *Session) LastFrame() FrameStats { return s.last }

// Gravity returns the current acceleration.
func (s *Session) Gravity() (x, y float64) { return s.opts.GravityX, s.opts.GravityY }

// SetGravity replaces the acceleration. NaN components are ignored.
func (s *Session) SetGravity(x, y float64) {
	if !math.IsNaN(x) {
		s.opts.GravityX = x
	}
	if !math.IsNaN(y) {
		s.opts.GravityY = y
	}
}

// Mode returns the stepping variant.
func (s *Session) Mode() sand.Mode { return s.opts.Mode }

// SetMode selects the stepping variant.
func (s *Session) SetMode(m sand.Mode) {
	if m == sand.ModeStatic || m == sand.ModeDynamic {
		s.opts.Mode = m
	}
}

// ToggleMode switches between static and dynamic stepping.
func (s *Session) ToggleMode() {
	if s.opts.Mode == sand.ModeDynamic {
		s.opts.Mode = sand.ModeStatic
		return
	}
	s.opts.Mode = sand.ModeDynamic
}

// Speed returns the ticks per frame.
func (s *Session) Speed() float64 { return s.opts.Speed }

// SetSpeed changes the ticks per frame, capped at SpeedLimit. Non-positive
// values pause stepping.
func (s *Session) SetSpeed(v float64) {
	if v > SpeedLimit {
		v = SpeedLimit
	}
	s.budget.SetRate(v)
	s.opts.Speed = s.budget.Rate()
}

// Brush returns the brush size.
func (s *Session) Brush() int { return s.opts.Brush }

// SetBrush changes the brush size, never below 1.
func (s *Session) SetBrush(n int) {
	if n < 1 {
		n = 1
	}
	s.opts.Brush = n
}

// Seed returns the seed used by the last reset.
func (s *Session) Seed() int64 { return s.opts.Seed }
