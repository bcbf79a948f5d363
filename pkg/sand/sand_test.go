package sand

import (
	"math"
	"slices"
	"testing"

	"sandfall/pkg/core"
)

// scriptSource replays vals in order and returns 0 once they run out.
type scriptSource struct {
	vals []float64
	n    int
}

func (s *scriptSource) Float64() float64 {
	v := 0.0
	if s.n < len(s.vals) {
		v = s.vals[s.n]
	}
	s.n++
	return v
}

func zeros(n int) []float64 { return make([]float64, n) }

func smallConfig(w, h int) Config {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return cfg
}

func TestTryInsertAcceptsFreeCell(t *testing.T) {
	sim := New(smallConfig(4, 4), core.NewRNG(1))

	if !sim.TryInsert(2, 3) {
		t.Fatal("insert at a free in-bounds cell must succeed")
	}
	if sim.Len() != 1 {
		t.Fatalf("grain count = %d, want 1", sim.Len())
	}
	if sim.IsFree(2, 3) {
		t.Fatal("inserted cell must be occupied")
	}
	g := sim.Grains()[0]
	if g.X != 2 || g.Y != 3 || g.Streak != 0 {
		t.Fatalf("unexpected grain %+v", g)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if (x != 2 || y != 3) && !sim.IsFree(x, y) {
				t.Fatalf("cell (%d,%d) should still be free", x, y)
			}
		}
	}
	if err := sim.Verify(); err != nil {
		t.Fatal(err)
	}
}

func TestTryInsertRejectsOccupiedAndOutOfBounds(t *testing.T) {
	tests := []struct {
		name string
		x, y int
	}{
		{"occupied", 1, 1},
		{"left of grid", -1, 0},
		{"above grid", 0, -1},
		{"right of grid", 4, 0},
		{"below grid", 0, 4},
		{"far away", 1 << 20, -(1 << 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := New(smallConfig(4, 4), core.NewRNG(1))
			sim.TryInsert(1, 1)
			before := sim.Grains()

			if sim.TryInsert(tt.x, tt.y) {
				t.Fatalf("TryInsert(%d,%d) succeeded", tt.x, tt.y)
			}
			if !slices.Equal(before, sim.Grains()) {
				t.Fatal("rejected insert mutated the grain collection")
			}
			if err := sim.Verify(); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestResetIdempotent(t *testing.T) {
	sim := New(smallConfig(6, 6), core.NewRNG(3))
	sim.InsertDisc(3, 3, 2)
	sim.Step(0, 10, ModeDynamic)

	sim.Reset()
	if sim.Len() != 0 {
		t.Fatalf("grain count after reset = %d", sim.Len())
	}
	sim.Reset()
	if sim.Len() != 0 {
		t.Fatalf("grain count after second reset = %d", sim.Len())
	}
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			if !sim.IsFree(x, y) {
				t.Fatalf("cell (%d,%d) occupied after reset", x, y)
			}
		}
	}
	if sim.LastStep() != (StepStats{}) {
		t.Fatal("reset must clear step stats")
	}
	if err := sim.Verify(); err != nil {
		t.Fatal(err)
	}
	if !sim.TryInsert(0, 0) {
		t.Fatal("grid must accept grains after reset")
	}
}

func TestBrightnessCursorPingPongs(t *testing.T) {
	cfg := smallConfig(20, 1)
	cfg.MinBrightness = 0.6
	cfg.MaxBrightness = 1
	cfg.BrightnessStep = 0.1
	sim := New(cfg, core.NewRNG(1))

	for x := 0; x < 10; x++ {
		sim.TryInsert(x, 0)
		if x == 0 && sim.TryInsert(0, 0) {
			t.Fatal("duplicate insert must fail")
		}
	}

	want := []float64{1, 0.9, 0.8, 0.7, 0.6, 0.7, 0.8, 0.9, 1, 0.9}
	grains := sim.Grains()
	for i, w := range want {
		if got := grains[i].Brightness; math.Abs(got-w) > 1e-9 {
			t.Fatalf("grain %d brightness = %f, want %f", i, got, w)
		}
	}
}

func TestDefaultBrightnessStaysInRange(t *testing.T) {
	sim := New(smallConfig(64, 64), core.NewRNG(1))
	for i := 0; i < 64*64; i++ {
		sim.TryInsert(i%64, i/64)
	}
	lowest, highest := 2.0, -1.0
	for g := range sim.All() {
		lowest = math.Min(lowest, g.Brightness)
		highest = math.Max(highest, g.Brightness)
	}
	if lowest < 0.6 || highest > 1 {
		t.Fatalf("brightness escaped [0.6, 1]: got [%f, %f]", lowest, highest)
	}
	if math.Abs(lowest-0.6) > 1e-9 || highest != 1 {
		t.Fatalf("cursor should reach both bounds, got [%f, %f]", lowest, highest)
	}
}

func TestTryInsertShadedClampsBrightness(t *testing.T) {
	sim := New(smallConfig(4, 1), core.NewRNG(1))
	sim.TryInsertShaded(0, 0, 5)
	sim.TryInsertShaded(1, 0, -1)
	sim.TryInsertShaded(2, 0, math.NaN())
	sim.TryInsert(3, 0)

	grains := sim.Grains()
	if grains[0].Brightness != 1 || grains[1].Brightness != 0.6 {
		t.Fatalf("explicit brightness not clamped: %+v", grains[:2])
	}
	if math.Abs(grains[2].Brightness-0.98) > 1e-9 {
		t.Fatalf("NaN brightness should fall back to the cursor, got %f", grains[2].Brightness)
	}
	if math.Abs(grains[3].Brightness-0.97) > 1e-9 {
		t.Fatalf("cursor should advance on shaded inserts, got %f", grains[3].Brightness)
	}
}

func TestGrainsReturnsCopy(t *testing.T) {
	sim := New(smallConfig(4, 4), core.NewRNG(1))
	sim.TryInsert(1, 1)

	view := sim.Grains()
	view[0].X = 3
	if sim.Grains()[0].X != 1 {
		t.Fatal("mutating the returned slice must not affect the simulation")
	}
}

func TestVerifyDetectsCorruption(t *testing.T) {
	sim := New(smallConfig(4, 4), core.NewRNG(1))
	sim.TryInsert(1, 1)
	sim.TryInsert(2, 2)

	sim.sand[1].X, sim.sand[1].Y = 1, 1
	if err := sim.Verify(); err == nil {
		t.Fatal("expected shared cell to be reported")
	}

	sim.sand[1].X, sim.sand[1].Y = 9, 0
	if err := sim.Verify(); err == nil {
		t.Fatal("expected out-of-bounds grain to be reported")
	}

	sim.sand[1].X, sim.sand[1].Y = 2, 2
	sim.occ.Set(0, 0, true)
	if err := sim.Verify(); err == nil {
		t.Fatal("expected stray occupancy to be reported")
	}
}

func TestInsertDisc(t *testing.T) {
	tests := []struct {
		name   string
		cx, cy int
		radius int
		want   int
	}{
		{"single cell", 5, 5, 0, 1},
		{"plus", 5, 5, 1, 5},
		{"radius two", 5, 5, 2, 13},
		{"clipped at corner", 0, 0, 1, 3},
		{"negative radius", 5, 5, -1, 0},
		{"off grid", -5, -5, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := New(smallConfig(11, 11), core.NewRNG(1))
			if got := sim.InsertDisc(tt.cx, tt.cy, tt.radius); got != tt.want {
				t.Fatalf("placed %d grains, want %d", got, tt.want)
			}
			if sim.Len() != tt.want {
				t.Fatalf("grain count %d, want %d", sim.Len(), tt.want)
			}
			if again := sim.InsertDisc(tt.cx, tt.cy, tt.radius); again != 0 {
				t.Fatalf("repainting the same disc placed %d grains", again)
			}
		})
	}
}

func TestInsertDiscVisitsColumns(t *testing.T) {
	sim := New(smallConfig(11, 11), core.NewRNG(1))
	sim.InsertDisc(5, 5, 1)
	want := [][2]int{{4, 5}, {5, 4}, {5, 5}, {5, 6}, {6, 5}}
	grains := sim.Grains()
	if len(grains) != len(want) {
		t.Fatalf("placed %d grains, want %d", len(grains), len(want))
	}
	for i, g := range grains {
		if g.X != want[i][0] || g.Y != want[i][1] {
			t.Fatalf("grain %d at (%d,%d), want (%d,%d)", i, g.X, g.Y, want[i][0], want[i][1])
		}
	}
}

func TestNewNormalizesConfig(t *testing.T) {
	sim := New(Config{}, nil)
	def := DefaultConfig()
	if sim.Width() != def.Width || sim.Height() != def.Height {
		t.Fatalf("size = %dx%d, want defaults", sim.Width(), sim.Height())
	}
	if sim.Config().MoveScale != def.MoveScale || sim.Config().Jostle != def.Jostle {
		t.Fatalf("unexpected normalized config %+v", sim.Config())
	}
}
