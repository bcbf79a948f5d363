package core

import "testing"

func TestOccupancyBoundsAndCount(t *testing.T) {
	o := NewOccupancy(3, 2)

	if !o.InBounds(0, 0) || !o.InBounds(2, 1) {
		t.Fatal("corners must be in bounds")
	}
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 2}} {
		if o.InBounds(p[0], p[1]) {
			t.Fatalf("(%d,%d) reported in bounds", p[0], p[1])
		}
		if o.Occupied(p[0], p[1]) {
			t.Fatalf("(%d,%d) out of bounds must not be occupied", p[0], p[1])
		}
	}

	o.Set(1, 1, true)
	o.Set(1, 1, true)
	o.Set(5, 5, true)
	if o.Count() != 1 {
		t.Fatalf("count = %d, want 1", o.Count())
	}
	if !o.Occupied(1, 1) {
		t.Fatal("(1,1) should be occupied")
	}

	o.Set(1, 1, false)
	if o.Count() != 0 || o.Occupied(1, 1) {
		t.Fatal("clearing a cell must update count and state")
	}

	o.Set(0, 0, true)
	o.Set(2, 1, true)
	o.Clear()
	if o.Count() != 0 || o.Occupied(0, 0) || o.Occupied(2, 1) {
		t.Fatal("Clear must empty every cell")
	}
}

func TestNewOccupancyClampsDimensions(t *testing.T) {
	o := NewOccupancy(0, -4)
	if o.W != 1 || o.H != 1 {
		t.Fatalf("dimensions = %dx%d, want 1x1", o.W, o.H)
	}
}

func TestRNGSeedRestartsStream(t *testing.T) {
	r := NewRNG(7)
	first := []float64{r.Float64(), r.Float64(), r.Float64()}
	for _, v := range first {
		if v < 0 || v >= 1 {
			t.Fatalf("Float64 out of range: %f", v)
		}
	}

	r.Seed(7)
	for i, want := range first {
		if got := r.Float64(); got != want {
			t.Fatalf("draw %d after reseed = %f, want %f", i, got, want)
		}
	}

	other := NewRNG(8)
	if other.Float64() == first[0] {
		t.Fatal("different seeds should produce different streams")
	}
	if r.IntN(0) != 0 {
		t.Fatal("IntN(0) must return 0")
	}
}
