package core

import (
	"math"
	"testing"
)

func TestStepBudgetWholeRate(t *testing.T) {
	b := NewStepBudget(2)
	for frame := 0; frame < 5; frame++ {
		if n := b.Due(); n != 2 {
			t.Fatalf("frame %d: due = %d, want 2", frame, n)
		}
	}
}

func TestStepBudgetFractionalRate(t *testing.T) {
	b := NewStepBudget(0.5)
	got := []int{b.Due(), b.Due(), b.Due(), b.Due()}
	want := []int{0, 1, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("due sequence = %v, want %v", got, want)
		}
	}

	b = NewStepBudget(2.5)
	total := 0
	for frame := 0; frame < 10; frame++ {
		total += b.Due()
	}
	if total != 25 {
		t.Fatalf("ten frames at 2.5 ran %d ticks, want 25", total)
	}
}

func TestStepBudgetRejectsBadRates(t *testing.T) {
	for _, rate := range []float64{0, -3, math.NaN(), math.Inf(1)} {
		b := NewStepBudget(rate)
		for frame := 0; frame < 3; frame++ {
			if n := b.Due(); n != 0 {
				t.Fatalf("rate %v: due = %d, want 0", rate, n)
			}
		}
		if b.Rate() != 0 {
			t.Fatalf("rate %v stored as %v", rate, b.Rate())
		}
	}
}

func TestParameterSnapshotLookup(t *testing.T) {
	snap := ParameterSnapshot{Groups: []ParameterGroup{
		{Name: "A", Params: []Parameter{{Key: "speed", Value: "2"}}},
		{Name: "B", Params: []Parameter{{Key: "mode", Value: "dynamic"}}},
	}}
	p, ok := snap.Lookup("mode")
	if !ok || p.Value != "dynamic" {
		t.Fatalf("Lookup(mode) = %+v, %v", p, ok)
	}
	if _, ok := snap.Lookup("missing"); ok {
		t.Fatal("Lookup of a missing key should fail")
	}
}

func TestParameterControlClamp(t *testing.T) {
	c := ParameterControl{Min: -10, Max: 10, HasMin: true, HasMax: true}
	if c.Clamp(12) != 10 || c.Clamp(-12) != -10 || c.Clamp(3) != 3 {
		t.Fatal("Clamp should limit to both bounds")
	}
	open := ParameterControl{Min: 0, HasMin: true}
	if open.Clamp(1e9) != 1e9 {
		t.Fatal("Clamp without a max must not cap")
	}
}
