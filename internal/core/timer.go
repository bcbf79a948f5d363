package core

import "math"

// StepBudget converts a possibly fractional ticks-per-frame speed into a
// whole number of ticks for each frame, carrying the remainder forward.
type StepBudget struct {
	rate        float64
	accumulator float64
}

// NewStepBudget constructs a budget running rate ticks per frame.
func NewStepBudget(rate float64) *StepBudget {
	b := &StepBudget{}
	b.SetRate(rate)
	return b
}

// SetRate changes the ticks per frame. Negative, NaN or infinite rates stop
// stepping.
func (b *StepBudget) SetRate(rate float64) {
	if !(rate > 0) || math.IsInf(rate, 1) {
		rate = 0
	}
	b.rate = rate
	if b.accumulator >= 1 || rate == 0 {
		b.accumulator = 0
	}
}

// Rate returns the current ticks per frame.
func (b *StepBudget) Rate() float64 { return b.rate }

// Due reports how many ticks to run for the current frame.
func (b *StepBudget) Due() int {
	b.accumulator += b.rate
	n := int(b.accumulator)
	b.accumulator -= float64(n)
	return n
}

// Reset drops any carried fraction.
func (b *StepBudget) Reset() { b.accumulator = 0 }
