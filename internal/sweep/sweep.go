// Package sweep compares dynamic-mode jostle settings by pouring the same
// pile under each candidate and measuring how flat it settles.
package sweep

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"

	"sandfall/pkg/core"
	"sandfall/pkg/sand"
)

// Scenario describes a deterministic pour: grains are dropped at the top
// centre for PourTicks ticks, then the pile settles for SettleTicks.
type Scenario struct {
	Sim         sand.Config
	GravityX    float64
	GravityY    float64
	Radius      int
	PourTicks   int
	SettleTicks int
	Seed        int64
}

// DefaultScenario returns a modest pour on a 64x64 grid.
func DefaultScenario() Scenario {
	cfg := sand.DefaultConfig()
	cfg.Width = 64
	cfg.Height = 64
	return Scenario{
		Sim:         cfg,
		GravityY:    9.7,
		Radius:      1,
		PourTicks:   240,
		SettleTicks: 480,
		Seed:        1,
	}
}

// PileResult captures telemetry from one pour.
type PileResult struct {
	Grains int
	// Height is the tallest column.
	Height int
	// Spread counts the columns holding at least one grain.
	Spread int
	// Roughness is the mean absolute height step between neighbouring
	// columns across the pile's extent. Lower is flatter.
	Roughness float64
	// LastMoveTick is the final tick at which any grain moved.
	LastMoveTick int
	Jostled      int
	Ticks        int
}

// Candidate is one jostle configuration under test.
type Candidate struct {
	Jostle     sand.JostleLaw
	ClampOrder sand.ClampOrder
	Gain       float64
}

func (c Candidate) String() string {
	if c.Jostle == sand.JostleLinear {
		return fmt.Sprintf("%s(%g)/%s", c.Jostle, c.Gain, c.ClampOrder)
	}
	return fmt.Sprintf("%s/%s", c.Jostle, c.ClampOrder)
}

func (c Candidate) apply(cfg sand.Config) sand.Config {
	cfg.Jostle = c.Jostle
	cfg.ClampOrder = c.ClampOrder
	if c.Jostle == sand.JostleLinear {
		cfg.JostleGain = c.Gain
	}
	return cfg
}

// Record pairs a candidate with its measured result.
type Record struct {
	Candidate
	Result PileResult
}

// Candidates enumerates every law and clamp order. Gains only vary the
// linear law.
func Candidates(gains []float64) []Candidate {
	if len(gains) == 0 {
		gains = []float64{sand.DefaultConfig().JostleGain}
	}
	var out []Candidate
	for _, law := range sand.JostleLaws() {
		for _, order := range sand.ClampOrders() {
			if law != sand.JostleLinear {
				out = append(out, Candidate{Jostle: law, ClampOrder: order})
				continue
			}
			for _, g := range gains {
				out = append(out, Candidate{Jostle: law, ClampOrder: order, Gain: g})
			}
		}
	}
	return out
}

// PileRun pours sc in dynamic mode under cfg and measures the settled pile.
func PileRun(sc Scenario, cfg sand.Config) (PileResult, error) {
	sim := sand.New(cfg, core.NewRNG(sc.Seed))
	cx := sim.Width() / 2
	cy := sc.Radius
	total := sc.PourTicks + sc.SettleTicks

	result := PileResult{}
	for tick := 1; tick <= total; tick++ {
		if tick <= sc.PourTicks {
			sim.InsertDisc(cx, cy, sc.Radius)
		}
		sim.Step(sc.GravityX, sc.GravityY, sand.ModeDynamic)
		st := sim.LastStep()
		if st.Moved > 0 {
			result.LastMoveTick = tick
		}
		result.Jostled += st.Jostled
		result.Ticks = tick
	}
	if err := sim.Verify(); err != nil {
		return PileResult{}, fmt.Errorf("pile under %s/%s: %w", cfg.Jostle, cfg.ClampOrder, err)
	}
	measurePile(sim, &result)
	return result, nil
}

func measurePile(sim *sand.Simulation, result *PileResult) {
	w, h := sim.Width(), sim.Height()
	heights := make([]int, w)
	for g := range sim.All() {
		if col := h - g.Y; col > heights[g.X] {
			heights[g.X] = col
		}
	}
	result.Grains = sim.Len()

	first, last := -1, -1
	for x, v := range heights {
		if v == 0 {
			continue
		}
		if first < 0 {
			first = x
		}
		last = x
		result.Spread++
		result.Height = max(result.Height, v)
	}
	if first < 0 || first == last {
		return
	}
	sum := 0
	for x := first + 1; x <= last; x++ {
		sum += absInt(heights[x] - heights[x-1])
	}
	result.Roughness = float64(sum) / float64(last-first)
}

// Run evaluates every candidate on sc using up to workers goroutines. Each
// candidate owns its simulation. Records come back best first.
func Run(ctx context.Context, sc Scenario, candidates []Candidate, workers int) ([]Record, error) {
	if workers <= 0 {
		workers = 1
	}

	type outcome struct {
		result PileResult
		err    error
		valid  bool
	}

	outcomes := make([]outcome, len(candidates))
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for idx, cand := range candidates {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, c Candidate) {
			defer wg.Done()
			res, err := PileRun(sc, c.apply(sc.Sim))
			outcomes[i] = outcome{result: res, err: err, valid: true}
			<-sem
		}(idx, cand)
	}

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(candidates))
	for idx, cand := range candidates {
		out := outcomes[idx]
		if !out.valid {
			continue
		}
		if out.err != nil {
			return nil, out.err
		}
		records = append(records, Record{Candidate: cand, Result: out.result})
	}
	slices.SortStableFunc(records, func(a, b Record) int {
		switch {
		case Better(a.Result, b.Result):
			return -1
		case Better(b.Result, a.Result):
			return 1
		}
		return 0
	})
	return records, nil
}

// Better reports whether a settled flatter than b: lower roughness, then a
// lower peak, then an earlier last move.
func Better(a, b PileResult) bool {
	if !almostEqual(a.Roughness, b.Roughness) {
		return a.Roughness < b.Roughness
	}
	if a.Height != b.Height {
		return a.Height < b.Height
	}
	return a.LastMoveTick < b.LastMoveTick
}

func almostEqual(a, b float64) bool {
	const eps = 1e-9
	return math.Abs(a-b) <= eps
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
