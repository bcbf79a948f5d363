package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"sandfall/internal/logging"
	"sandfall/internal/session"
	"sandfall/internal/sweep"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

type pourPlan struct {
	X, Y       int
	PourFrames int
	Frames     int
	Verify     bool
}

type runReport struct {
	Frames  int
	Ticks   int
	Grains  int
	Jostled int
	Moved   []float64
}

// pour paints at the plan's point for PourFrames frames while stepping the
// session for Frames frames in total.
func pour(ctx context.Context, sess *session.Session, plan pourPlan, logger *slog.Logger) (runReport, error) {
	report := runReport{Moved: make([]float64, 0, plan.Frames)}
	for frame := 0; frame < plan.Frames; frame++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		sess.Step()
		if frame < plan.PourFrames {
			sess.Paint(plan.X, plan.Y)
		}
		last := sess.LastFrame()
		report.Moved = append(report.Moved, float64(last.Moved))
		report.Jostled += last.Jostled
		report.Frames = frame + 1
		if plan.Verify {
			if err := sess.Simulation().Verify(); err != nil {
				return report, fmt.Errorf("frame %d: %w", frame, err)
			}
		}
		logger.Log(ctx, logging.LevelTrace, "frame", "n", frame, "moved", last.Moved, "blocked", last.Blocked, "jostled", last.Jostled)
	}
	report.Ticks = sess.Ticks()
	report.Grains = sess.Simulation().Len()
	return report, nil
}

func runHeadlessCmd(cmd *cobra.Command, args []string) error {
	_, logger, sess, err := setup(cmd)
	if err != nil {
		return err
	}
	size := sess.Size()
	plan := pourPlan{X: pourX, Y: pourY, PourFrames: pourFrames, Frames: runFrames, Verify: verify}
	if plan.X < 0 {
		plan.X = size.W / 2
	}
	if plan.Y < 0 {
		plan.Y = sess.Brush() - 1
	}

	report, err := pour(cmd.Context(), sess, plan, logger)
	if err != nil {
		return err
	}
	logger.Info("run complete",
		"frames", report.Frames,
		"ticks", report.Ticks,
		"grains", report.Grains,
		"jostled", report.Jostled,
		"mode", sess.Mode(),
	)
	if plot && len(report.Moved) > 1 {
		fmt.Fprintln(cmd.OutOrStdout(), asciigraph.Plot(report.Moved,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("grains moved per frame"),
		))
	}
	return nil
}

func runSweepCmd(cmd *cobra.Command, args []string) error {
	cfg, logger, _, err := setup(cmd)
	if err != nil {
		return err
	}
	sc := sweep.DefaultScenario()
	sc.Sim = cfg.Sim
	sc.GravityX, sc.GravityY = cfg.Gravity.X, cfg.Gravity.Y
	sc.Radius = max(cfg.Brush-1, 0)
	sc.PourTicks = sweepPour
	sc.SettleTicks = sweepSettle
	sc.Seed = cfg.Seed

	cands := sweep.Candidates(sweepGains)
	logger.Info("sweeping", "candidates", len(cands), "workers", sweepWorkers)
	records, err := sweep.Run(cmd.Context(), sc, cands, sweepWorkers)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	return printRecords(cmd.OutOrStdout(), records)
}

func printRecords(out io.Writer, records []sweep.Record) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tCANDIDATE\tROUGHNESS\tHEIGHT\tSPREAD\tGRAINS\tJOSTLED\tLAST MOVE")
	for i, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%.3f\t%d\t%d\t%d\t%d\t%d\n",
			i+1, r.Candidate, r.Result.Roughness, r.Result.Height, r.Result.Spread,
			r.Result.Grains, r.Result.Jostled, r.Result.LastMoveTick)
	}
	return w.Flush()
}
