package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"time"

	"sandfall/internal/app"
	"sandfall/internal/config"
	"sandfall/internal/logging"
	"sandfall/internal/session"
	"sandfall/internal/tui"

	"github.com/spf13/cobra"
)

var (
	// run
	pourFrames int
	runFrames  int
	pourX      int
	pourY      int
	verify     bool
	plot       bool
	// sweep
	sweepGains   []float64
	sweepWorkers int
	sweepPour    int
	sweepSettle  int
	// config
	writePath string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "sandfall",
		Short:        "falling sand under adjustable gravity",
		SilenceUsage: true,
	}
	config.Bind(rootCmd.PersistentFlags())

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the interactive window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, sess, err := setup(cmd)
			if err != nil {
				return err
			}
			logger.Info("starting gui", "size", fmt.Sprintf("%dx%d", cfg.Sim.Width, cfg.Sim.Height), "scale", cfg.Display.Scale)
			return app.Run(sess, cfg.Display.Scale, cfg.Display.HUDWidth, cfg.Display.TPS)
		},
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, sess, err := setup(cmd)
			if err != nil {
				return err
			}
			return tui.Run(sess, cfg.Display.TPS)
		},
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "pour grains headless and report what happened",
		RunE:  runHeadlessCmd,
	}
	runCmd.Flags().IntVar(&pourFrames, "pour", 120, "frames to pour grains for")
	runCmd.Flags().IntVar(&runFrames, "frames", 600, "total frames to simulate")
	runCmd.Flags().IntVar(&pourX, "x", -1, "pour column (default centre)")
	runCmd.Flags().IntVar(&pourY, "y", -1, "pour row (default top)")
	runCmd.Flags().BoolVar(&verify, "verify", false, "check grid invariants after every frame")
	runCmd.Flags().BoolVar(&plot, "plot", true, "plot grains moved per frame")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "rank jostle settings by how flat a poured pile settles",
		RunE:  runSweepCmd,
	}
	sweepCmd.Flags().Float64SliceVar(&sweepGains, "gains", []float64{1, 2, 4, 8}, "linear jostle gains to try")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", runtime.NumCPU(), "parallel candidate evaluations")
	sweepCmd.Flags().IntVar(&sweepPour, "pour", 240, "ticks spent pouring")
	sweepCmd.Flags().IntVar(&sweepSettle, "settle", 480, "ticks spent settling")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromFlags(cmd.Flags())
			if err != nil {
				return err
			}
			if writePath != "" {
				return config.Save(writePath, cfg)
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	configCmd.Flags().StringVar(&writePath, "write", "", "save to this path instead of printing")

	rootCmd.AddCommand(guiCmd, tuiCmd, runCmd, sweepCmd, configCmd)
	return rootCmd
}

// setup resolves the configuration and builds the logger and session.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, *session.Session, error) {
	cfg, err := config.FromFlags(cmd.Flags())
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	logger := logging.NewLogger(cfg.LogLevel, cmd.ErrOrStderr())
	opts, err := cfg.SessionOptions()
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	start := time.Now()
	sess := session.New(opts)
	logger.Debug("session ready", "seed", opts.Seed, "mode", opts.Mode, "took", time.Since(start))
	return cfg, logger, sess, nil
}
