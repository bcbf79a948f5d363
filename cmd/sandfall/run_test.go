package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"sandfall/internal/logging"
	"sandfall/internal/session"
	"sandfall/internal/sweep"
)

func testSession() *session.Session {
	opts := session.DefaultOptions()
	opts.Sim.Width = 20
	opts.Sim.Height = 20
	return session.New(opts)
}

func TestPourVerifiesEveryFrame(t *testing.T) {
	sess := testSession()
	plan := pourPlan{X: 10, Y: 1, PourFrames: 15, Frames: 60, Verify: true}
	report, err := pour(context.Background(), sess, plan, logging.Discard())
	if err != nil {
		t.Fatalf("pour: %v", err)
	}
	if report.Frames != 60 || len(report.Moved) != 60 {
		t.Fatalf("report covers %d frames", report.Frames)
	}
	if report.Ticks != 120 {
		t.Fatalf("ticks = %d, want 120 at speed 2", report.Ticks)
	}
	if report.Grains == 0 || report.Grains != sess.Simulation().Len() {
		t.Fatalf("grains = %d", report.Grains)
	}
}

func TestPourStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := pour(ctx, testSession(), pourPlan{Frames: 10}, logging.Discard())
	if err == nil || report.Frames != 0 {
		t.Fatalf("expected immediate cancel, got %d frames, err %v", report.Frames, err)
	}
}

func TestPrintRecords(t *testing.T) {
	var buf bytes.Buffer
	records := []sweep.Record{
		{Candidate: sweep.Candidates(nil)[0], Result: sweep.PileResult{Roughness: 0.25, Height: 7, Spread: 11, Grains: 40}},
	}
	if err := printRecords(&buf, records); err != nil {
		t.Fatalf("printRecords: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"RANK", "square/after", "0.250"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestConfigCommandPrintsYAML(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"config", "--speed", "4", "--set", "jostle=linear"})
	if err := root.Execute(); err != nil {
		t.Fatalf("config: %v", err)
	}
	text := out.String()
	for _, want := range []string{"speed: 4", "jostle: linear", "gravity:"} {
		if !strings.Contains(text, want) {
			t.Errorf("yaml missing %q:\n%s", want, text)
		}
	}
}

func TestRootRejectsBadConfig(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"config", "--mode", "liquid"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected invalid mode to fail")
	}
}
