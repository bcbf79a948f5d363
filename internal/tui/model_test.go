package tui

import (
	"strings"
	"testing"
	"time"

	"sandfall/internal/session"
	"sandfall/pkg/sand"

	tea "github.com/charmbracelet/bubbletea"
)

func newModel(t *testing.T) Model {
	t.Helper()
	opts := session.DefaultOptions()
	opts.Sim.Width = 16
	opts.Sim.Height = 10
	return New(session.New(opts), 30)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestTickStepsUnlessPaused(t *testing.T) {
	m := newModel(t)
	m = update(m, tickMsg(time.Now()))
	if m.sess.Ticks() != 2 {
		t.Fatalf("one frame at speed 2 ran %d ticks", m.sess.Ticks())
	}

	m = update(m, tea.KeyMsg{Type: tea.KeySpace})
	if !m.paused {
		t.Fatal("space should pause")
	}
	m = update(m, tickMsg(time.Now()))
	if m.sess.Ticks() != 2 {
		t.Fatal("paused model should not step")
	}
	m = update(m, runes("n"))
	if m.sess.Ticks() != 4 {
		t.Fatalf("n should step one frame while paused, ticks = %d", m.sess.Ticks())
	}
}

func TestKeysAdjustSession(t *testing.T) {
	m := newModel(t)
	m = update(m, runes("l"))
	m = update(m, runes("k"))
	if gx, gy := m.sess.Gravity(); gx != 1 || gy != 8.7 {
		t.Fatalf("gravity = (%v, %v), want (1, 8.7)", gx, gy)
	}
	m = update(m, runes("m"))
	if m.sess.Mode() != sand.ModeStatic {
		t.Fatal("m should toggle to static")
	}
	m = update(m, runes("+"))
	m = update(m, runes("]"))
	if m.sess.Speed() != 2.5 || m.sess.Brush() != 3 {
		t.Fatalf("speed %v brush %d", m.sess.Speed(), m.sess.Brush())
	}
	m = update(m, runes("0"))
	if gx, gy := m.sess.Gravity(); gx != 0 || gy != 0 {
		t.Fatal("0 should zero gravity")
	}

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should quit")
	}
}

func TestMousePaintsWhileHeld(t *testing.T) {
	m := newModel(t)
	m.paused = true
	m = update(m, tea.MouseMsg{X: 5, Y: 2, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if m.cursorX != 5 || m.cursorY != 4 {
		t.Fatalf("cursor = (%d,%d), want (5,4)", m.cursorX, m.cursorY)
	}
	if got := m.sess.Simulation().Len(); got != 5 {
		t.Fatalf("press painted %d grains, want 5", got)
	}

	m = update(m, tea.MouseMsg{X: 10, Y: 2, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	m = update(m, tickMsg(time.Now()))
	if got := m.sess.Simulation().Len(); got != 10 {
		t.Fatalf("held button painted to %d grains, want 10", got)
	}

	m = update(m, tea.MouseMsg{X: 10, Y: 2, Action: tea.MouseActionRelease})
	m = update(m, tickMsg(time.Now()))
	if m.painting || m.sess.Simulation().Len() != 10 {
		t.Fatal("release should stop painting")
	}
}

func TestViewShape(t *testing.T) {
	m := newModel(t)
	m.sess.Paint(3, 3)
	view := m.View()
	lines := strings.Split(view, "\n")
	if len(lines) != 5+statusHeight {
		t.Fatalf("view has %d lines, want %d", len(lines), 5+statusHeight)
	}
	if !strings.Contains(view, "5 grains") {
		t.Fatalf("status missing grain count: %q", lines[5])
	}
	if strings.Count(lines[0], halfBlock) != 16 {
		t.Fatalf("row should hold 16 half blocks: %q", lines[0])
	}

	m = update(m, tea.WindowSizeMsg{Width: 8, Height: 5})
	lines = strings.Split(m.View(), "\n")
	if len(lines) != 3+statusHeight || strings.Count(lines[0], halfBlock) != 8 {
		t.Fatalf("view not cropped to the window: %d lines", len(lines))
	}
}
