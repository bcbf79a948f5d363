// Package tui renders a session in the terminal. Each character cell shows
// two grid rows using an upper half block.
package tui

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"sandfall/internal/render"
	"sandfall/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	warn   = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

const (
	halfBlock    = "▀"
	gravityStep  = 1.0
	speedStep    = 0.5
	statusHeight = 2
)

type tickMsg time.Time

// Model is the bubbletea model driving one session.
type Model struct {
	sess    *session.Session
	palette []color.RGBA
	frame   time.Duration

	paused   bool
	painting bool
	cursorX  int
	cursorY  int

	width, height int
	styles        map[[2]uint8]lipgloss.Style
}

// New builds a model stepping sess fps times per second.
func New(sess *session.Session, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	return Model{
		sess:    sess,
		palette: render.SandPalette(),
		frame:   time.Second / time.Duration(fps),
		styles:  make(map[[2]uint8]lipgloss.Style),
	}
}

// Run starts the terminal program and blocks until the user quits.
func Run(sess *session.Session, fps int) error {
	p := tea.NewProgram(New(sess, fps), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tickMsg:
		m.advance()
		return m, m.tick()
	}
	return m, nil
}

// advance runs one frame: step first, then paint under a held button.
func (m *Model) advance() {
	if !m.paused {
		m.sess.Step()
	}
	if m.painting {
		m.sess.Paint(m.cursorX, m.cursorY)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	gx, gy := m.sess.Gravity()
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ":
		m.paused = !m.paused
	case "n":
		m.sess.Step()
	case "r":
		m.sess.Reset(m.sess.Seed())
	case "s":
		m.sess.Reset(time.Now().UnixNano())
	case "m":
		m.sess.ToggleMode()
	case "left", "h":
		m.sess.SetFloatParameter("gravity_x", gx-gravityStep)
	case "right", "l":
		m.sess.SetFloatParameter("gravity_x", gx+gravityStep)
	case "up", "k":
		m.sess.SetFloatParameter("gravity_y", gy-gravityStep)
	case "down", "j":
		m.sess.SetFloatParameter("gravity_y", gy+gravityStep)
	case "0":
		m.sess.SetGravity(0, 0)
	case "+", "=":
		m.sess.SetFloatParameter("speed", m.sess.Speed()+speedStep)
	case "-":
		m.sess.SetFloatParameter("speed", m.sess.Speed()-speedStep)
	case "]":
		m.sess.SetIntParameter("brush", m.sess.Brush()+1)
	case "[":
		m.sess.SetIntParameter("brush", m.sess.Brush()-1)
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionRelease {
		return
	}
	m.cursorX, m.cursorY = msg.X, msg.Y*2
	switch msg.Action {
	case tea.MouseActionPress:
		m.painting = true
		m.sess.Paint(m.cursorX, m.cursorY)
	case tea.MouseActionRelease:
		m.painting = false
	}
}

func (m Model) View() string {
	size := m.sess.Size()
	cells := m.sess.Cells()
	cols, rows := size.W, (size.H+1)/2
	if m.width > 0 && m.width < cols {
		cols = m.width
	}
	if m.height > statusHeight && m.height-statusHeight < rows {
		rows = m.height - statusHeight
	}

	var b strings.Builder
	for r := 0; r < rows; r++ {
		top := 2 * r
		for x := 0; x < cols; x++ {
			upper := cells[top*size.W+x]
			var lower uint8
			if top+1 < size.H {
				lower = cells[(top+1)*size.W+x]
			}
			b.WriteString(m.cellStyle(upper, lower).Render(halfBlock))
		}
		b.WriteByte('\n')
	}
	b.WriteString(m.status())
	return b.String()
}

func (m Model) cellStyle(upper, lower uint8) lipgloss.Style {
	key := [2]uint8{upper, lower}
	if st, ok := m.styles[key]; ok {
		return st
	}
	st := lipgloss.NewStyle().
		Foreground(hexColor(m.palette[upper])).
		Background(hexColor(m.palette[lower]))
	m.styles[key] = st
	return st
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

func (m Model) status() string {
	gx, gy := m.sess.Gravity()
	last := m.sess.LastFrame()
	parts := []string{
		accent.Render(fmt.Sprintf("%d grains", m.sess.Simulation().Len())),
		fmt.Sprintf("gravity (%.1f, %.1f)", gx, gy),
		m.sess.Mode().String(),
		fmt.Sprintf("speed %g", m.sess.Speed()),
		fmt.Sprintf("brush %d", m.sess.Brush()),
		fmt.Sprintf("moved %d", last.Moved),
	}
	if m.paused {
		parts = append(parts, warn.Render("paused"))
	}
	help := dim.Render("hjkl gravity · m mode · +/- speed · [/] brush · space pause · r reset · q quit")
	return strings.Join(parts, dim.Render(" · ")) + "\n" + help
}
