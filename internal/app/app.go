//go:build ebiten

package app

import (
	"errors"
	"image/color"
	"time"

	"sandfall/internal/render"
	"sandfall/internal/session"
	"sandfall/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	gravityStep = 1.0
	speedStep   = 0.5
)

// Game adapts a sand session to the ebiten.Game interface.
type Game struct {
	sess    *session.Session
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	palette []color.RGBA

	scale    int
	paused   bool
	tickOnce bool
}

// New constructs a Game for the provided session.
func New(sess *session.Session, scale, hudWidth int) *Game {
	if scale <= 0 {
		scale = 1
	}
	size := sess.Size()
	return &Game{
		sess:    sess,
		painter: render.NewGridPainter(size.W, size.H),
		overlay: ui.NewOverlay(sess, scale),
		hud:     ui.NewHUD(sess, hudWidth),
		palette: render.SandPalette(),
		scale:   scale,
	}
}

// Run opens the window and blocks until it closes.
func Run(sess *session.Session, scale, hudWidth, tps int) error {
	g := New(sess, scale, hudWidth)
	w, h := g.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("sandfall")
	if tps > 0 {
		ebiten.SetTPS(tps)
	}
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// Reset clears the grains and reseeds.
func (g *Game) Reset(seed int64) {
	g.sess.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame input and advances the session.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.sess.Seed())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.sess.ToggleMode()
	}
	g.handleControlKeys()

	g.overlay.Update()
	g.hud.Update(g.sess.Size().W * g.scale)

	if !g.paused || g.tickOnce {
		g.sess.Step()
		g.tickOnce = false
	}
	g.handlePaint()
	return nil
}

func (g *Game) handleControlKeys() {
	gx, gy := g.sess.Gravity()
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		g.sess.SetFloatParameter("gravity_x", gx-gravityStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		g.sess.SetFloatParameter("gravity_x", gx+gravityStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		g.sess.SetFloatParameter("gravity_y", gy-gravityStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		g.sess.SetFloatParameter("gravity_y", gy+gravityStep)
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd):
		g.sess.SetFloatParameter("speed", g.sess.Speed()+speedStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract):
		g.sess.SetFloatParameter("speed", g.sess.Speed()-speedStep)
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketRight):
		g.sess.SetIntParameter("brush", g.sess.Brush()+1)
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft):
		g.sess.SetIntParameter("brush", g.sess.Brush()-1)
	}
}

// handlePaint drops grains under the cursor while the left button is held.
func (g *Game) handlePaint() {
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if g.hud.Contains(mx) {
		return
	}
	g.sess.Paint(mx/g.scale, my/g.scale)
}

// Draw renders the current grains, overlay and HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(render.Background)
	g.painter.Blit(screen, g.sess.Cells(), g.palette, g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.sess.Size().W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sess.Size()
	return s.W*g.scale + g.hudWidth(), s.H * g.scale
}

func (g *Game) hudWidth() int {
	if g.hud == nil {
		return 0
	}
	return g.hud.Width()
}
