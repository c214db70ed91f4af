// Package game hosts the rain engine in an ebiten window.
package game

import (
	"errors"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/iburimskiy/digital-rain/internal/canvas"
)

// Game implements ebiten.Game. The engine ticks on its own goroutine into
// the recorder; Draw replays those frames on the ebiten thread onto an
// offscreen image that is never cleared, so the fade wash accumulates.
type Game struct {
	rec        *canvas.Recorder
	face       text.Face
	background color.NRGBA

	onResize func(w, h int)
	onClick  func()

	width, height int
	offscreen     *ebiten.Image
}

type Option func(*Game)

// OnResize is called from Layout whenever the window size changes.
func OnResize(fn func(w, h int)) Option { return func(g *Game) { g.onResize = fn } }

// OnClick is called on a left mouse press.
func OnClick(fn func()) Option { return func(g *Game) { g.onClick = fn } }

func New(rec *canvas.Recorder, face text.Face, background color.NRGBA, opts ...Option) *Game {
	g := &Game{
		rec:        rec,
		face:       face,
		background: opaque(background),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && g.onClick != nil {
		g.onClick()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	frames := g.rec.Drain()
	if g.width <= 0 || g.height <= 0 {
		return
	}

	if g.offscreen == nil || g.offscreen.Bounds().Dx() != g.width || g.offscreen.Bounds().Dy() != g.height {
		if g.offscreen != nil {
			g.offscreen.Deallocate()
		}
		g.offscreen = ebiten.NewImage(g.width, g.height)
		g.offscreen.Fill(g.background)
	}

	canvas.Replay(&imageTarget{dst: g.offscreen, face: g.face}, frames)
	screen.DrawImage(g.offscreen, nil)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.rec.SetSize(outsideWidth, outsideHeight)
		if g.onResize != nil {
			g.onResize(outsideWidth, outsideHeight)
		}
	}
	return outsideWidth, outsideHeight
}

// Run opens a resizable window and blocks until it is closed.
func Run(g *Game, title string, width, height int) error {
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
