// Package term hosts the rain engine in a terminal through tcell. Each
// terminal cell stands for one glyph cell of cellSize pixels.
package term

import (
	"errors"
	"fmt"
	"image/color"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// fadeFloor is the distance to the background below which a faded cell is
// cleared.
const fadeFloor = 0.02

var ErrInvalidCellSize = errors.New("cell size must be positive")

type cell struct {
	r   rune
	ink colorful.Color
}

// Surface emulates translucent fills on a terminal by blending each cell's
// glyph color toward the fill color.
type Surface struct {
	mu         sync.Mutex
	screen     tcell.Screen
	cellSize   int
	background colorful.Color
	cols, rows int
	cells      []cell
}

func NewSurface(screen tcell.Screen, cellSize int, background color.Color) (*Surface, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCellSize, cellSize)
	}
	bg, _ := colorful.MakeColor(opaque(background))
	s := &Surface{screen: screen, cellSize: cellSize, background: bg}
	screen.SetStyle(tcell.StyleDefault.Background(tcellColor(bg)))
	screen.Clear()
	return s, nil
}

// Resize matches the shadow grid to the screen and returns the surface size
// in pixels.
func (s *Surface) Resize(cols, rows int) (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cols, s.rows = max(cols, 0), max(rows, 0)
	s.cells = make([]cell, s.cols*s.rows)
	s.screen.Clear()
	return s.cols * s.cellSize, s.rows * s.cellSize
}

func (s *Surface) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cols > 0 && s.rows > 0
}

func (s *Surface) FillRect(x, y, w, h int, c color.Color) {
	alpha := float64(color.NRGBAModel.Convert(c).(color.NRGBA).A) / 0xff
	target, ok := colorful.MakeColor(opaque(c))
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	x0, y0 := s.clampCell(x/s.cellSize, y/s.cellSize)
	x1, y1 := s.clampCell(ceilDiv(x+w, s.cellSize), ceilDiv(y+h, s.cellSize))
	for row := y0; row < y1; row++ {
		for col := x0; col < x1; col++ {
			cl := &s.cells[row*s.cols+col]
			if cl.r == 0 {
				continue
			}
			cl.ink = cl.ink.BlendRgb(target, alpha)
			if cl.ink.DistanceRgb(s.background) < fadeFloor {
				*cl = cell{}
				s.screen.SetContent(col, row, ' ', nil, s.style(s.background))
				continue
			}
			s.screen.SetContent(col, row, cl.r, nil, s.style(cl.ink))
		}
	}
}

func (s *Surface) DrawGlyph(x, y int, r rune, c color.Color) {
	ink, ok := colorful.MakeColor(opaque(c))
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	col, row := x/s.cellSize, y/s.cellSize
	if x < 0 || y < 0 || col >= s.cols || row >= s.rows {
		// Columns run past the bottom edge until they reset.
		return
	}
	s.cells[row*s.cols+col] = cell{r: r, ink: ink}
	s.screen.SetContent(col, row, r, nil, s.style(ink))
}

// Flush presents the frame.
func (s *Surface) Flush() {
	s.screen.Show()
}

// Glyph reports the shadow content of a cell, for inspection.
func (s *Surface) Glyph(col, row int) (rune, colorful.Color, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return 0, colorful.Color{}, false
	}
	cl := s.cells[row*s.cols+col]
	return cl.r, cl.ink, cl.r != 0
}

func (s *Surface) style(ink colorful.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(tcellColor(ink)).Background(tcellColor(s.background))
}

func (s *Surface) clampCell(col, row int) (int, int) {
	return min(max(col, 0), s.cols), min(max(row, 0), s.rows)
}

func tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func opaque(c color.Color) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 0xff
	return n
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
