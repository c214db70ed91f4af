package rain

import (
	"image/color"
	"sync"
	"time"

	"github.com/iburimskiy/digital-rain/internal/scheduler"
)

type glyphCall struct {
	x, y int
	r    rune
}

// fakeSurface counts every mutation so tests can assert on draw positions
// and on the absence of writes.
type fakeSurface struct {
	mu      sync.Mutex
	ready   bool
	fills   int
	glyphs  []glyphCall
	flushes int
	frames  [][]glyphCall
	current []glyphCall
}

func newFakeSurface() *fakeSurface { return &fakeSurface{ready: true} }

func (s *fakeSurface) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

func (s *fakeSurface) FillRect(x, y, w, h int, c color.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fills++
}

func (s *fakeSurface) DrawGlyph(x, y int, r rune, c color.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	call := glyphCall{x: x, y: y, r: r}
	s.glyphs = append(s.glyphs, call)
	s.current = append(s.current, call)
}

func (s *fakeSurface) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushes++
	s.frames = append(s.frames, s.current)
	s.current = nil
}

func (s *fakeSurface) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fills + len(s.glyphs)
}

// fixedChance always returns the same draw.
type fixedChance float64

func (f fixedChance) Float64() float64 { return float64(f) }

// seqChance replays draws in order and repeats the last one.
type seqChance struct {
	vals []float64
	i    int
}

func (s *seqChance) Float64() float64 {
	v := s.vals[min(s.i, len(s.vals)-1)]
	s.i++
	return v
}

type constGlyph rune

func (g constGlyph) Next() rune { return rune(g) }

type manualClock struct {
	mu      sync.Mutex
	tickers []*manualTicker
}

func (c *manualClock) NewTicker(d time.Duration) scheduler.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTicker{c: make(chan time.Time)}
	c.tickers = append(c.tickers, t)
	return t
}

func (c *manualClock) last() *manualTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tickers[len(c.tickers)-1]
}

type manualTicker struct{ c chan time.Time }

func (t *manualTicker) C() <-chan time.Time { return t.c }
func (t *manualTicker) Stop()               {}

func (t *manualTicker) fire() bool {
	select {
	case t.c <- time.Now():
		return true
	case <-time.After(50 * time.Millisecond):
		return false
	}
}
