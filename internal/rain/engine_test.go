package rain

import (
	"errors"
	"io"
	"log"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"
	"time"
)

func newTestEngine(t *testing.T, s Surface, opts ...Option) *Engine {
	t.Helper()
	base := []Option{
		WithLogger(log.New(io.Discard, "", 0)),
		WithGlyphs(constGlyph('A')),
		WithChance(fixedChance(0)),
	}
	e, err := New(s, append(base, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func TestNewValidation(t *testing.T) {
	quiet := WithLogger(log.New(io.Discard, "", 0))
	if _, err := New(nil, quiet, WithAlphabet("")); !errors.Is(err, ErrEmptyAlphabet) {
		t.Errorf("empty alphabet err = %v", err)
	}
	if _, err := New(nil, quiet, WithCellSize(0)); err == nil {
		t.Error("expected cell size error")
	}
	if _, err := New(nil, quiet, WithTickInterval(0)); err == nil {
		t.Error("expected interval error")
	}
}

func TestOnResizeColumnCount(t *testing.T) {
	const c = 16
	e := newTestEngine(t, newFakeSurface(), WithCellSize(c))
	for _, w := range []int{0, 1, c - 1, c, c + 1, 5000 * c} {
		e.OnResize(w, 100)
		if got, want := e.ColumnCount(), w/c; got != want {
			t.Errorf("width %d: columns = %d, want %d", w, got, want)
		}
		if got := len(e.Rows()); got != e.ColumnCount() {
			t.Errorf("width %d: store length %d != column count", w, got)
		}
		if e.Dimensions() != (Dimensions{Width: w, Height: 100}) {
			t.Errorf("width %d: dims = %+v", w, e.Dimensions())
		}
	}
}

func TestOnResizeNegativeIsDegenerate(t *testing.T) {
	e := newTestEngine(t, newFakeSurface())
	e.OnResize(-20, -5)
	if e.Dimensions() != (Dimensions{}) || e.ColumnCount() != 0 {
		t.Errorf("dims=%+v columns=%d", e.Dimensions(), e.ColumnCount())
	}
}

func TestOnResizeIdempotent(t *testing.T) {
	for _, policy := range []ResizePolicy{PreserveColumns, ResetColumns} {
		t.Run(policy.String(), func(t *testing.T) {
			e := newTestEngine(t, newFakeSurface(), WithResizePolicy(policy))
			e.OnResize(160, 80)
			for i := 0; i < 3; i++ {
				e.Tick()
			}
			before := e.Rows()
			e.OnResize(160, 80)
			if got := e.Rows(); !slices.Equal(got, before) {
				t.Errorf("rows changed on identical resize: %v -> %v", before, got)
			}
		})
	}
}

func TestOnResizePreservesSurvivors(t *testing.T) {
	e := newTestEngine(t, newFakeSurface())
	e.OnResize(64, 800)
	e.Tick()
	e.Tick()

	e.OnResize(128, 800)
	if got := e.Rows(); !slices.Equal(got, []int{2, 2, 2, 2, 0, 0, 0, 0}) {
		t.Errorf("after grow rows = %v", got)
	}
	e.Tick()
	e.OnResize(48, 800)
	if got := e.Rows(); !slices.Equal(got, []int{3, 3, 3}) {
		t.Errorf("after shrink rows = %v", got)
	}
}

func TestOnResizeResetPolicy(t *testing.T) {
	e := newTestEngine(t, newFakeSurface(), WithResizePolicy(ResetColumns))
	e.OnResize(64, 800)
	e.Tick()
	e.OnResize(96, 800)
	if got := e.Rows(); !slices.Equal(got, []int{0, 0, 0, 0, 0, 0}) {
		t.Errorf("rows = %v", got)
	}
}

func TestDegenerateResizeDrawsNothing(t *testing.T) {
	s := newFakeSurface()
	e := newTestEngine(t, s)
	e.OnResize(0, 0)
	e.Tick()
	if s.writes() != 0 {
		t.Errorf("writes = %d on empty surface", s.writes())
	}
}

func TestInterleavedResizeNeverDrawsOutOfRange(t *testing.T) {
	const cell = 16
	s := newFakeSurface()
	e := newTestEngine(t, s, WithCellSize(cell), WithChance(DefaultChance))
	rng := rand.New(rand.NewPCG(1, 2))

	for step := 0; step < 500; step++ {
		if rng.IntN(3) == 0 {
			e.OnResize(rng.IntN(50*cell), rng.IntN(30*cell))
			continue
		}
		frames := len(s.frames)
		e.Tick()
		count := e.ColumnCount()
		if e.Dimensions().Empty() {
			if len(s.frames) != frames {
				t.Fatalf("step %d: frame drawn on empty surface", step)
			}
			continue
		}
		frame := s.frames[len(s.frames)-1]
		if len(frame) != count {
			t.Fatalf("step %d: %d glyphs for %d columns", step, len(frame), count)
		}
		for _, g := range frame {
			col := g.x / cell
			if col < 0 || col >= count {
				t.Fatalf("step %d: glyph in column %d of %d", step, col, count)
			}
		}
	}
}

func TestStartStop(t *testing.T) {
	clock := &manualClock{}
	s := newFakeSurface()
	e := newTestEngine(t, s, WithClock(clock))
	e.OnResize(160, 80)

	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	if !e.Running() {
		t.Error("not running after Start")
	}
	if err := e.Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second start err = %v", err)
	}

	tk := clock.last()
	for i := 0; i < 3; i++ {
		if !tk.fire() {
			t.Fatalf("tick %d refused", i)
		}
	}

	e.Stop()
	written := s.writes()
	if written == 0 {
		t.Fatal("no frames rendered while running")
	}

	// Simulated elapsed time: ticks offered after Stop go nowhere and a
	// direct Tick is ignored.
	for i := 0; i < 5; i++ {
		tk.fire()
	}
	e.Tick()
	if got := s.writes(); got != written {
		t.Errorf("writes after stop: %d -> %d", written, got)
	}
	if e.Running() {
		t.Error("still running after Stop")
	}

	e.Stop()
}

func TestStopNeverStarted(t *testing.T) {
	e := newTestEngine(t, newFakeSurface())
	e.Stop()
	e.Stop()
}

func TestRestart(t *testing.T) {
	clock := &manualClock{}
	s := newFakeSurface()
	e := newTestEngine(t, s, WithClock(clock))
	e.OnResize(32, 32)

	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	e.Stop()
	if err := e.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	defer e.Stop()

	before := s.writes()
	if !clock.last().fire() {
		t.Fatal("restarted loop refused tick")
	}
	deadline := time.Now().Add(time.Second)
	for s.writes() == before && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if s.writes() == before {
		t.Error("no frame after restart")
	}
}

func TestConcurrentResizeAndTicks(t *testing.T) {
	s := newFakeSurface()
	e := newTestEngine(t, s, WithTickInterval(time.Millisecond), WithChance(DefaultChance))
	e.OnResize(320, 240)
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			e.OnResize(16*(i%40), 240)
		}
	}()
	wg.Wait()
	e.Stop()

	if got, want := e.ColumnCount(), e.Dimensions().Width/16; got != want {
		t.Errorf("columns = %d, want %d", got, want)
	}
}
