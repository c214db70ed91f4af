// Package rain implements the falling-glyph animation: column state, frame
// rendering, resize reconciliation and the tick lifecycle.
package rain

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"sync"
	"time"

	"github.com/iburimskiy/digital-rain/internal/scheduler"
)

var ErrAlreadyRunning = errors.New("engine already running")

// ResizePolicy decides what happens to surviving columns on resize.
type ResizePolicy int

const (
	// PreserveColumns keeps the rows of columns that survive a resize.
	PreserveColumns ResizePolicy = iota
	// ResetColumns restarts every column at row 0 when the size changes.
	ResetColumns
)

func (p ResizePolicy) String() string {
	switch p {
	case PreserveColumns:
		return "preserve"
	case ResetColumns:
		return "reset"
	default:
		return fmt.Sprintf("ResizePolicy(%d)", int(p))
	}
}

const (
	defaultCellSize       = 16
	defaultTickInterval   = 40 * time.Millisecond
	defaultResetThreshold = 0.975
	defaultAlphabet       = "ABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890@#$%^&*()"
)

var (
	defaultFade = color.NRGBA{R: 10, G: 25, B: 47, A: 13}
	defaultInk  = color.NRGBA{R: 0x64, G: 0xff, B: 0xda, A: 255}
)

type options struct {
	alphabet       string
	cellSize       int
	tickInterval   time.Duration
	resetThreshold float64
	fade, ink      color.Color
	chance         Chance
	glyphs         GlyphSource
	clock          scheduler.Clock
	logger         *log.Logger
	policy         ResizePolicy
	debug          bool
}

type Option func(*options)

func WithAlphabet(s string) Option { return func(o *options) { o.alphabet = s } }

func WithCellSize(px int) Option { return func(o *options) { o.cellSize = px } }

func WithTickInterval(d time.Duration) Option { return func(o *options) { o.tickInterval = d } }

func WithResetThreshold(t float64) Option { return func(o *options) { o.resetThreshold = t } }

// WithPalette sets the translucent wash color and the glyph color.
func WithPalette(fade, ink color.Color) Option {
	return func(o *options) { o.fade, o.ink = fade, ink }
}

// WithChance replaces the probability source used for resets and, unless
// WithGlyphs is also given, for glyph selection.
func WithChance(c Chance) Option { return func(o *options) { o.chance = c } }

func WithGlyphs(g GlyphSource) Option { return func(o *options) { o.glyphs = g } }

func WithClock(c scheduler.Clock) Option { return func(o *options) { o.clock = c } }

func WithLogger(l *log.Logger) Option { return func(o *options) { o.logger = l } }

func WithResizePolicy(p ResizePolicy) Option { return func(o *options) { o.policy = p } }

func WithDebug(debug bool) Option { return func(o *options) { o.debug = debug } }

// Engine owns the surface dimensions and column state of one surface and
// drives the renderer from a scheduler. OnResize and ticks are serialized
// by a single mutex, so hosts may deliver resizes from any goroutine.
type Engine struct {
	mu       sync.Mutex
	surface  Surface
	dims     Dimensions
	store    *Columns
	renderer Renderer
	policy   ResizePolicy
	interval time.Duration
	logger   *log.Logger
	debug    bool

	sched   *scheduler.Scheduler
	handle  *scheduler.Handle
	running bool
	stopped bool
}

func New(surface Surface, opts ...Option) (*Engine, error) {
	o := options{
		alphabet:       defaultAlphabet,
		cellSize:       defaultCellSize,
		tickInterval:   defaultTickInterval,
		resetThreshold: defaultResetThreshold,
		fade:           defaultFade,
		ink:            defaultInk,
		chance:         DefaultChance,
		logger:         log.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.cellSize <= 0 {
		return nil, fmt.Errorf("cell size must be positive: got %d", o.cellSize)
	}
	if o.tickInterval <= 0 {
		return nil, fmt.Errorf("tick interval must be positive: got %v", o.tickInterval)
	}
	alphabet, err := NewAlphabet(o.alphabet)
	if err != nil {
		return nil, err
	}
	if o.glyphs == nil {
		o.glyphs = NewGlyphSource(alphabet, o.chance)
	}

	return &Engine{
		surface: surface,
		store:   NewColumns(0),
		renderer: Renderer{
			CellSize:       o.cellSize,
			Glyphs:         o.glyphs,
			Chance:         o.chance,
			ResetThreshold: o.resetThreshold,
			Fade:           o.fade,
			Ink:            o.ink,
			Logger:         o.logger,
		},
		policy:   o.policy,
		interval: o.tickInterval,
		logger:   o.logger,
		debug:    o.debug,
		sched:    scheduler.New(o.clock),
	}, nil
}

// OnResize records the new surface size and reconciles the column store
// to floor(width / cellSize) columns. Negative sizes count as zero.
func (e *Engine) OnResize(width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	dims := Dimensions{Width: max(width, 0), Height: max(height, 0)}
	changed := dims != e.dims
	e.dims = dims

	count := ColumnCount(dims.Width, e.renderer.CellSize)
	e.store.Resize(count)
	if changed && e.policy == ResetColumns {
		e.store.Reset()
	}
	if e.debug {
		e.logger.Printf("[Engine] resized to %dx%d, %d columns (%s)", dims.Width, dims.Height, count, e.policy)
	}
}

// Tick renders one frame outside of the scheduler. After Stop it does
// nothing until the engine is started again.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return
	}
	e.renderer.RenderFrame(e.surface, e.dims, e.store)
}

// Start begins ticking at the configured interval.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return ErrAlreadyRunning
	}
	h, err := e.sched.Start(e.interval, e.tick)
	if err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	e.handle = h
	e.running = true
	e.stopped = false
	e.logger.Printf("[Engine] started, tick %v", e.interval)
	return nil
}

func (e *Engine) tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	e.renderer.RenderFrame(e.surface, e.dims, e.store)
}

// Stop halts ticking. When Stop returns no further frame is rendered by the
// scheduler. Calling Stop on a stopped or never started engine is a no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	e.stopped = true
	h := e.handle
	e.handle = nil
	e.mu.Unlock()

	// A tick blocked on mu sees running == false and returns without drawing.
	e.sched.Stop(h)
	e.logger.Printf("[Engine] stopped")
}

func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

func (e *Engine) Dimensions() Dimensions {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dims
}

func (e *Engine) ColumnCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Len()
}

// Rows returns a copy of the column positions.
func (e *Engine) Rows() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Rows()
}

func (e *Engine) CellSize() int { return e.renderer.CellSize }
