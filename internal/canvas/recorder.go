// Package canvas records surface operations on one goroutine and replays
// them on another. Hosts whose draw calls must happen on their own render
// thread hand a Recorder to the engine and drain it from that thread.
package canvas

import (
	"image/color"
	"sync"
)

// MaxPendingFrames bounds the frames kept while nobody drains the recorder,
// e.g. while a window is minimized. Older frames are dropped first.
const MaxPendingFrames = 32

type OpKind uint8

const (
	OpFill OpKind = iota
	OpGlyph
)

// Op is one recorded surface call.
type Op struct {
	Kind OpKind
	X, Y int
	W, H int
	Rune rune
	// Color is normalized to non-premultiplied form.
	Color color.NRGBA
}

// Frame is the ops of one rendered frame, in call order.
type Frame []Op

// Target receives replayed ops.
type Target interface {
	FillRect(x, y, w, h int, c color.NRGBA)
	DrawGlyph(x, y int, r rune, c color.NRGBA)
}

// Recorder implements rain.Surface and rain.Flusher.
type Recorder struct {
	mu            sync.Mutex
	width, height int
	current       Frame
	pending       []Frame
	dropped       int
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// SetSize attaches the recorder to a target of the given size. A zero size
// detaches it.
func (r *Recorder) SetSize(w, h int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = w, h
}

func (r *Recorder) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *Recorder) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width > 0 && r.height > 0
}

func (r *Recorder) FillRect(x, y, w, h int, c color.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = append(r.current, Op{Kind: OpFill, X: x, Y: y, W: w, H: h, Color: nrgba(c)})
}

func (r *Recorder) DrawGlyph(x, y int, ch rune, c color.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = append(r.current, Op{Kind: OpGlyph, X: x, Y: y, Rune: ch, Color: nrgba(c)})
}

// Flush closes the frame in progress.
func (r *Recorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.current) == 0 {
		return
	}
	r.pending = append(r.pending, r.current)
	r.current = nil
	if over := len(r.pending) - MaxPendingFrames; over > 0 {
		clear(r.pending[:over])
		r.pending = r.pending[over:]
		r.dropped += over
	}
}

// Drain returns the closed frames, oldest first, and empties the queue.
func (r *Recorder) Drain() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.pending
	r.pending = nil
	return out
}

// Dropped is the number of frames discarded because the queue was full.
func (r *Recorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Replay sends frames to t in order.
func Replay(t Target, frames []Frame) {
	for _, f := range frames {
		for _, op := range f {
			switch op.Kind {
			case OpFill:
				t.FillRect(op.X, op.Y, op.W, op.H, op.Color)
			case OpGlyph:
				t.DrawGlyph(op.X, op.Y, op.Rune, op.Color)
			}
		}
	}
}

func nrgba(c color.Color) color.NRGBA {
	if c == nil {
		return color.NRGBA{}
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
