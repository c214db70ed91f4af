// Package scheduler drives a callback at a fixed cadence on a single
// goroutine.
package scheduler

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrInvalidInterval = errors.New("tick interval must be positive")
	ErrNilTick         = errors.New("tick callback is nil")
)

// Ticker is the subset of time.Ticker the scheduler needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock creates tickers. RealClock is used outside of tests.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

type RealClock struct{}

func (RealClock) NewTicker(d time.Duration) Ticker {
	return realTicker{time.NewTicker(d)}
}

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// Scheduler starts tick loops. It holds no per-loop state, so one Scheduler
// may own several handles.
type Scheduler struct {
	clock Clock
}

func New(clock Clock) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	return &Scheduler{clock: clock}
}

// Handle identifies a running tick loop.
type Handle struct {
	ticker Ticker
	quit   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// Start invokes onTick every interval until Stop. Ticks are delivered
// sequentially; a slow onTick delays the following ones instead of
// overlapping them.
func (s *Scheduler) Start(interval time.Duration, onTick func()) (*Handle, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if onTick == nil {
		return nil, ErrNilTick
	}

	h := &Handle{
		ticker: s.clock.NewTicker(interval),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go h.loop(onTick)
	return h, nil
}

func (h *Handle) loop(onTick func()) {
	defer close(h.done)
	defer h.ticker.Stop()

	for {
		select {
		case <-h.quit:
			return
		case <-h.ticker.C():
			// A tick and Stop can be ready together; select picks randomly.
			select {
			case <-h.quit:
				return
			default:
			}
			onTick()
		}
	}
}

// Stop ends the loop and blocks until an in-flight tick has returned.
// Stopping a nil or already stopped handle is a no-op. Stop must not be
// called from inside onTick.
func (s *Scheduler) Stop(h *Handle) {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.quit) })
	<-h.done
}
