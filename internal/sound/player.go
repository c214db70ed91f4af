package sound

import (
	"sync"

	"github.com/faiface/beep"
)

// LazyPlayer starts the audio device on the first Play. If start fails,
// fail receives the error once and later streams are dropped.
type LazyPlayer struct {
	once  sync.Once
	err   error
	start func() error
	play  func(beep.Streamer)
	fail  func(error)
}

func NewLazyPlayer(start func() error, play func(beep.Streamer), fail func(error)) *LazyPlayer {
	return &LazyPlayer{start: start, play: play, fail: fail}
}

func (p *LazyPlayer) Play(s beep.Streamer) {
	p.once.Do(func() {
		if p.start != nil {
			p.err = p.start()
		}
		if p.err != nil && p.fail != nil {
			p.fail(p.err)
		}
	})
	if p.err != nil || p.play == nil {
		return
	}
	p.play(s)
}

