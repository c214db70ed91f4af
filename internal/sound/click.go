// Package sound synthesizes the short click cue the hosts play on user
// input.
package sound

import (
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
)

// Tone returns an endless sine at freq Hz.
func Tone(sr beep.SampleRate, freq float64) beep.Streamer {
	var phase float64
	step := freq / float64(sr)
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := math.Sin(2 * math.Pi * phase)
			samples[i][0], samples[i][1] = v, v
			phase += step
			if phase >= 1 {
				phase--
			}
		}
		return len(samples), true
	})
}

// Click is a sine burst of length d that decays to silence.
func Click(sr beep.SampleRate, freq float64, d time.Duration) beep.Streamer {
	return newEnvelope(Tone(sr, freq), sr.N(d))
}

// Cue plays a fresh click through play on every Fire. A nil play or a muted
// cue does nothing.
type Cue struct {
	mu       sync.Mutex
	play     func(beep.Streamer)
	sr       beep.SampleRate
	freq     float64
	duration time.Duration
	muted    bool
}

func NewCue(play func(beep.Streamer), sr beep.SampleRate, freq float64, d time.Duration) *Cue {
	return &Cue{play: play, sr: sr, freq: freq, duration: d}
}

func (c *Cue) SetMuted(muted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.muted = muted
}

func (c *Cue) Fire() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.muted || c.play == nil {
		return
	}
	c.play(Click(c.sr, c.freq, c.duration))
}
