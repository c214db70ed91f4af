package sound

import (
	"github.com/faiface/beep"
)

// envelope wraps a beep.Streamer and scales its samples by a gain that
// falls linearly from 1 to 0 over total samples, then ends the stream.
type envelope struct {
	Source beep.Streamer
	total  int
	played int
}

func newEnvelope(src beep.Streamer, total int) *envelope {
	return &envelope{
		Source: src,
		total:  total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	left := e.total - e.played
	if left <= 0 {
		return 0, false
	}
	if len(samples) > left {
		samples = samples[:left]
	}
	n, ok := e.Source.Stream(samples)
	for i := 0; i < n; i++ {
		gain := 1 - float64(e.played+i)/float64(e.total)
		samples[i][0] *= gain
		samples[i][1] *= gain
	}
	e.played += n
	return n, ok && e.played < e.total
}

func (e *envelope) Err() error { return e.Source.Err() }
