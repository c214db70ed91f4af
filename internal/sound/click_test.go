package sound

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/faiface/beep"
)

// drain reads s to the end in chunks and returns every sample.
func drain(s beep.Streamer, chunk int) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, chunk)
	for i := 0; i < 1000; i++ {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			break
		}
	}
	return out
}

func constant(v float64) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{v, v}
		}
		return len(samples), true
	})
}

func TestEnvelopeDecaysAndEnds(t *testing.T) {
	env := newEnvelope(constant(1), 10)
	got := drain(env, 4)
	if len(got) != 10 {
		t.Fatalf("samples = %d, want 10", len(got))
	}
	for i, s := range got {
		want := 1 - float64(i)/10
		if math.Abs(s[0]-want) > 1e-9 || s[0] != s[1] {
			t.Errorf("sample %d = %v, want %v", i, s, want)
		}
	}
	if n, ok := env.Stream(make([][2]float64, 4)); n != 0 || ok {
		t.Errorf("stream after end = %d, %v", n, ok)
	}
	if env.Err() != nil {
		t.Errorf("err = %v", env.Err())
	}
}

func TestClickLength(t *testing.T) {
	sr := beep.SampleRate(44100)
	got := drain(Click(sr, 1000, 10*time.Millisecond), 512)
	if want := sr.N(10 * time.Millisecond); len(got) != want {
		t.Errorf("click samples = %d, want %d", len(got), want)
	}
	for i, s := range got {
		if math.Abs(s[0]) > 1 {
			t.Fatalf("sample %d out of range: %v", i, s)
		}
	}
}

func TestToneStartsAtZero(t *testing.T) {
	buf := make([][2]float64, 2)
	Tone(beep.SampleRate(4), 1).Stream(buf)
	if buf[0][0] != 0 || math.Abs(buf[1][0]-1) > 1e-9 {
		t.Errorf("tone = %v", buf)
	}
}

func TestCueFire(t *testing.T) {
	var played int
	cue := NewCue(func(beep.Streamer) { played++ }, 44100, 880, time.Millisecond)
	cue.Fire()
	cue.SetMuted(true)
	cue.Fire()
	if played != 1 {
		t.Errorf("played = %d, want 1", played)
	}

	var nilCue *Cue
	nilCue.Fire()
	NewCue(nil, 44100, 880, time.Millisecond).Fire()
}

func TestLazyPlayerStartsOnFirstPlay(t *testing.T) {
	starts, played := 0, 0
	p := NewLazyPlayer(
		func() error { starts++; return nil },
		func(beep.Streamer) { played++ },
		func(err error) { t.Errorf("unexpected failure: %v", err) },
	)
	if starts != 0 {
		t.Fatal("started before the first play")
	}
	p.Play(constant(0))
	p.Play(constant(0))
	if starts != 1 || played != 2 {
		t.Errorf("starts = %d, played = %d, want 1 and 2", starts, played)
	}
}

func TestLazyPlayerStartFailure(t *testing.T) {
	errNoDevice := errors.New("no device")
	var failures []error
	played := 0
	p := NewLazyPlayer(
		func() error { return errNoDevice },
		func(beep.Streamer) { played++ },
		func(err error) { failures = append(failures, err) },
	)
	cue := NewCue(p.Play, 44100, 880, time.Millisecond)
	cue.Fire()
	cue.Fire()
	if played != 0 {
		t.Errorf("played = %d after failed start", played)
	}
	if len(failures) != 1 || !errors.Is(failures[0], errNoDevice) {
		t.Errorf("failures = %v, want one errNoDevice", failures)
	}
}
