package term

import (
	"context"

	"github.com/gdamore/tcell/v2"
)

// Handlers connects terminal events to the engine and its collaborators.
type Handlers struct {
	// Resize receives the surface size in pixels.
	Resize func(w, h int)
	Click  func()
}

// Run dispatches screen events until ctx is cancelled or the user quits
// with Esc, Ctrl-C or q. The caller owns the screen and finalizes it.
func Run(ctx context.Context, screen tcell.Screen, surface *Surface, h Handlers) error {
	resize := func(cols, rows int) {
		w, ht := surface.Resize(cols, rows)
		if h.Resize != nil {
			h.Resize(w, ht)
		}
	}
	resize(screen.Size())

	eventChan := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				resize(ev.Size())
				screen.Sync()
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
					return nil
				case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
					return nil
				case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
					if h.Click != nil {
						h.Click()
					}
				}
			}
		}
	}
}
