package config

import "time"

const (
	WindowWidth  = 1024
	WindowHeight = 640

	// Glyph cell edge in pixels.
	CellSize = 16

	TickInterval = 40 * time.Millisecond

	// Background wash applied every frame; the low alpha leaves streaks.
	FadeColor = "#0a192f"
	FadeAlpha = 0.05

	GlyphColor = "#64ffda"

	// A column past the bottom edge restarts when a draw exceeds this.
	ResetThreshold = 0.975

	DefaultAlphabet = "classic"
	DefaultTheme    = "aqua"
	DefaultBackend  = BackendWindow

	// Click cue
	ClickFrequency = 1320.0
	ClickDuration  = 30 * time.Millisecond
	SampleRate     = 44100
)

const (
	BackendWindow   = "window"
	BackendTerminal = "term"
)
