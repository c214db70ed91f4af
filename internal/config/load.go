package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/digital-rain/internal/rain"
)

var (
	// ErrEmptyAlphabet is the engine's sentinel, so errors.Is matches either name.
	ErrEmptyAlphabet = rain.ErrEmptyAlphabet
	ErrUnknownTheme  = errors.New("unknown color theme")
)

// Config is the user-facing configuration. Zero values are filled from the
// package defaults by Default and Load.
type Config struct {
	Backend        string  `json:"backend"`
	Alphabet       string  `json:"alphabet"`
	Color          string  `json:"color"`
	FadeColor      string  `json:"fade_color"`
	FadeAlpha      float64 `json:"fade_alpha"`
	CellSize       int     `json:"cell_size"`
	TickMillis     int     `json:"tick_ms"`
	ResetThreshold float64 `json:"reset_threshold"`
	ResetOnResize  bool    `json:"reset_on_resize"`
	WindowWidth    int     `json:"window_width"`
	WindowHeight   int     `json:"window_height"`
	Mute           bool    `json:"mute"`
	Debug          bool    `json:"debug"`
	LogFile        string  `json:"log_file"`
}

// Default returns the configuration matching the original page effect.
func Default() *Config {
	return &Config{
		Backend:        DefaultBackend,
		Alphabet:       DefaultAlphabet,
		Color:          DefaultTheme,
		FadeColor:      FadeColor,
		FadeAlpha:      FadeAlpha,
		CellSize:       CellSize,
		TickMillis:     int(TickInterval / time.Millisecond),
		ResetThreshold: ResetThreshold,
		WindowWidth:    WindowWidth,
		WindowHeight:   WindowHeight,
	}
}

// Load reads a JSON config file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and that the alphabet and colors resolve.
func (c *Config) Validate() error {
	if c.Backend != BackendWindow && c.Backend != BackendTerminal {
		return fmt.Errorf("backend must be %q or %q: got %q", BackendWindow, BackendTerminal, c.Backend)
	}
	if c.CellSize < 4 || c.CellSize > 128 {
		return fmt.Errorf("cell size out of range (4-128): got %d", c.CellSize)
	}
	if c.TickMillis < 1 || c.TickMillis > 1000 {
		return fmt.Errorf("tick interval out of range (1-1000ms): got %d", c.TickMillis)
	}
	if c.FadeAlpha <= 0 || c.FadeAlpha > 1 {
		return fmt.Errorf("fade alpha out of range (0-1]: got %.3f", c.FadeAlpha)
	}
	if c.ResetThreshold < 0 || c.ResetThreshold >= 1 {
		return fmt.Errorf("reset threshold out of range [0-1): got %.3f", c.ResetThreshold)
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return errors.New("invalid window size")
	}
	if _, err := c.Glyphs(); err != nil {
		return err
	}
	if _, err := c.Ink(); err != nil {
		return err
	}
	if _, err := c.Fade(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Tick() time.Duration {
	return time.Duration(c.TickMillis) * time.Millisecond
}

// Glyphs resolves the alphabet name, falling back to the literal string.
func (c *Config) Glyphs() (string, error) {
	if set, ok := Alphabets[strings.ToLower(c.Alphabet)]; ok {
		return set, nil
	}
	if c.Alphabet == "" {
		return "", ErrEmptyAlphabet
	}
	return c.Alphabet, nil
}

// Ink resolves the glyph color from a theme name or a hex string.
func (c *Config) Ink() (color.NRGBA, error) {
	name := strings.ToLower(c.Color)
	if hex, ok := Themes[name]; ok {
		return parseHex(hex, 1)
	}
	if strings.HasPrefix(name, "#") {
		return parseHex(name, 1)
	}
	return color.NRGBA{}, fmt.Errorf("%w: %s", ErrUnknownTheme, c.Color)
}

// Fade returns the translucent wash color.
func (c *Config) Fade() (color.NRGBA, error) {
	return parseHex(c.FadeColor, c.FadeAlpha)
}

func parseHex(s string, alpha float64) (color.NRGBA, error) {
	col, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := col.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(alpha*255 + 0.5)}, nil
}
