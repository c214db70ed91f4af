package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/gdamore/tcell/v2"
	"github.com/muesli/termenv"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/digital-rain/internal/canvas"
	"github.com/iburimskiy/digital-rain/internal/config"
	"github.com/iburimskiy/digital-rain/internal/game"
	"github.com/iburimskiy/digital-rain/internal/rain"
	"github.com/iburimskiy/digital-rain/internal/sound"
	"github.com/iburimskiy/digital-rain/internal/term"
)

const windowTitle = "Digital Rain - Esc/Q: Quit, Click: Sound"

// errListed ends the program successfully after -list.
var errListed = errors.New("options listed")

func main() {
	log.SetFlags(log.Lshortfile | log.Ltime)

	cfg, err := parseConfig(os.Args[1:])
	if errors.Is(err, errListed) || errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fail(nil, err)
	}
	if err := run(cfg); err != nil {
		fail(cfg, err)
	}
}

func fail(cfg *config.Config, err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	if cfg != nil && cfg.Backend == config.BackendWindow {
		_ = zenity.Error(err.Error(), zenity.Title("Digital Rain"), zenity.ErrorIcon)
	}
	os.Exit(1)
}

// parseConfig builds the configuration from defaults, an optional JSON file
// and the flags the user actually set, in that order.
func parseConfig(args []string) (*config.Config, error) {
	def := config.Default()
	fs := flag.NewFlagSet("rain", flag.ContinueOnError)

	var (
		path          = fs.String("config", "", "JSON config file")
		backend       = fs.String("backend", def.Backend, "window or term")
		alphabet      = fs.String("alphabet", def.Alphabet, "alphabet name or literal glyphs")
		ink           = fs.String("color", def.Color, "color theme name or #rrggbb")
		fadeColor     = fs.String("fade-color", def.FadeColor, "background wash color #rrggbb")
		fade          = fs.Float64("fade", def.FadeAlpha, "background wash alpha (0-1]")
		cell          = fs.Int("cell", def.CellSize, "glyph cell size in pixels")
		interval      = fs.Duration("interval", def.Tick(), "frame interval")
		reset         = fs.Float64("reset", def.ResetThreshold, "reset threshold for columns past the bottom")
		resetOnResize = fs.Bool("reset-on-resize", false, "restart every column when the size changes")
		mute          = fs.Bool("mute", false, "disable the click sound")
		pick          = fs.Bool("pick", false, "choose an alphabet file in a dialog")
		list          = fs.Bool("list", false, "list color themes and alphabets")
		debug         = fs.Bool("debug", false, "enable debug logging")
		logFile       = fs.String("log", "", "append log output to this file")
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *list {
		listOptions(os.Stdout)
		return nil, errListed
	}

	cfg := def
	if *path != "" {
		loaded, err := config.Load(*path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Backend = *backend
		case "alphabet":
			cfg.Alphabet = *alphabet
		case "color":
			cfg.Color = *ink
		case "fade-color":
			cfg.FadeColor = *fadeColor
		case "fade":
			cfg.FadeAlpha = *fade
		case "cell":
			cfg.CellSize = *cell
		case "interval":
			cfg.TickMillis = int(*interval / time.Millisecond)
		case "reset":
			cfg.ResetThreshold = *reset
		case "reset-on-resize":
			cfg.ResetOnResize = *resetOnResize
		case "mute":
			cfg.Mute = *mute
		case "debug":
			cfg.Debug = *debug
		case "log":
			cfg.LogFile = *logFile
		}
	})

	if *pick {
		glyphs, err := pickAlphabet()
		if err != nil {
			return nil, err
		}
		if glyphs != "" {
			cfg.Alphabet = glyphs
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// pickAlphabet asks for a text file whose non-blank characters become the
// alphabet. Cancelling keeps the configured one.
func pickAlphabet() (string, error) {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Alphabet File"),
		zenity.FileFilters{{
			Name:     "Text",
			Patterns: []string{"*.txt"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", nil
		}
		return "", err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("read alphabet: %w", err)
	}
	glyphs := strings.Join(strings.Fields(string(data)), "")
	if glyphs == "" {
		return "", fmt.Errorf("%s: %w", filename, rain.ErrEmptyAlphabet)
	}
	log.Printf("[Config] alphabet of %d glyphs from %s", len([]rune(glyphs)), filename)
	return glyphs, nil
}

func listOptions(w io.Writer) {
	out := termenv.NewOutput(w)

	fmt.Fprintln(out, "Colors:")
	for _, name := range sortedKeys(config.Themes) {
		hex := config.Themes[name]
		fmt.Fprintln(out, "  ", out.String(name).Foreground(out.Color(hex)), hex)
	}
	fmt.Fprintln(out, "\nAlphabets:")
	for _, name := range sortedKeys(config.Alphabets) {
		fmt.Fprintln(out, "  ", out.String(name).Bold(), config.Alphabets[name])
	}
	fmt.Fprintln(out, "\nBackends:", config.BackendWindow, config.BackendTerminal)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func run(cfg *config.Config) error {
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	opts, err := engineOptions(cfg, logger)
	if err != nil {
		return err
	}
	cue := newCue(cfg, logger)

	switch cfg.Backend {
	case config.BackendTerminal:
		return runTerminal(cfg, opts, cue)
	default:
		return runWindow(cfg, opts, cue)
	}
}

// newLogger picks the log destination. In the terminal stderr shares the
// screen with the rain, so output goes to -log or nowhere.
func newLogger(cfg *config.Config) (*log.Logger, func() error, error) {
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log: %w", err)
		}
		return log.New(f, "", log.Lshortfile|log.Ltime), f.Close, nil
	}
	noop := func() error { return nil }
	if cfg.Backend == config.BackendTerminal {
		return log.New(io.Discard, "", 0), noop, nil
	}
	return log.Default(), noop, nil
}

func engineOptions(cfg *config.Config, logger *log.Logger) ([]rain.Option, error) {
	glyphs, err := cfg.Glyphs()
	if err != nil {
		return nil, err
	}
	ink, err := cfg.Ink()
	if err != nil {
		return nil, err
	}
	fade, err := cfg.Fade()
	if err != nil {
		return nil, err
	}

	policy := rain.PreserveColumns
	if cfg.ResetOnResize {
		policy = rain.ResetColumns
	}
	return []rain.Option{
		rain.WithAlphabet(glyphs),
		rain.WithCellSize(cfg.CellSize),
		rain.WithTickInterval(cfg.Tick()),
		rain.WithResetThreshold(cfg.ResetThreshold),
		rain.WithPalette(fade, ink),
		rain.WithResizePolicy(policy),
		rain.WithLogger(logger),
		rain.WithDebug(cfg.Debug),
	}, nil
}

// newCue builds the click sound. The speaker starts on the first click;
// without a device the rain runs silent.
func newCue(cfg *config.Config, logger *log.Logger) *sound.Cue {
	if cfg.Mute {
		return nil
	}
	sr := beep.SampleRate(config.SampleRate)
	player := sound.NewLazyPlayer(
		func() error { return speaker.Init(sr, sr.N(time.Second/20)) },
		func(s beep.Streamer) { speaker.Play(s) },
		func(err error) { logger.Printf("[Audio] initialization failed, running silent: %v", err) },
	)
	return sound.NewCue(player.Play, sr, config.ClickFrequency, config.ClickDuration)
}

func runWindow(cfg *config.Config, opts []rain.Option, cue *sound.Cue) error {
	fade, err := cfg.Fade()
	if err != nil {
		return err
	}
	face, err := game.NewFace(cfg.CellSize)
	if err != nil {
		return err
	}

	rec := canvas.NewRecorder()
	engine, err := rain.New(rec, opts...)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	// The first Layout call delivers the initial size.
	g := game.New(rec, face, fade,
		game.OnResize(engine.OnResize),
		game.OnClick(cue.Fire),
	)
	if err := engine.Start(); err != nil {
		return err
	}
	defer engine.Stop()

	return game.Run(g, windowTitle, cfg.WindowWidth, cfg.WindowHeight)
}

func runTerminal(cfg *config.Config, opts []rain.Option, cue *sound.Cue) error {
	fade, err := cfg.Fade()
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("cannot open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("cannot init terminal: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	surface, err := term.NewSurface(screen, cfg.CellSize, fade)
	if err != nil {
		return err
	}
	engine, err := rain.New(surface, opts...)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := engine.Start(); err != nil {
		return err
	}
	defer engine.Stop()

	return term.Run(ctx, screen, surface, term.Handlers{
		Resize: engine.OnResize,
		Click:  cue.Fire,
	})
}
