package rain

import (
	"errors"
	"math/rand/v2"
)

var ErrEmptyAlphabet = errors.New("alphabet cannot be empty")

// Alphabet is the fixed glyph set of an engine.
type Alphabet struct {
	runes []rune
}

func NewAlphabet(s string) (Alphabet, error) {
	r := []rune(s)
	if len(r) == 0 {
		return Alphabet{}, ErrEmptyAlphabet
	}
	return Alphabet{runes: r}, nil
}

func (a Alphabet) Len() int { return len(a.runes) }

func (a Alphabet) String() string { return string(a.runes) }

// Chance yields uniform draws in [0, 1).
type Chance interface {
	Float64() float64
}

type defaultChance struct{}

func (defaultChance) Float64() float64 { return rand.Float64() }

// DefaultChance is backed by the unseeded math/rand/v2 source.
var DefaultChance Chance = defaultChance{}

// GlyphSource returns one glyph per call.
type GlyphSource interface {
	Next() rune
}

type randomGlyphs struct {
	alphabet Alphabet
	chance   Chance
}

// NewGlyphSource draws uniformly from a through chance.
func NewGlyphSource(a Alphabet, chance Chance) GlyphSource {
	if chance == nil {
		chance = DefaultChance
	}
	return &randomGlyphs{alphabet: a, chance: chance}
}

func (g *randomGlyphs) Next() rune {
	n := len(g.alphabet.runes)
	i := int(g.chance.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return g.alphabet.runes[i]
}
