// Package palette derives a four-colour brand palette from a single seed colour.
//
// Derivation happens in the HCL colour space (go-colorful) so lightness offsets
// are perceptually even across hues. The result is deterministic: the same seed
// always yields the same palette, bit for bit.
//
//	p, err := palette.FromHex("#FF0000")
//	// p.Primary = "#FF0000", p.Background is a very light tint of red
package palette

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/adforge/pkg/errors"
)

// Lightness offsets in HCL, where L is in [0, 1].
const (
	secondaryShift   = 0.22
	accentShift      = 0.22
	maxSecondaryL    = 0.92
	minAccentL       = 0.12
	backgroundL      = 0.97
	backgroundC      = 0.12 // chroma multiplier
	minDistinctL     = 0.1
	minBackgroundGap = 0.02
)

// Text colours returned by Foreground.
const (
	Light = "#FFFFFF"
	Dark  = "#111827"
)

// Palette is a normalized set of brand colours, each an uppercase #RRGGBB string.
type Palette struct {
	Primary    string `json:"primary" yaml:"primary" toml:"primary"`
	Secondary  string `json:"secondary" yaml:"secondary" toml:"secondary"`
	Accent     string `json:"accent" yaml:"accent" toml:"accent"`
	Background string `json:"background" yaml:"background" toml:"background"`
}

// Colors returns the palette entries in primary, secondary, accent, background order.
func (p Palette) Colors() []string {
	return []string{p.Primary, p.Secondary, p.Accent, p.Background}
}

// WithPrimary returns a copy of p whose primary colour is replaced. The other
// entries are kept as they are.
func (p Palette) WithPrimary(hex string) (Palette, error) {
	c, err := ParseHex(hex)
	if err != nil {
		return p, err
	}
	p.Primary = Hex(c)
	return p, nil
}

// Generate derives a palette from seed. It never fails.
func Generate(seed colorful.Color) Palette {
	seed = seed.Clamped()
	h, c, l := seed.Hcl()

	secondaryL := shift(l, secondaryShift, maxSecondaryL, minAccentL)
	accentL := shift(l, -accentShift, maxSecondaryL, minAccentL)
	// A flipped shift lands on the other colour's lightness; push that one
	// a step further so the two stay apart.
	switch {
	case secondaryL < l:
		accentL = math.Max(minAccentL, l-2*accentShift)
	case accentL > l:
		secondaryL = math.Min(1, l+2*secondaryShift)
	}
	bgL := backgroundL
	if math.Abs(l-bgL) < minBackgroundGap {
		bgL = l - 2*minBackgroundGap
	}

	return Palette{
		Primary:    Hex(seed),
		Secondary:  Hex(colorful.Hcl(h, c, secondaryL).Clamped()),
		Accent:     Hex(colorful.Hcl(h, c, accentL).Clamped()),
		Background: Hex(colorful.Hcl(h, c*backgroundC, bgL).Clamped()),
	}
}

// shift moves l by delta, bounded by [lo, hi]. When the bound blocks the shift
// so the result would sit closer than minDistinctL to l, the direction flips.
func shift(l, delta, hi, lo float64) float64 {
	v := math.Max(lo, math.Min(hi, l+delta))
	if math.Abs(v-l) >= minDistinctL {
		return v
	}
	return math.Max(0, math.Min(1, l-delta))
}

// FromHex parses a hex colour and derives its palette.
func FromHex(s string) (Palette, error) {
	c, err := ParseHex(s)
	if err != nil {
		return Palette{}, err
	}
	return Generate(c), nil
}

// ParseHex parses #rgb or #rrggbb into a colour.
func ParseHex(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if err := errors.ValidateHexColor(s); err != nil {
		return colorful.Color{}, err
	}
	if len(s) == 4 {
		s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "parse %q", s)
	}
	return c, nil
}

// MustParseHex is like ParseHex but panics on error.
func MustParseHex(s string) colorful.Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as uppercase #RRGGBB.
func Hex(c colorful.Color) string {
	return strings.ToUpper(c.Clamped().Hex())
}

// Normalize returns the uppercase #RRGGBB form of a hex colour.
func Normalize(s string) (string, error) {
	c, err := ParseHex(s)
	if err != nil {
		return "", err
	}
	return Hex(c), nil
}

// Luminance returns the WCAG relative luminance of c.
func Luminance(c colorful.Color) float64 {
	r, g, b := c.Clamped().LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// Contrast returns the WCAG contrast ratio between a and b, in [1, 21].
func Contrast(a, b colorful.Color) float64 {
	la, lb := Luminance(a), Luminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// Foreground picks Light or Dark text, whichever contrasts more with bg.
func Foreground(bg colorful.Color) string {
	if Contrast(bg, MustParseHex(Light)) >= Contrast(bg, MustParseHex(Dark)) {
		return Light
	}
	return Dark
}

// MinTextContrast is the WCAG AA contrast ratio for large text.
const MinTextContrast = 3.0

// ContrastHex is Contrast for two hex colours. Unparseable input yields 1.
func ContrastHex(a, b string) float64 {
	ca, err := ParseHex(a)
	if err != nil {
		return 1
	}
	cb, err := ParseHex(b)
	if err != nil {
		return 1
	}
	return Contrast(ca, cb)
}

// Readable returns fg when it reaches min contrast against bg, and the
// better of Light and Dark otherwise.
func Readable(fg, bg string, min float64) string {
	if ContrastHex(fg, bg) >= min {
		return fg
	}
	return ForegroundHex(bg)
}

// ForegroundHex is Foreground for a hex background. Unparseable input yields Dark.
func ForegroundHex(bg string) string {
	c, err := ParseHex(bg)
	if err != nil {
		return Dark
	}
	return Foreground(c)
}
