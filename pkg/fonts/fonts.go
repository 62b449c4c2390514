// Package fonts provides the embedded fonts used to draw creative text.
//
// The Go font family (golang.org/x/image/font/gofont) is compiled into the
// binary, so rendering never depends on fonts installed on the host. Fonts are
// parsed once on first use and shared; faces are cheap to build but hold
// glyph caches that are not safe for concurrent use, so every render builds
// its own via [Face].
package fonts

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Weight selects a font of the family.
type Weight int

const (
	Regular Weight = iota
	Bold
)

// FontFamily is the name of the embedded family.
const FontFamily = "Go"

var (
	regular, bold       *truetype.Font
	regularErr, boldErr error
	regularOnce         sync.Once
	boldOnce            sync.Once
)

// Font returns the parsed font for w. The result is cached after first use.
func Font(w Weight) (*truetype.Font, error) {
	if w == Bold {
		boldOnce.Do(func() { bold, boldErr = truetype.Parse(gobold.TTF) })
		return bold, boldErr
	}
	regularOnce.Do(func() { regular, regularErr = truetype.Parse(goregular.TTF) })
	return regular, regularErr
}

// Face builds a new face of the given weight and pixel size.
func Face(w Weight, size float64) (font.Face, error) {
	f, err := Font(w)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// RegularTTF returns the raw regular TTF data.
func RegularTTF() []byte { return goregular.TTF }

// BoldTTF returns the raw bold TTF data.
func BoldTTF() []byte { return gobold.TTF }

// Covers reports whether the font of weight w has a glyph for every rune of s.
func Covers(w Weight, s string) bool {
	f, err := Font(w)
	if err != nil {
		return false
	}
	for _, r := range s {
		if f.Index(r) == 0 {
			return false
		}
	}
	return true
}
