package canvas

import (
	"fmt"

	"github.com/matzehuels/adforge/pkg/creative"
	"github.com/matzehuels/adforge/pkg/geom"
)

// ElementKind identifies a kind of layout element.
type ElementKind int

const (
	Packshot ElementKind = iota + 1
	Logo
	Headline
	CTA
	Decoration
)

var kindNames = map[ElementKind]string{
	Packshot:   "packshot",
	Logo:       "logo",
	Headline:   "headline",
	CTA:        "cta",
	Decoration: "decoration",
}

func (k ElementKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("ElementKind(%d)", int(k))
}

// IsText reports whether k is a text element.
func (k ElementKind) IsText() bool { return k == Headline || k == CTA }

// Precedence is the hit-test order. Decorations are tested last, topmost first.
var Precedence = [...]ElementKind{Packshot, Logo, Headline, CTA, Decoration}

// Minimum box sizes while resizing, in layout pixels.
const (
	MinDecorationSize = 20
	MinPackshotSize   = 50
	MinLogoSize       = 30
)

// Minimum font sizes while resizing text.
const (
	MinHeadlineFont = 14
	MinCTAFont      = 12
)

// ResizeSensitivity divides the horizontal pointer delta when resizing text.
const ResizeSensitivity = 5

// MinSize returns the resize floor for box elements, or 0 for text.
func MinSize(k ElementKind) float64 {
	switch k {
	case Packshot:
		return MinPackshotSize
	case Logo:
		return MinLogoSize
	case Decoration:
		return MinDecorationSize
	}
	return 0
}

// MinFont returns the font-size floor for text elements, or 0 otherwise.
func MinFont(k ElementKind) float64 {
	switch k {
	case Headline:
		return MinHeadlineFont
	case CTA:
		return MinCTAFont
	}
	return 0
}

// ElementRef names one element of a layout. Index is meaningful only for
// decorations.
type ElementRef struct {
	Kind  ElementKind `json:"kind"`
	Index int         `json:"index,omitempty"`
}

// DecorationRef returns a reference to decoration i.
func DecorationRef(i int) ElementRef { return ElementRef{Kind: Decoration, Index: i} }

func (r ElementRef) String() string {
	if r.Kind == Decoration {
		return fmt.Sprintf("decoration[%d]", r.Index)
	}
	return r.Kind.String()
}

// MarshalText encodes r as its String form.
func (r ElementRef) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// Box returns the box of the referenced element.
func Box(l creative.Layout, r ElementRef) (geom.Box, bool) {
	switch r.Kind {
	case Packshot:
		return l.Packshot, true
	case Logo:
		return l.Logo, true
	case Headline:
		return l.Headline.Box, true
	case CTA:
		return l.CTA.Box, true
	case Decoration:
		if r.Index >= 0 && r.Index < len(l.Decorations) {
			return l.Decorations[r.Index].Position, true
		}
	}
	return geom.Box{}, false
}

// setBox stores b as the box of r in l. l must be a copy owned by the caller.
func setBox(l *creative.Layout, r ElementRef, b geom.Box) {
	switch r.Kind {
	case Packshot:
		l.Packshot = b
	case Logo:
		l.Logo = b
	case Headline:
		l.Headline.Box = b
	case CTA:
		l.CTA.Box = b
	case Decoration:
		l.Decorations[r.Index].Position = b
	}
}

func fontSize(l creative.Layout, r ElementRef) float64 {
	switch r.Kind {
	case Headline:
		return l.Headline.FontSize
	case CTA:
		return l.CTA.FontSize
	}
	return 0
}

func setFontSize(l *creative.Layout, r ElementRef, size float64) {
	switch r.Kind {
	case Headline:
		l.Headline.FontSize = size
	case CTA:
		l.CTA.FontSize = size
	}
}

// HitTest returns the element at p (layout space) following [Precedence].
func HitTest(l creative.Layout, p geom.Point) (ElementRef, bool) {
	for _, k := range Precedence {
		if k == Decoration {
			for i := len(l.Decorations) - 1; i >= 0; i-- {
				if l.Decorations[i].Position.Contains(p) {
					return DecorationRef(i), true
				}
			}
			continue
		}
		ref := ElementRef{Kind: k}
		if b, _ := Box(l, ref); b.Contains(p) {
			return ref, true
		}
	}
	return ElementRef{}, false
}
