package creative

import (
	"math"

	"github.com/matzehuels/adforge/pkg/errors"
	"github.com/matzehuels/adforge/pkg/geom"
)

// TextBox is a box holding a single run of text.
type TextBox struct {
	geom.Box `yaml:",inline"`
	FontSize float64 `json:"fontSize" yaml:"fontSize"`
	Color    string  `json:"color" yaml:"color"`
}

// DecorationKind identifies how a decoration is drawn.
type DecorationKind string

// Decoration kinds. Emoji content is drawn with the embedded Go font; text
// the font has no glyph for, which includes most pictographic emoji, is
// drawn as a five-point star in the decoration colour instead.
const (
	DecorationCircle    DecorationKind = "circle"
	DecorationRectangle DecorationKind = "rectangle"
	DecorationLine      DecorationKind = "line"
	DecorationEmoji     DecorationKind = "emoji"
	DecorationImage     DecorationKind = "image"
)

// Valid reports whether k is a known decoration kind.
func (k DecorationKind) Valid() bool {
	switch k {
	case DecorationCircle, DecorationRectangle, DecorationLine, DecorationEmoji, DecorationImage:
		return true
	}
	return false
}

// Decoration is an ornamental element placed on the canvas.
type Decoration struct {
	Kind     DecorationKind `json:"type" yaml:"type"`
	Position geom.Box       `json:"position" yaml:"position"`
	Color    string         `json:"color" yaml:"color"`
	Rotation float64        `json:"rotation,omitempty" yaml:"rotation,omitempty"` // degrees, clockwise
	Content  string         `json:"content,omitempty" yaml:"content,omitempty"`   // emoji glyph or label

	ImageDataURL string `json:"imageDataUrl,omitempty" yaml:"imageDataUrl,omitempty"`

	// Opacity is in [0,1]. Nil means fully opaque.
	Opacity *float64 `json:"opacity,omitempty" yaml:"opacity,omitempty"`
}

// Alpha returns the effective opacity of d.
func (d Decoration) Alpha() float64 {
	if d.Opacity == nil {
		return 1
	}
	return *d.Opacity
}

// Validate checks the kind-specific invariants of d.
func (d Decoration) Validate() error {
	if !d.Kind.Valid() {
		return errors.New(errors.ErrCodeInvalidLayout, "unknown decoration type %q", d.Kind)
	}
	if !d.Position.Valid() {
		return errors.New(errors.ErrCodeInvalidLayout, "%s decoration has invalid box %+v", d.Kind, d.Position)
	}
	switch d.Kind {
	case DecorationImage:
		if d.ImageDataURL == "" {
			return errors.New(errors.ErrCodeInvalidLayout, "image decoration requires imageDataUrl")
		}
	case DecorationEmoji:
		if d.Content == "" {
			return errors.New(errors.ErrCodeInvalidLayout, "emoji decoration requires content")
		}
	}
	if d.Kind != DecorationImage || d.Color != "" {
		if err := errors.ValidateHexColor(d.Color); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidLayout, err, "%s decoration color", d.Kind)
		}
	}
	if d.Opacity != nil && (*d.Opacity < 0 || *d.Opacity > 1 || math.IsNaN(*d.Opacity)) {
		return errors.New(errors.ErrCodeInvalidLayout, "decoration opacity %v outside [0,1]", *d.Opacity)
	}
	if math.IsNaN(d.Rotation) || math.IsInf(d.Rotation, 0) {
		return errors.New(errors.ErrCodeInvalidLayout, "decoration rotation is not finite")
	}
	return nil
}

// Layout describes one creative before rasterization.
type Layout struct {
	Ratio       Ratio        `json:"ratio" yaml:"ratio"`
	Width       int          `json:"width" yaml:"width"`
	Height      int          `json:"height" yaml:"height"`
	Template    Template     `json:"template" yaml:"template"`
	Background  string       `json:"background" yaml:"background"`
	Packshot    geom.Box     `json:"packshot" yaml:"packshot"`
	Logo        geom.Box     `json:"logo" yaml:"logo"`
	Headline    TextBox      `json:"headline" yaml:"headline"`
	CTA         TextBox      `json:"cta" yaml:"cta"`
	Decorations []Decoration `json:"decorations" yaml:"decorations"`
}

// Clone returns a deep copy of l. Decorations and their opacity values are
// not shared with the original.
func (l Layout) Clone() Layout {
	out := l
	out.Decorations = make([]Decoration, len(l.Decorations))
	for i, d := range l.Decorations {
		if d.Opacity != nil {
			o := *d.Opacity
			d.Opacity = &o
		}
		out.Decorations[i] = d
	}
	return out
}

// Size returns the canvas size as floats.
func (l Layout) Size() (w, h float64) {
	return float64(l.Width), float64(l.Height)
}

// Validate checks the structural invariants of l: known ratio and template,
// canonical dimensions, positive element sizes and valid decorations.
// Positions are not required to lie inside the canvas since text boxes may
// overflow while being edited.
func (l Layout) Validate() error {
	if !l.Ratio.Valid() {
		return errors.New(errors.ErrCodeInvalidLayout, "unknown ratio %q", l.Ratio)
	}
	if !l.Template.Valid() {
		return errors.New(errors.ErrCodeInvalidLayout, "unknown template %q", l.Template)
	}
	if w, h := l.Ratio.Dimensions(); l.Width != w || l.Height != h {
		return errors.New(errors.ErrCodeInvalidLayout, "size %dx%d does not match ratio %s (%dx%d)",
			l.Width, l.Height, l.Ratio, w, h)
	}
	if err := errors.ValidateHexColor(l.Background); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidLayout, err, "background")
	}
	boxes := []struct {
		name string
		box  geom.Box
	}{
		{"packshot", l.Packshot},
		{"logo", l.Logo},
		{"headline", l.Headline.Box},
		{"cta", l.CTA.Box},
	}
	for _, b := range boxes {
		if !b.box.Valid() {
			return errors.New(errors.ErrCodeInvalidLayout, "%s has invalid box %+v", b.name, b.box)
		}
	}
	for _, tb := range []struct {
		name string
		box  TextBox
	}{{"headline", l.Headline}, {"cta", l.CTA}} {
		if !(tb.box.FontSize > 0) {
			return errors.New(errors.ErrCodeInvalidLayout, "%s font size must be positive", tb.name)
		}
		if err := errors.ValidateHexColor(tb.box.Color); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidLayout, err, "%s color", tb.name)
		}
	}
	for i, d := range l.Decorations {
		if err := d.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidLayout, err, "decoration %d", i)
		}
	}
	return nil
}
