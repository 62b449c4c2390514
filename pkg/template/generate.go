package template

import (
	"fmt"
	"math"

	"github.com/matzehuels/adforge/pkg/creative"
	"github.com/matzehuels/adforge/pkg/errors"
	"github.com/matzehuels/adforge/pkg/geom"
	"github.com/matzehuels/adforge/pkg/palette"
)

// Generate computes the layout for one ratio and template family.
//
// The headline is accepted so callers pass the full creative context, but it
// never influences geometry: long text is wrapped or truncated at render time.
// An empty asset list yields a layout with no decorations.
func Generate(ratio creative.Ratio, family creative.Template, p palette.Palette, headline string, assets []Asset) (creative.Layout, error) {
	byRatio, ok := rules[family]
	if !ok {
		return creative.Layout{}, errors.New(errors.ErrCodeInvalidTemplateOrRatio, "unknown template %q", family)
	}
	r, ok := byRatio[ratio]
	if !ok {
		return creative.Layout{}, errors.New(errors.ErrCodeInvalidTemplateOrRatio, "unknown ratio %q", ratio)
	}
	for _, c := range p.Colors() {
		if err := errors.ValidateHexColor(c); err != nil {
			return creative.Layout{}, err
		}
	}
	for i, a := range assets {
		if err := a.validate(i); err != nil {
			return creative.Layout{}, err
		}
	}

	w, h := ratio.Dimensions()
	W, H := float64(w), float64(h)
	st := styleFor(family, p)

	headlineFont := math.Round(W * headlineScale[ratio] * fontWeight[family])
	l := creative.Layout{
		Ratio:      ratio,
		Width:      w,
		Height:     h,
		Template:   family,
		Background: st.background,
		Packshot:   r.packshot.box(W, H),
		Logo:       r.logo.box(W, H),
		Headline: creative.TextBox{
			Box:      r.headline.box(W, H),
			FontSize: headlineFont,
			Color:    st.headline,
		},
		CTA: creative.TextBox{
			Box:      r.cta.box(W, H),
			FontSize: math.Round(headlineFont * ctaFontRatio),
			Color:    st.cta,
		},
		Decorations: placeDecorations(r, W, H, st, assets),
	}
	return l, nil
}

// MustGenerate is like [Generate] but panics on error. It is meant for call
// sites where the ratio and template are compile-time constants.
func MustGenerate(ratio creative.Ratio, family creative.Template, p palette.Palette, headline string, assets []Asset) creative.Layout {
	l, err := Generate(ratio, family, p, headline, assets)
	if err != nil {
		panic(fmt.Sprintf("template: %v", err))
	}
	return l
}

func (f frac) box(W, H float64) geom.Box {
	return geom.Box{
		X:      math.Round(f.cx * W),
		Y:      math.Round(f.cy * H),
		Width:  math.Round(f.w * W),
		Height: math.Round(f.h * H),
	}
}

type style struct {
	background, headline, cta string
	shapes                    []string // shape colours, cycled per decoration
	rotation                  float64
	opacity                   *float64
}

// styleFor picks the family's colours. Headline and CTA colours that would
// vanish against the background fall back to plain light or dark.
func styleFor(family creative.Template, p palette.Palette) style {
	st := familyStyle(family, p)
	st.headline = palette.Readable(st.headline, st.background, palette.MinTextContrast)
	st.cta = palette.Readable(st.cta, st.background, minPillContrast)
	return st
}

func familyStyle(family creative.Template, p palette.Palette) style {
	switch family {
	case creative.TemplateBoldDynamic:
		return style{
			background: p.Primary,
			headline:   palette.ForegroundHex(p.Primary),
			cta:        p.Accent,
			shapes:     []string{p.Secondary, p.Accent, p.Background},
			rotation:   boldRotation,
		}
	case creative.TemplatePremiumSoft:
		o := premiumOpacity
		return style{
			background: p.Secondary,
			headline:   p.Accent,
			cta:        p.Accent,
			shapes:     []string{p.Primary, p.Accent, p.Background},
			opacity:    &o,
		}
	default:
		return style{
			background: p.Background,
			headline:   p.Accent,
			cta:        p.Primary,
			shapes:     []string{p.Secondary, p.Accent, p.Primary},
		}
	}
}

// placeDecorations assigns each asset to an anchor slot. A slot is taken in
// this order: the first free slot clear of the packshot, the first free slot,
// or (once every slot is used) slot i mod n shifted diagonally by half a
// decoration per lap. Every box is clamped into the canvas.
func placeDecorations(r rule, W, H float64, st style, assets []Asset) []creative.Decoration {
	out := make([]creative.Decoration, 0, len(assets))
	if len(assets) == 0 {
		return out
	}

	size := math.Round(decorationScale * math.Min(W, H))
	used := make([]bool, len(r.slots))
	packshot := r.packshot.box(W, H)

	for i, a := range assets {
		bw, bh := size, size
		if a.Kind == creative.DecorationLine {
			bh = math.Max(minLineHeight, math.Round(size*lineThickness))
		}
		boxAt := func(slot int) geom.Box {
			s := r.slots[slot]
			return geom.Box{X: math.Round(s[0] * W), Y: math.Round(s[1] * H), Width: bw, Height: bh}.ClampCenter(W, H)
		}

		slot := -1
		for j := range r.slots {
			if !used[j] && !boxAt(j).Intersects(packshot) {
				slot = j
				break
			}
		}
		if slot < 0 {
			for j := range r.slots {
				if !used[j] {
					slot = j
					break
				}
			}
		}

		var b geom.Box
		if slot >= 0 {
			used[slot] = true
			b = boxAt(slot)
		} else {
			lap := float64(i/len(r.slots)) * size / 2
			b = boxAt(i%len(r.slots)).Translate(lap, lap).ClampCenter(W, H)
		}

		d := creative.Decoration{
			Kind:     a.Kind,
			Position: b,
			Color:    a.Color,
			Content:  a.Content,
		}
		if a.Kind == creative.DecorationImage {
			d.ImageDataURL = a.ImageDataURL
		}
		if d.Color == "" {
			switch a.Kind {
			case creative.DecorationEmoji:
				d.Color = st.headline
			default:
				d.Color = st.shapes[i%len(st.shapes)]
			}
		}
		if st.rotation != 0 {
			d.Rotation = st.rotation
			if i%2 == 1 {
				d.Rotation = -st.rotation
			}
		}
		if st.opacity != nil {
			o := *st.opacity
			d.Opacity = &o
		}
		out = append(out, d)
	}
	return out
}
