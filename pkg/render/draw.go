package render

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/matzehuels/adforge/pkg/creative"
	"github.com/matzehuels/adforge/pkg/errors"
	"github.com/matzehuels/adforge/pkg/fonts"
	"github.com/matzehuels/adforge/pkg/geom"
	"github.com/matzehuels/adforge/pkg/palette"
)

const (
	glyphScale  = 0.8  // emoji glyph size relative to the smaller box side
	starInset   = 0.45 // inner radius of the fallback star
	starPoints  = 5
	opaqueAlpha = 1

	// maxDrawScale bounds glyph and font sizes relative to the larger canvas
	// side. Anything bigger only shows a fragment of one glyph.
	maxDrawScale = 2
)

// mustColor parses a validated hex colour and applies alpha in [0,1].
func mustColor(hex string, alpha float64) color.Color {
	c, err := palette.ParseHex(hex)
	if err != nil {
		return color.Black
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(255 * clamp01(alpha)))}
}

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }

func drawDecoration(dc *gg.Context, d creative.Decoration, img image.Image) error {
	b := d.Position
	alpha := d.Alpha()

	dc.Push()
	defer dc.Pop()
	if d.Rotation != 0 {
		dc.RotateAbout(gg.Radians(d.Rotation), b.X, b.Y)
	}

	switch d.Kind {
	case creative.DecorationCircle:
		dc.DrawEllipse(b.X, b.Y, b.Width/2, b.Height/2)
		dc.SetColor(mustColor(d.Color, alpha))
		dc.Fill()
	case creative.DecorationRectangle:
		dc.DrawRectangle(b.Left(), b.Top(), b.Width, b.Height)
		dc.SetColor(mustColor(d.Color, alpha))
		dc.Fill()
	case creative.DecorationLine:
		dc.DrawRoundedRectangle(b.Left(), b.Top(), b.Width, b.Height, math.Min(b.Width, b.Height)/2)
		dc.SetColor(mustColor(d.Color, alpha))
		dc.Fill()
	case creative.DecorationEmoji:
		return drawGlyph(dc, d.Content, b, mustColor(d.Color, alpha))
	case creative.DecorationImage:
		drawFitted(dc, img, b, alpha, localClip(dc.Width(), dc.Height(), b, d.Rotation))
	}
	return nil
}

// drawGlyph draws content centered in b. Content the embedded font cannot
// fully cover (most emoji) becomes a star so no tofu boxes reach the output.
func drawGlyph(dc *gg.Context, content string, b geom.Box, c color.Color) error {
	size := math.Min(math.Min(b.Width, b.Height)*glyphScale, sizeCap(dc))
	dc.SetColor(c)
	if !fonts.Covers(fonts.Regular, content) {
		drawStar(dc, b.X, b.Y, size/2)
		return nil
	}
	face, err := fonts.Face(fonts.Regular, size)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "load font")
	}
	dc.SetFontFace(face)
	dc.DrawStringAnchored(content, b.X, b.Y, 0.5, 0.5)
	return nil
}

func drawStar(dc *gg.Context, cx, cy, r float64) {
	for i := range starPoints * 2 {
		rad := r
		if i%2 == 1 {
			rad = r * starInset
		}
		a := -math.Pi/2 + float64(i)*math.Pi/starPoints
		x, y := cx+rad*math.Cos(a), cy+rad*math.Sin(a)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
	dc.Fill()
}

// drawFitted draws img fit inside b, preserving aspect ratio and centered.
// Images smaller than the box are scaled up. clip is the canvas in the
// current drawing space; only the part of the image inside it is scaled, so
// boxes far larger than the canvas cost no more than the canvas itself.
func drawFitted(dc *gg.Context, img image.Image, b geom.Box, alpha float64, clip image.Rectangle) {
	if img == nil {
		return
	}
	ib := img.Bounds()
	s := fitScale(ib, b.Width, b.Height)
	if s == 0 {
		return
	}
	tw, th := float64(ib.Dx())*s, float64(ib.Dy())*s
	left, top := b.X-tw/2, b.Y-th/2
	full := image.Rect(int(math.Floor(left)), int(math.Floor(top)), int(math.Ceil(left+tw)), int(math.Ceil(top+th)))

	if full.In(clip) {
		fitted := fitInside(img, b.Width, b.Height)
		if alpha < opaqueAlpha {
			fitted = fade(fitted, alpha)
		}
		dc.DrawImageAnchored(fitted, int(math.Round(b.X)), int(math.Round(b.Y)), 0.5, 0.5)
		return
	}

	vis := full.Intersect(clip)
	if vis.Empty() {
		return
	}
	// Scale the source straight into the visible rectangle.
	dst := image.NewNRGBA(image.Rect(0, 0, vis.Dx(), vis.Dy()))
	s2d := f64.Aff3{
		s, 0, left - float64(vis.Min.X) - float64(ib.Min.X)*s,
		0, s, top - float64(vis.Min.Y) - float64(ib.Min.Y)*s,
	}
	xdraw.CatmullRom.Transform(dst, s2d, img, ib, xdraw.Src, nil)

	var out image.Image = dst
	if alpha < opaqueAlpha {
		out = fade(dst, alpha)
	}
	dc.DrawImage(out, vis.Min.X, vis.Min.Y)
}

// fitScale is the factor that fits an image of bounds ib inside w x h.
func fitScale(ib image.Rectangle, w, h float64) float64 {
	iw, ih := float64(ib.Dx()), float64(ib.Dy())
	if iw == 0 || ih == 0 {
		return 0
	}
	return math.Min(w/iw, h/ih)
}

func fitInside(img image.Image, w, h float64) image.Image {
	ib := img.Bounds()
	s := fitScale(ib, w, h)
	if s == 0 {
		return img
	}
	tw := max(1, int(math.Round(float64(ib.Dx())*s)))
	th := max(1, int(math.Round(float64(ib.Dy())*s)))
	if tw == ib.Dx() && th == ib.Dy() {
		return img
	}
	return imaging.Resize(img, tw, th, imaging.Lanczos)
}

// localClip returns the canvas bounds seen from a box rotated by deg about
// its centre: the bounding box of the canvas corners rotated back by -deg.
func localClip(w, h int, b geom.Box, deg float64) image.Rectangle {
	canvas := image.Rect(0, 0, w, h)
	if deg == 0 {
		return canvas
	}
	sin, cos := math.Sincos(-gg.Radians(deg))
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range [][2]float64{{0, 0}, {float64(w), 0}, {0, float64(h)}, {float64(w), float64(h)}} {
		dx, dy := p[0]-b.X, p[1]-b.Y
		x := b.X + dx*cos - dy*sin
		y := b.Y + dx*sin + dy*cos
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
}

// sizeCap is the largest glyph or font size worth drawing on dc.
func sizeCap(dc *gg.Context) float64 {
	return maxDrawScale * float64(max(dc.Width(), dc.Height()))
}

func fade(img image.Image, alpha float64) image.Image {
	a := clamp01(alpha)
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		c.A = uint8(math.Round(float64(c.A) * a))
		return c
	})
}
