package asset

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/adforge/pkg/errors"
	"github.com/matzehuels/adforge/pkg/palette"
)

// BackgroundRemover strips the background from an image. The result is an
// encoded image the renderer can draw as-is.
type BackgroundRemover interface {
	RemoveBackground(ctx context.Context, src []byte) ([]byte, error)
}

// ColorExtractor lists the dominant colours of an image as #RRGGBB strings,
// most dominant first.
type ColorExtractor interface {
	DominantColors(ctx context.Context, src []byte) ([]string, error)
}

// Compressor re-encodes a rendered creative so it fits in targetKB.
type Compressor interface {
	Compress(ctx context.Context, src []byte, targetKB int) ([]byte, error)
}

var (
	_ BackgroundRemover = Passthrough{}
	_ BackgroundRemover = ColorKey{}
	_ ColorExtractor    = Quantizer{}
	_ Compressor        = JPEGCompressor{}
)

// =============================================================================
// Background removal
// =============================================================================

// Passthrough keeps the image as it is. It still decodes and re-encodes as
// PNG so corrupt input fails early with IMAGE_DECODE.
type Passthrough struct{}

func (Passthrough) RemoveBackground(ctx context.Context, src []byte) ([]byte, error) {
	img, err := Decode(src)
	if err != nil {
		return nil, err
	}
	return EncodePNG(img)
}

// ColorKey makes every pixel close to the corner colour transparent. It suits
// product shots on a plain studio backdrop.
type ColorKey struct {
	// Tolerance is the maximum CIE76 distance (Lab, 0..1 scale) from the
	// backdrop colour. Zero means 0.08.
	Tolerance float64
}

func (k ColorKey) RemoveBackground(ctx context.Context, src []byte) ([]byte, error) {
	img, err := Decode(src)
	if err != nil {
		return nil, err
	}
	tol := k.Tolerance
	if tol <= 0 {
		tol = 0.08
	}

	out := imaging.Clone(img)
	b := out.Bounds()
	key := cornerColor(out)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		if y%64 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			c := out.NRGBAAt(x, y)
			if c.A == 0 {
				continue
			}
			if toColorful(c).DistanceLab(key) <= tol {
				out.SetNRGBA(x, y, color.NRGBA{})
			}
		}
	}
	return EncodePNG(out)
}

func cornerColor(img *image.NRGBA) colorful.Color {
	b := img.Bounds()
	pts := []image.Point{
		{b.Min.X, b.Min.Y}, {b.Max.X - 1, b.Min.Y},
		{b.Min.X, b.Max.Y - 1}, {b.Max.X - 1, b.Max.Y - 1},
	}
	var r, g, bl float64
	for _, p := range pts {
		c := toColorful(img.NRGBAAt(p.X, p.Y))
		r, g, bl = r+c.R, g+c.G, bl+c.B
	}
	n := float64(len(pts))
	return colorful.Color{R: r / n, G: g / n, B: bl / n}
}

func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// =============================================================================
// Dominant colours
// =============================================================================

// Quantizer extracts dominant colours by bucketing a downscaled copy of the
// image into 4-bit-per-channel bins. Mostly transparent pixels are ignored.
// Ties are broken by bin index, so the result is deterministic.
type Quantizer struct {
	// Max is the number of colours returned. Zero means 5.
	Max int
}

type bin struct {
	key     int
	n       int
	r, g, b int
}

func (q Quantizer) DominantColors(ctx context.Context, src []byte) ([]string, error) {
	img, err := Decode(src)
	if err != nil {
		return nil, err
	}
	limit := q.Max
	if limit <= 0 {
		limit = 5
	}

	small := imaging.Fit(img, 64, 64, imaging.Box)
	bins := map[int]*bin{}
	b := small.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := small.NRGBAAt(x, y)
			if c.A < 128 {
				continue
			}
			key := int(c.R>>4)<<8 | int(c.G>>4)<<4 | int(c.B>>4)
			e, ok := bins[key]
			if !ok {
				e = &bin{key: key}
				bins[key] = e
			}
			e.n++
			e.r += int(c.R)
			e.g += int(c.G)
			e.b += int(c.B)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sorted := make([]*bin, 0, len(bins))
	for _, e := range bins {
		sorted = append(sorted, e)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].n != sorted[j].n {
			return sorted[i].n > sorted[j].n
		}
		return sorted[i].key < sorted[j].key
	})

	out := make([]string, 0, limit)
	for _, e := range sorted {
		if len(out) == limit {
			break
		}
		avg := colorful.Color{
			R: float64(e.r) / float64(e.n) / 255,
			G: float64(e.g) / float64(e.n) / 255,
			B: float64(e.b) / float64(e.n) / 255,
		}
		out = append(out, palette.Hex(avg))
	}
	return out, nil
}

// =============================================================================
// Compression
// =============================================================================

// JPEGCompressor lowers JPEG quality step by step until the output fits the
// target, then shrinks the image. Transparency is flattened onto white. If
// even the smallest attempt is too large it is returned anyway.
type JPEGCompressor struct{}

const (
	maxQuality  = 92
	minQuality  = 40
	qualityStep = 8
	shrinkStep  = 0.85
	minSide     = 64
)

func (JPEGCompressor) Compress(ctx context.Context, src []byte, targetKB int) ([]byte, error) {
	if err := errors.ValidateTargetSize(targetKB); err != nil {
		return nil, err
	}
	img, err := Decode(src)
	if err != nil {
		return nil, err
	}
	limit := targetKB * 1024

	flat := flatten(img)
	var out []byte
	for q := maxQuality; q >= minQuality; q -= qualityStep {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if out, err = encodeJPEG(flat, q); err != nil {
			return nil, err
		}
		if len(out) <= limit {
			return out, nil
		}
	}

	w, h := flat.Bounds().Dx(), flat.Bounds().Dy()
	for {
		w = int(math.Round(float64(w) * shrinkStep))
		h = int(math.Round(float64(h) * shrinkStep))
		if w < minSide || h < minSide {
			return out, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if out, err = encodeJPEG(imaging.Resize(flat, w, h, imaging.Lanczos), minQuality); err != nil {
			return nil, err
		}
		if len(out) <= limit {
			return out, nil
		}
	}
}

func flatten(img image.Image) *image.NRGBA {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1)
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode jpeg")
	}
	return buf.Bytes(), nil
}
