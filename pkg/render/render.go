package render

import (
	"bytes"
	"context"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/adforge/pkg/asset"
	"github.com/matzehuels/adforge/pkg/creative"
	"github.com/matzehuels/adforge/pkg/errors"
)

// Format is an output encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// DefaultJPEGQuality is used when no quality option is given.
const DefaultJPEGQuality = 92

// ParseFormat accepts "png", "jpg" and "jpeg".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png", "":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want png or jpeg)", s)
}

// Ext returns the file extension for f, without the dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return "png"
}

// MediaType returns the MIME type for f.
func (f Format) MediaType() string {
	if f == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Inputs are the per-creative assets and copy. Packshot and Logo hold encoded
// image bytes or data URLs.
type Inputs struct {
	Packshot []byte
	Logo     []byte
	Headline string
	CTA      string
}

// Option configures [Creative].
type Option func(*options)

type options struct {
	format  Format
	quality int
}

// WithFormat sets the output encoding (default PNG).
func WithFormat(f Format) Option { return func(o *options) { o.format = f } }

// WithJPEGQuality sets the JPEG quality in [1,100] (default 92).
func WithJPEGQuality(q int) Option { return func(o *options) { o.quality = q } }

// Creative renders l and encodes the bitmap.
func Creative(ctx context.Context, l creative.Layout, in Inputs, opts ...Option) ([]byte, error) {
	o := options{format: FormatPNG, quality: DefaultJPEGQuality}
	for _, opt := range opts {
		opt(&o)
	}

	img, err := Image(ctx, l, in)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Encode(img, o.format, o.quality)
}

// Encode encodes img in the given format. quality applies to JPEG only.
func Encode(img image.Image, f Format, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case FormatPNG:
		err = imaging.Encode(&buf, img, imaging.PNG)
	case FormatJPEG:
		if quality < 1 || quality > 100 {
			quality = DefaultJPEGQuality
		}
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode %s", f)
	}
	return buf.Bytes(), nil
}

// DataURL wraps encoded image data in a data URL for format f.
func DataURL(data []byte, f Format) string {
	return asset.EncodeDataURL(f.MediaType(), data)
}

// Image composites l with its inputs. ctx is checked between compositing
// stages so a superseded render stops early.
func Image(ctx context.Context, l creative.Layout, in Inputs) (image.Image, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	// Decode everything up front so a bad asset never yields a partial image.
	packshot, err := decodeRequired("packshot", in.Packshot)
	if err != nil {
		return nil, err
	}
	logo, err := decodeRequired("logo", in.Logo)
	if err != nil {
		return nil, err
	}
	decoImages := make([]image.Image, len(l.Decorations))
	for i, d := range l.Decorations {
		if d.Kind != creative.DecorationImage {
			continue
		}
		img, err := asset.DecodeString(d.ImageDataURL)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeImageDecode, err, "decoration %d", i)
		}
		decoImages[i] = img
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dc := gg.NewContext(l.Width, l.Height)
	dc.SetColor(mustColor(l.Background, 1))
	dc.Clear()

	for i, d := range l.Decorations {
		if err := drawDecoration(dc, d, decoImages[i]); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	canvas := image.Rect(0, 0, l.Width, l.Height)
	drawFitted(dc, packshot, l.Packshot, 1, canvas)
	drawFitted(dc, logo, l.Logo, 1, canvas)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := drawHeadline(dc, l.Headline, in.Headline); err != nil {
		return nil, err
	}
	if err := drawCTA(dc, l.CTA, in.CTA); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

func decodeRequired(name string, src []byte) (image.Image, error) {
	if len(src) == 0 {
		return nil, errors.New(errors.ErrCodeAssetMissing, "%s image is required", name)
	}
	img, err := asset.Decode(src)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageDecode, err, "%s", name)
	}
	return img, nil
}
