package template

import (
	"github.com/matzehuels/adforge/pkg/creative"
	"github.com/matzehuels/adforge/pkg/errors"
)

// Asset is a decoration to be placed by [Generate].
type Asset struct {
	Kind         creative.DecorationKind
	ImageDataURL string // kind image
	Content      string // kind emoji
	Color        string // optional; defaults to a palette colour
}

// ImageAsset returns an image decoration backed by a data URL.
func ImageAsset(dataURL string) Asset {
	return Asset{Kind: creative.DecorationImage, ImageDataURL: dataURL}
}

// ImageAssets wraps each data URL with [ImageAsset].
func ImageAssets(dataURLs []string) []Asset {
	out := make([]Asset, len(dataURLs))
	for i, u := range dataURLs {
		out[i] = ImageAsset(u)
	}
	return out
}

// EmojiAsset returns an emoji decoration.
func EmojiAsset(glyph string) Asset {
	return Asset{Kind: creative.DecorationEmoji, Content: glyph}
}

// ShapeAsset returns a circle, rectangle or line decoration.
func ShapeAsset(kind creative.DecorationKind) Asset {
	return Asset{Kind: kind}
}

func (a Asset) validate(i int) error {
	if !a.Kind.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "decoration %d: unknown type %q", i, a.Kind)
	}
	if a.Kind == creative.DecorationImage && a.ImageDataURL == "" {
		return errors.New(errors.ErrCodeInvalidInput, "decoration %d: image requires a data URL", i)
	}
	if a.Kind == creative.DecorationEmoji && a.Content == "" {
		return errors.New(errors.ErrCodeInvalidInput, "decoration %d: emoji requires content", i)
	}
	if a.Color != "" {
		if err := errors.ValidateHexColor(a.Color); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "decoration %d", i)
		}
	}
	return nil
}
