package creative

import (
	"encoding/base64"
	"net/http"
)

// GeneratedCreative is a layout together with its last rendered raster.
//
// Rendered is nil while the creative is stale: after the layout changed and
// before the renderer produced a new image for it.
type GeneratedCreative struct {
	Ratio    Ratio  `json:"ratio" yaml:"ratio"`
	Layout   Layout `json:"layout" yaml:"layout"`
	Rendered []byte `json:"rendered,omitempty" yaml:"-"`
}

// New returns a creative for a freshly rendered layout.
func New(l Layout, rendered []byte) GeneratedCreative {
	return GeneratedCreative{Ratio: l.Ratio, Layout: l.Clone(), Rendered: rendered}
}

// WithLayout returns a copy holding l with the raster dropped.
func (c GeneratedCreative) WithLayout(l Layout) GeneratedCreative {
	return GeneratedCreative{Ratio: c.Ratio, Layout: l.Clone()}
}

// WithRendered returns a copy holding the given raster.
func (c GeneratedCreative) WithRendered(data []byte) GeneratedCreative {
	c.Rendered = data
	return c
}

// Stale reports whether the raster is missing.
func (c GeneratedCreative) Stale() bool {
	return len(c.Rendered) == 0
}

// DataURL returns the raster as a data URL, or "" when stale.
func (c GeneratedCreative) DataURL() string {
	if c.Stale() {
		return ""
	}
	return "data:" + http.DetectContentType(c.Rendered) + ";base64," +
		base64.StdEncoding.EncodeToString(c.Rendered)
}

// FileName returns the conventional output name, e.g. "creative-9-16.png".
func (c GeneratedCreative) FileName(ext string) string {
	return "creative-" + c.Ratio.Slug() + "." + ext
}
