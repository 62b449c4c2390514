// Package pipeline turns product assets and copy into creatives for several
// aspect ratios at once.
//
// This package is the batch path shared by the CLI (adforge generate) and
// the HTTP API (session creation). By centralizing it, both entry points
// apply the same defaults, caching and failure rules.
//
// # Stages
//
//  1. Prepare: remove backgrounds from packshot, logo and image decorations,
//     then pick the brand colour (explicit, or extracted from the logo)
//  2. Layout: derive the palette, choose a template per ratio with a
//     [TemplatePicker] and generate one layout per ratio
//  3. Render: render every variant independently. A failing variant never
//     aborts the others; its error is kept on its [Variant]
//
// Callers that need all-or-nothing behaviour check [Result.Complete].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Headline: "Summer sale",
//	    CTA:      "Shop now",
//	    Packshot: packshotPNG,
//	    Logo:     logoPNG,
//	})
//	if err != nil {
//	    return err
//	}
//	if err := result.Complete(); err != nil {
//	    return err // at least one ratio failed
//	}
//	exported := pipeline.Export(ctx, result.Creatives(), pipeline.ExportOptions{TargetKB: 300})
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/adforge/pkg/cache"
	"github.com/matzehuels/adforge/pkg/creative"
	"github.com/matzehuels/adforge/pkg/errors"
	"github.com/matzehuels/adforge/pkg/palette"
	"github.com/matzehuels/adforge/pkg/render"
	"github.com/matzehuels/adforge/pkg/template"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultBrandColor seeds the palette when no colour is given and none
	// can be extracted from the logo.
	DefaultBrandColor = "#3B82F6"

	// DefaultSeed drives template selection when no explicit mapping is given.
	DefaultSeed = uint64(42)

	// DefaultTargetKB is the export size target.
	DefaultTargetKB = 500

	// DefaultExportPacing is the pause between exported items.
	DefaultExportPacing = 500 * time.Millisecond

	// DefaultConcurrency bounds parallel variant renders.
	DefaultConcurrency = 3

	// DefaultFormat is the preview encoding.
	DefaultFormat = render.FormatPNG
)

// DefaultRatios returns every supported ratio.
func DefaultRatios() []creative.Ratio { return creative.Ratios() }

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run. Assets are encoded image bytes or
// data URLs; they are not serialized.
type Options struct {
	Headline   string `json:"headline"`
	CTA        string `json:"cta"`
	BrandColor string `json:"brand_color,omitempty"` // empty: extract from the logo

	Ratios    []creative.Ratio                     `json:"ratios,omitempty"`
	Templates map[creative.Ratio]creative.Template `json:"templates,omitempty"` // fixed choices; others use Seed
	Seed      uint64                               `json:"seed,omitempty"`

	RenderConfig

	Packshot    []byte           `json:"-"`
	Logo        []byte           `json:"-"`
	Decorations []template.Asset `json:"-"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Packshot) == 0 {
		return errors.New(errors.ErrCodeAssetMissing, "packshot is required")
	}
	if len(o.Logo) == 0 {
		return errors.New(errors.ErrCodeAssetMissing, "logo is required")
	}
	if err := errors.ValidateText("headline", o.Headline, errors.MaxHeadlineRunes); err != nil {
		return err
	}
	if err := errors.ValidateText("cta", o.CTA, errors.MaxCTARunes); err != nil {
		return err
	}
	if o.BrandColor != "" {
		if err := errors.ValidateHexColor(o.BrandColor); err != nil {
			return err
		}
	}

	if len(o.Ratios) == 0 {
		o.Ratios = DefaultRatios()
	}
	for _, r := range o.Ratios {
		if !r.Valid() {
			return errors.New(errors.ErrCodeInvalidTemplateOrRatio, "unknown ratio %q", r)
		}
	}
	for r, t := range o.Templates {
		if !r.Valid() || !t.Valid() {
			return errors.New(errors.ErrCodeInvalidTemplateOrRatio, "invalid template mapping %q -> %q", r, t)
		}
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if err := o.RenderConfig.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Picker returns the template picker for these options: fixed choices
// from Templates, seeded choices for the rest.
func (o *Options) Picker() TemplatePicker {
	seeded := SeededTemplates(o.Seed)
	if len(o.Templates) == 0 {
		return seeded
	}
	return FixedTemplates{Templates: o.Templates, Fallback: seeded}
}

// RenderConfig controls the render stage.
type RenderConfig struct {
	Format      render.Format `json:"format,omitempty"`
	Quality     int           `json:"quality,omitempty"`
	Concurrency int           `json:"concurrency,omitempty"`
	Refresh     bool          `json:"refresh,omitempty"` // bypass cached layouts and renders
}

// ValidateAndSetDefaults fills zero fields and rejects unknown formats.
func (c *RenderConfig) ValidateAndSetDefaults() error {
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if _, err := render.ParseFormat(string(c.Format)); err != nil {
		return err
	}
	if c.Quality == 0 {
		c.Quality = render.DefaultJPEGQuality
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	return nil
}

// RenderOptions returns the encoder options.
func (c RenderConfig) RenderOptions() []render.Option {
	return []render.Option{render.WithFormat(c.Format), render.WithJPEGQuality(c.Quality)}
}

// ArtifactKeyOpts returns cache key options for rendering with in.
func (c RenderConfig) ArtifactKeyOpts(in render.Inputs) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   string(c.Format),
		Quality:  c.Quality,
		Packshot: cache.Hash(in.Packshot),
		Logo:     cache.Hash(in.Logo),
		Headline: in.Headline,
		CTA:      in.CTA,
	}
}

// =============================================================================
// Results
// =============================================================================

// Variant is the outcome for one ratio.
type Variant struct {
	Ratio    creative.Ratio
	Template creative.Template
	Creative creative.GeneratedCreative // Rendered is nil when Err is set
	Err      error
	Duration time.Duration
	Cached   bool
}

// Result is the outcome of [Runner.Execute].
type Result struct {
	BrandColor string
	Palette    palette.Palette
	Inputs     render.Inputs    // prepared assets shared by all variants
	Assets     []template.Asset // prepared decorations
	Variants   []Variant
	Stats      Stats
}

// Stats holds stage timings.
type Stats struct {
	PrepareTime time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// Complete returns the first variant error, or nil when every variant
// rendered. Use it to treat a batch as all-or-nothing.
func (r *Result) Complete() error {
	for _, v := range r.Variants {
		if v.Err != nil {
			return fmt.Errorf("variant %s: %w", v.Ratio, v.Err)
		}
	}
	return nil
}

// Failed returns the number of failed variants.
func (r *Result) Failed() int {
	n := 0
	for _, v := range r.Variants {
		if v.Err != nil {
			n++
		}
	}
	return n
}

// Creatives returns the successfully rendered creatives in ratio order.
func (r *Result) Creatives() []creative.GeneratedCreative {
	out := make([]creative.GeneratedCreative, 0, len(r.Variants))
	for _, v := range r.Variants {
		if v.Err == nil {
			out = append(out, v.Creative)
		}
	}
	return out
}
