package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/adforge/pkg/asset"
	"github.com/matzehuels/adforge/pkg/cache"
	"github.com/matzehuels/adforge/pkg/creative"
	"github.com/matzehuels/adforge/pkg/observability"
	"github.com/matzehuels/adforge/pkg/palette"
	"github.com/matzehuels/adforge/pkg/render"
	"github.com/matzehuels/adforge/pkg/template"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner may serve many goroutines with different options.
type Runner struct {
	Cache     cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger
	Remover   asset.BackgroundRemover
	Extractor asset.ColorExtractor
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses [cache.DefaultKeyer]. Background removal defaults to
// [asset.Passthrough] and colour extraction to [asset.Quantizer]; replace
// the fields to plug in other collaborators.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
		Remover:   asset.Passthrough{},
		Extractor: asset.Quantizer{},
	}
}

// Execute runs prepare, layout and render for every requested ratio.
//
// Errors before the render stage (missing assets, undecodable packshot or
// logo, invalid options) fail the whole run. Render failures are recorded
// per variant; see [Result.Complete].
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	observability.Pipeline().OnGenerateStart(ctx, ratioNames(opts.Ratios))
	res, err := r.execute(ctx, opts)
	variants, failed := 0, 0
	if res != nil {
		variants, failed = len(res.Variants), res.Failed()
	}
	observability.Pipeline().OnGenerateComplete(ctx, variants, failed, time.Since(start), err)
	return res, err
}

func (r *Runner) execute(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{}

	// Stage 1: Prepare
	prepStart := time.Now()
	in, assets, err := r.Prepare(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	res.Inputs = in
	res.Assets = assets
	res.BrandColor = r.BrandColor(ctx, opts.BrandColor, in.Logo)
	p, err := palette.FromHex(res.BrandColor)
	if err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}
	res.Palette = p
	res.Stats.PrepareTime = time.Since(prepStart)

	opts.Logger.Info("prepared assets",
		"brand_color", res.BrandColor,
		"decorations", len(assets),
		"duration", res.Stats.PrepareTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	picker := opts.Picker()
	jobs := make([]Job, 0, len(opts.Ratios))
	for _, ratio := range opts.Ratios {
		req := LayoutRequest{
			Ratio:    ratio,
			Template: picker.Pick(ratio),
			Palette:  p,
			Headline: opts.Headline,
			Assets:   assets,
		}
		l, hit, err := r.GenerateLayoutWithCacheInfo(ctx, req, opts.Refresh)
		if err != nil {
			return nil, fmt.Errorf("layout %s: %w", ratio, err)
		}
		observability.Pipeline().OnLayoutComplete(ctx, string(ratio), string(req.Template), hit)
		jobs = append(jobs, Job{Layout: l, Inputs: in})
	}
	res.Stats.LayoutTime = time.Since(layoutStart)

	opts.Logger.Info("generated layouts",
		"ratios", len(jobs),
		"duration", res.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	res.Variants = r.RenderVariants(ctx, jobs, opts.RenderConfig)
	res.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered variants",
		"variants", len(res.Variants),
		"failed", res.Failed(),
		"duration", res.Stats.RenderTime)

	return res, nil
}

// Prepare removes backgrounds from the packshot, the logo and every image
// decoration. Image decorations come back as PNG data URLs.
func (r *Runner) Prepare(ctx context.Context, opts Options) (render.Inputs, []template.Asset, error) {
	in := render.Inputs{Headline: opts.Headline, CTA: opts.CTA}

	var err error
	if in.Packshot, err = r.removeBackground(ctx, opts.Packshot); err != nil {
		return in, nil, fmt.Errorf("packshot: %w", err)
	}
	if in.Logo, err = r.removeBackground(ctx, opts.Logo); err != nil {
		return in, nil, fmt.Errorf("logo: %w", err)
	}

	assets := make([]template.Asset, len(opts.Decorations))
	for i, a := range opts.Decorations {
		if a.Kind == creative.DecorationImage {
			out, err := r.removeBackground(ctx, []byte(a.ImageDataURL))
			if err != nil {
				return in, nil, fmt.Errorf("decoration %d: %w", i, err)
			}
			a.ImageDataURL = asset.EncodeDataURL("image/png", out)
		}
		assets[i] = a
	}
	return in, assets, nil
}

// BrandColor returns explicit when set. Otherwise it extracts the dominant
// colour of the logo, falling back to [DefaultBrandColor].
func (r *Runner) BrandColor(ctx context.Context, explicit string, logo []byte) string {
	if explicit != "" {
		if hex, err := palette.Normalize(explicit); err == nil {
			return hex
		}
	}
	if r.Extractor != nil && len(logo) > 0 {
		colors, err := r.Extractor.DominantColors(ctx, logo)
		if err == nil && len(colors) > 0 {
			return colors[0]
		}
		if err != nil {
			r.Logger.Debug("colour extraction failed", "error", err)
		}
	}
	return DefaultBrandColor
}

func (r *Runner) removeBackground(ctx context.Context, src []byte) ([]byte, error) {
	data, err := asset.Bytes(src)
	if err != nil {
		return nil, err
	}
	if r.Remover == nil {
		return data, nil
	}
	return r.Remover.RemoveBackground(ctx, data)
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func ratioNames(rs []creative.Ratio) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}
