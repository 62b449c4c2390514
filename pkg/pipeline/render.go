package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/adforge/pkg/cache"
	"github.com/matzehuels/adforge/pkg/creative"
	"github.com/matzehuels/adforge/pkg/observability"
	"github.com/matzehuels/adforge/pkg/render"
)

// Job is one variant to render.
type Job struct {
	Layout creative.Layout
	Inputs render.Inputs
}

// RenderVariants renders every job with at most cfg.Concurrency renders in
// flight. Jobs are isolated: a failure is stored on that job's [Variant]
// and never cancels the others. Results are in job order.
func (r *Runner) RenderVariants(ctx context.Context, jobs []Job, cfg RenderConfig) []Variant {
	out := make([]Variant, len(jobs))
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		for i, job := range jobs {
			out[i] = Variant{Ratio: job.Layout.Ratio, Template: job.Layout.Template, Creative: creative.New(job.Layout, nil), Err: err}
		}
		return out
	}

	var g errgroup.Group
	g.SetLimit(cfg.Concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			out[i] = r.renderVariant(ctx, job, cfg)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (r *Runner) renderVariant(ctx context.Context, job Job, cfg RenderConfig) Variant {
	ratio := string(job.Layout.Ratio)
	observability.Pipeline().OnRenderStart(ctx, ratio)

	start := time.Now()
	data, hit, err := r.RenderWithCacheInfo(ctx, job.Layout, job.Inputs, cfg)
	d := time.Since(start)
	observability.Pipeline().OnRenderComplete(ctx, ratio, len(data), d, err)

	v := Variant{
		Ratio:    job.Layout.Ratio,
		Template: job.Layout.Template,
		Creative: creative.New(job.Layout, data),
		Err:      err,
		Duration: d,
		Cached:   hit,
	}
	if err != nil {
		r.Logger.Warn("variant failed", "ratio", ratio, "error", err)
		return v
	}
	r.Logger.Debug("rendered variant", "ratio", ratio, "bytes", len(data), "cached", hit, "duration", d)
	return v
}

// RenderWithCacheInfo renders one layout, serving the raster from the cache
// when the layout and inputs are unchanged.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l creative.Layout, in render.Inputs, cfg RenderConfig) ([]byte, bool, error) {
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	layoutData, err := creative.MarshalLayout(l)
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.ArtifactKey(cache.Hash(layoutData), cfg.ArtifactKeyOpts(in))

	if !cfg.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			return data, true, nil
		}
	}

	data, err := render.Creative(ctx, l, in, cfg.RenderOptions()...)
	if err != nil {
		return nil, false, err
	}
	_ = r.Cache.Set(ctx, key, data, cache.TTLArtifact)
	return data, false, nil
}

// Render is RenderWithCacheInfo without the cache hit info.
func (r *Runner) Render(ctx context.Context, l creative.Layout, in render.Inputs, cfg RenderConfig) ([]byte, error) {
	data, _, err := r.RenderWithCacheInfo(ctx, l, in, cfg)
	return data, err
}
