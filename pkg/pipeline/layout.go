package pipeline

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/matzehuels/adforge/pkg/cache"
	"github.com/matzehuels/adforge/pkg/creative"
	"github.com/matzehuels/adforge/pkg/palette"
	"github.com/matzehuels/adforge/pkg/template"
)

// LayoutRequest holds the inputs of one template generation.
type LayoutRequest struct {
	Ratio    creative.Ratio
	Template creative.Template
	Palette  palette.Palette
	Headline string
	Assets   []template.Asset
}

// KeyOpts returns the cache key options for req.
func (req LayoutRequest) KeyOpts() cache.LayoutKeyOpts {
	opts := cache.LayoutKeyOpts{
		Ratio:    string(req.Ratio),
		Template: string(req.Template),
		Palette:  strings.Join(req.Palette.Colors(), ","),
	}
	if len(req.Assets) > 0 {
		data, _ := json.Marshal(req.Assets)
		opts.Assets = cache.Hash(data)
	}
	return opts
}

// GenerateLayoutWithCacheInfo generates a layout, serving it from the cache
// when possible, and reports whether it was a cache hit.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, req LayoutRequest, refresh bool) (creative.Layout, bool, error) {
	key := r.Keyer.LayoutKey(req.KeyOpts())

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if l, err := creative.UnmarshalLayout(data); err == nil {
				return l, true, nil
			}
			// Undecodable entries are regenerated.
		}
	}

	l, err := template.Generate(req.Ratio, req.Template, req.Palette, req.Headline, req.Assets)
	if err != nil {
		return creative.Layout{}, false, err
	}

	if data, err := creative.MarshalLayout(l); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.TTLLayout)
	}
	return l, false, nil
}

// GenerateLayout is GenerateLayoutWithCacheInfo without the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, req LayoutRequest) (creative.Layout, error) {
	l, _, err := r.GenerateLayoutWithCacheInfo(ctx, req, false)
	return l, err
}
