// Package pkg provides the core libraries for Adforge creative generation.
//
// # Overview
//
// Adforge turns a packshot, a logo and a few lines of copy into marketing
// creatives for three placements: square (1:1), story (9:16) and landscape
// (1.91:1). The pkg directory is organized into these areas:
//
//  1. Domain: [geom], [palette], [creative], [template], [canvas]
//  2. Rendering: [render], [fonts], [asset]
//  3. Orchestration: [pipeline], [session]
//  4. Infrastructure: [cache], [httputil], [observability], [errors]
//
// # Architecture
//
// The typical data flow through Adforge:
//
//	Brand colour (or logo)
//	         ↓
//	    [palette] package (derive the colour scheme)
//	         ↓
//	    [template] package (place elements for a ratio and template)
//	         ↓
//	    [render] package (rasterize to PNG or JPEG)
//	         ↓
//	    [canvas] / [session] packages (drag, resize, re-render)
//
// # Quick Start
//
// Generate and render one creative:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/adforge/pkg/creative"
//	    "github.com/matzehuels/adforge/pkg/palette"
//	    "github.com/matzehuels/adforge/pkg/render"
//	    "github.com/matzehuels/adforge/pkg/template"
//	)
//
//	p, _ := palette.FromHex("#0EA5E9")
//	l, _ := template.Generate(creative.RatioSquare, creative.TemplateCleanMinimal, p, "Run further", nil)
//	img, _ := render.Creative(context.Background(), l, render.Inputs{
//	    Packshot: packshot,
//	    Logo:     logo,
//	    Headline: "Run further",
//	    CTA:      "Shop now",
//	})
//
// For batches with caching, template picking and exports, use a
// [pipeline.Runner]. For interactive editing, wrap the results in a
// [session.Editor].
//
// # Package Organization
//
// [geom] - Points and centre-anchored boxes with clamping.
//
// [palette] - Primary, secondary, accent, background and text colours
// derived from one brand colour, plus WCAG contrast helpers.
//
// [creative] - Ratios, templates, layouts and their JSON/YAML codecs.
//
// [template] - The nine template rules (three templates by three ratios)
// and decoration placement.
//
// [canvas] - Hit testing and the pointer state machine that moves and
// resizes layout elements.
//
// [render] - Background, decorations, images and text drawn onto a canvas
// and encoded as PNG or JPEG.
//
// [pipeline] - Config loading, palette extraction, batch generation,
// caching and size-targeted export.
//
// [session] - Editing sessions with last-write-wins re-rendering.
//
// [cache] - File, Redis and null caches keyed by content hashes.
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/adforge/pkg/geom
// [palette]: https://pkg.go.dev/github.com/matzehuels/adforge/pkg/palette
// [creative]: https://pkg.go.dev/github.com/matzehuels/adforge/pkg/creative
// [template]: https://pkg.go.dev/github.com/matzehuels/adforge/pkg/template
// [canvas]: https://pkg.go.dev/github.com/matzehuels/adforge/pkg/canvas
// [render]: https://pkg.go.dev/github.com/matzehuels/adforge/pkg/render
// [fonts]: https://pkg.go.dev/github.com/matzehuels/adforge/pkg/fonts
// [asset]: https://pkg.go.dev/github.com/matzehuels/adforge/pkg/asset
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/adforge/pkg/pipeline
// [session]: https://pkg.go.dev/github.com/matzehuels/adforge/pkg/session
// [cache]: https://pkg.go.dev/github.com/matzehuels/adforge/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/adforge/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/adforge/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/adforge/pkg/errors
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/adforge/pkg/pipeline#Runner
// [session.Editor]: https://pkg.go.dev/github.com/matzehuels/adforge/pkg/session#Editor
package pkg
