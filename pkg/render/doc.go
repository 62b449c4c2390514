// Package render rasterizes creative layouts.
//
// # Overview
//
// [Image] composites one [creative.Layout] with its source assets into a
// bitmap of exactly Layout.Width × Layout.Height pixels. [Creative] does the
// same and encodes the result as PNG or JPEG.
//
//	data, err := render.Creative(ctx, layout, render.Inputs{
//	    Packshot: packshotPNG,
//	    Logo:     logoPNG,
//	    Headline: "Fresh Drop",
//	    CTA:      "Shop Now",
//	}, render.WithFormat(render.FormatPNG))
//
// # Compositing Order
//
// Back to front:
//
//  1. Background fill
//  2. Decorations in slice order, rotated about their center
//  3. Packshot, fit inside its box preserving aspect ratio
//  4. Logo, likewise
//  5. Headline, centered, word-wrapped, truncated with an ellipsis when it
//     runs out of vertical room
//  6. CTA as a filled pill with contrasting text
//
// # Errors
//
// A packshot, logo or decoration image that cannot be decoded fails the
// whole render with IMAGE_DECODE, and a missing packshot or logo with
// ASSET_MISSING. Nothing partial is returned. Text never fails: it is
// wrapped, truncated or drawn empty.
//
// # Determinism
//
// Rendering depends only on its inputs. The same layout, assets and text
// produce identical pixels and identical encoded bytes.
package render
