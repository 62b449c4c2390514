// Package template computes creative layouts from a fixed set of template
// families.
//
// [Generate] is a pure function of (ratio, family, palette, headline,
// decoration assets). For each of the three families and three ratios it
// applies a rule table of fractional boxes scaled to the canvas, so the same
// inputs always produce the same [creative.Layout]:
//
//   - clean-minimal: large centered packshot on a light background
//   - bold-dynamic: offset packshot on a saturated background with rotated
//     decorations
//   - premium-soft: soft inset packshot with translucent decorations
//
// Headline text never changes geometry. Wrapping and truncation happen in the
// renderer.
//
// Decorations fill template-defined anchor slots. Slots that would overlap
// the packshot are used only after the free ones are exhausted.
//
// An unknown ratio or template is a contract violation. [Generate] reports it
// as an INVALID_TEMPLATE_OR_RATIO error and [MustGenerate] panics.
package template
