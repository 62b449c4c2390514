// Package creative defines the data model shared by the layout, rendering and
// editing packages.
//
// A [Layout] is the complete, self-contained description of one creative for
// one aspect [Ratio]: canvas size, [Template] family, background colour, the
// packshot and logo boxes, the headline and CTA text boxes, and an ordered
// list of [Decoration] elements. Decoration order is the z-order: later
// entries are drawn on top.
//
// All boxes are center-based (see [geom.Box]) and expressed in layout space,
// the untransformed [0,Width]×[0,Height] pixel space of the canvas.
//
// # Value Semantics
//
// Layouts are treated as values. Code that edits a layout works on a
// [Layout.Clone] and hands the new value back to its owner, so the layout
// being edited never aliases a cached or previously rendered copy.
//
// # Serialization
//
// Layouts are plain records and round-trip through JSON ([MarshalLayout],
// [UnmarshalLayout]) and YAML ([MarshalLayoutYAML], [UnmarshalLayoutYAML]).
// [ReadLayoutFile] and [WriteLayoutFile] pick the codec from the file
// extension.
//
// A [GeneratedCreative] pairs a layout with its encoded raster. Replacing the
// layout via [GeneratedCreative.WithLayout] drops the raster, marking the
// creative stale until it is rendered again.
package creative
