// Package canvas implements direct manipulation of a creative layout.
//
// A [Controller] owns one [creative.Layout] and turns pointer events into
// layout edits:
//
//   - Pointer down hit-tests the layout and, on a hit, starts a gesture.
//     Holding the modifier (shift) at pointer down makes the whole gesture
//     a resize.
//   - Pointer move drags or resizes the grabbed element and commits a new
//     layout value on every move, so previews stay live during the drag.
//   - Pointer up or leave ends the gesture. The last committed layout stays.
//
// Hit-testing uses a fixed precedence: packshot, logo, headline, CTA, then
// decorations from the topmost (last drawn) down. See [HitTest].
//
// Dragging clamps image and decoration boxes so they stay inside the canvas.
// Text boxes are not clamped and may overflow while being edited. Resizing
// grows boxes by the pointer delta down to a per-kind minimum size, and
// grows text by the horizontal delta divided by [ResizeSensitivity] down to
// a per-kind minimum font size. Resizing does not clamp.
//
// The controller never touches pixels. Callers re-render after each commit,
// typically from the commit callback set with [WithCommit].
package canvas
