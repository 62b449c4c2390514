// Package session holds the editing state of generated creatives.
//
// A [Slot] owns one [creative.GeneratedCreative]. Layout edits are committed
// to it synchronously; renders run asynchronously and are ordered by a
// per-slot sequence number, so only the most recently started render is
// applied and older results are discarded. A failed render keeps the last
// good preview and is reported by [Slot.Err] until a later render succeeds.
//
// An [Editor] groups the slots of one batch (one per ratio), routes pointer
// input through a [canvas.Controller] for the selected slot and starts a
// background render after every commit. Editors live in a [Store]; the
// [MemoryStore] expires idle editors after a TTL.
package session
