// Package asset loads and decodes creative source images and provides the
// default implementations of the external image collaborators.
//
// Images travel through the engine as encoded bytes (PNG, JPEG, GIF) or as
// base64 data URLs. [Decode] turns either into an [image.Image], honouring
// EXIF orientation, and reports failures as IMAGE_DECODE errors.
//
// # Collaborators
//
// The layout engine treats three operations as external and consumes them
// only through interfaces:
//
//   - [BackgroundRemover]: strip the background from a product image
//   - [ColorExtractor]: list the dominant colours of an image
//   - [Compressor]: shrink a rendered creative to a target size
//
// [Passthrough], [Quantizer] and [JPEGCompressor] are the built-in
// implementations. Callers with access to a segmentation service plug in
// their own [BackgroundRemover].
package asset
