package asset

import (
	"bytes"
	"encoding/base64"
	"image"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/adforge/pkg/errors"
)

// Decode decodes raw image bytes or a data URL.
func Decode(src []byte) (image.Image, error) {
	data, err := Bytes(src)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeImageDecode, "empty image data")
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageDecode, err, "decode image")
	}
	return img, nil
}

// DecodeString is [Decode] for a data URL held in a string.
func DecodeString(s string) (image.Image, error) {
	return Decode([]byte(s))
}

// Bytes returns the payload of a data URL, or src unchanged when it is not one.
func Bytes(src []byte) ([]byte, error) {
	if !bytes.HasPrefix(src, []byte("data:")) {
		return src, nil
	}
	_, data, err := ParseDataURL(string(src))
	return data, err
}

// ParseDataURL splits a base64 data URL into its media type and payload.
func ParseDataURL(s string) (mediaType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, errors.New(errors.ErrCodeImageDecode, "not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New(errors.ErrCodeImageDecode, "malformed data URL")
	}
	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, errors.New(errors.ErrCodeImageDecode, "data URL is not base64 encoded")
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeImageDecode, err, "decode data URL")
	}
	return mediaType, data, nil
}

// EncodeDataURL wraps data in a base64 data URL. An empty mediaType is
// sniffed from the content.
func EncodeDataURL(mediaType string, data []byte) string {
	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}
