package asset

import (
	qrcode "github.com/skip2/go-qrcode"

	"github.com/matzehuels/adforge/pkg/errors"
)

// QRCode encodes text as a size×size PNG QR code.
func QRCode(text string, size int) ([]byte, error) {
	if text == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "qr code text cannot be empty")
	}
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(text, qrcode.Medium, size)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "encode qr code")
	}
	return png, nil
}

// QRCodeDataURL is [QRCode] returned as a PNG data URL.
func QRCodeDataURL(text string, size int) (string, error) {
	png, err := QRCode(text, size)
	if err != nil {
		return "", err
	}
	return EncodeDataURL("image/png", png), nil
}
