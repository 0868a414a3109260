package products

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// QREncoder turns a product URL into a stored, scannable image.
type QREncoder interface {
	Encode(url string) (string, error)
}

// PNGEncoder encodes QR codes as PNG data URLs, matching what the label
// renderer embeds directly into an <img> tag.
type PNGEncoder struct {
	SizePx int
}

// NewPNGEncoder constructs an encoder with the given pixel size.
func NewPNGEncoder(sizePx int) PNGEncoder {
	if sizePx <= 0 {
		sizePx = 300
	}
	return PNGEncoder{SizePx: sizePx}
}

// Encode renders the URL as a PNG data URL.
func (e PNGEncoder) Encode(url string) (string, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, e.SizePx)
	if err != nil {
		return "", fmt.Errorf("products: encode qr: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

var _ QREncoder = PNGEncoder{}
