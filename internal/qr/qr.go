// Package qr renders verification codes for generated letters.
package qr

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// ImageSize is the pixel edge of rendered verification codes.
const ImageSize = 150

// VerifyURL builds the public verification link a code resolves to. Scanning
// the code and following the URL performs the same lookup an operator could
// do with the letter identifier alone.
func VerifyURL(baseURL, letterID string) string {
	return strings.TrimRight(baseURL, "/") + "/verify/" + letterID
}

// Render encodes url into a PNG of the given square pixel size.
func Render(url string, size int) ([]byte, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
