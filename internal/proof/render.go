package proof

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultQRSize = 256

// Render produces a PNG QR code carrying the proof-of-delivery secret.
func Render(code string, size int) ([]byte, error) {
	if code == "" {
		return nil, fmt.Errorf("empty proof code")
	}
	if size <= 0 {
		size = defaultQRSize
	}
	png, err := qrcode.Encode(code, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}
	return png, nil
}
