package artifacts

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const qrImageSize = 256

// GenerateApplicationQR renders a PNG QR code pointing at the public
// verification URL for an application and saves it under qrcodes/.
func GenerateApplicationQR(store Store, trackingID, verificationURL string) (string, error) {
	png, err := qrcode.Encode(verificationURL, qrcode.Medium, qrImageSize)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}

	relPath := fmt.Sprintf("qrcodes/%s.png", trackingID)
	return store.Save(relPath, png)
}
