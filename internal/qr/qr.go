package qr

import (
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// ScanTarget builds the deep link encoded into a student's QR code. A generic
// phone scanner resolves it straight to the frontend scan page.
func ScanTarget(frontendBase, studentID string) string {
	return strings.TrimRight(frontendBase, "/") + "/scan?id=" + url.QueryEscape(studentID)
}

// EncodePNG renders target as a 300px PNG with medium error correction.
func EncodePNG(target string) ([]byte, error) {
	return qrcode.Encode(target, qrcode.Medium, 300)
}
