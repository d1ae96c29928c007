package qr

import (
	"bytes"
	"strings"
	"testing"
)

func TestScanTarget(t *testing.T) {
	tests := []struct {
		name string
		base string
		id   string
		want string
	}{
		{"plain", "https://app.example.edu", "abc-123", "https://app.example.edu/scan?id=abc-123"},
		{"trailing slash trimmed", "https://app.example.edu/", "abc-123", "https://app.example.edu/scan?id=abc-123"},
		{"id is query escaped", "https://app.example.edu", "a b&c", "https://app.example.edu/scan?id=a+b%26c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScanTarget(tt.base, tt.id); got != tt.want {
				t.Fatalf("ScanTarget() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodePNG(t *testing.T) {
	target := ScanTarget("https://app.example.edu", "0c2070f2-5a0f-4f30-8bb8-7a33cf5f4b77")
	png, err := EncodePNG(target)
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	if len(png) == 0 {
		t.Fatal("empty image")
	}
	magic := []byte{0x89, 'P', 'N', 'G'}
	if !bytes.HasPrefix(png, magic) {
		t.Fatalf("not a PNG, first bytes %v", png[:4])
	}
}

func TestEncodePNGLongTarget(t *testing.T) {
	if _, err := EncodePNG("https://app.example.edu/scan?id=" + strings.Repeat("x", 500)); err != nil {
		t.Fatalf("EncodePNG long target: %v", err)
	}
}
