package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizeDownscales(t *testing.T) {
	raw := encodePNG(t, 1600, 1200)

	data, mime, err := Normalize(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if mime != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %q", mime)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding normalized photo: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg output, got %q", format)
	}
	if cfg.Width != MaxDimension || cfg.Height != MaxDimension*1200/1600 {
		t.Errorf("expected %dx%d, got %dx%d", MaxDimension, MaxDimension*1200/1600, cfg.Width, cfg.Height)
	}
}

func TestNormalizeSmallImagePassesThrough(t *testing.T) {
	raw := encodePNG(t, 100, 50)

	data, _, err := Normalize(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding normalized photo: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Errorf("expected 100x50, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestNormalizeRejectsNonImage(t *testing.T) {
	_, _, err := Normalize(strings.NewReader("definitely not an image"))
	if err == nil {
		t.Error("expected error for non-image input")
	}
}

func TestNormalizeRejectsOversizedUpload(t *testing.T) {
	// A valid PNG header followed by padding past the size limit.
	raw := encodePNG(t, 10, 10)
	padded := append(raw, make([]byte, MaxUploadBytes)...)

	_, _, err := Normalize(bytes.NewReader(padded))
	if err == nil || !strings.Contains(err.Error(), "exceeds") {
		t.Errorf("expected size limit error, got %v", err)
	}
}
