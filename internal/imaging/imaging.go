// Package imaging normalizes stored-item photos before they go into the
// database: it sniffs the real format, downscales oversized images, and
// re-encodes everything as JPEG.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

const (
	// MaxDimension bounds the width and height of stored photos.
	MaxDimension = 800

	// MaxUploadBytes bounds the raw upload size before decoding.
	MaxUploadBytes = 8 << 20

	jpegQuality = 80
)

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}

// Normalize reads an uploaded photo, validates that it actually is a JPEG or
// PNG (the client's Content-Type header is not trusted), scales it down to
// MaxDimension, and returns JPEG bytes with their MIME type.
func Normalize(r io.Reader) ([]byte, string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("reading photo: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, "", fmt.Errorf("photo exceeds %d bytes", MaxUploadBytes)
	}

	switch detected := http.DetectContentType(data); detected {
	case "image/jpeg", "image/png":
	default:
		return nil, "", fmt.Errorf("unsupported photo format %s (JPEG or PNG only)", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decoding photo: %w", err)
	}

	img = fit(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("encoding photo: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

// fit scales img down so neither dimension exceeds maxDim, preserving aspect
// ratio. Images already within bounds pass through untouched.
func fit(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	scale := float64(maxDim) / float64(max(w, h))
	newW := max(1, int(float64(w)*scale))
	newH := max(1, int(float64(h)*scale))

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
