package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// Documents are downscaled before storage: a phone photo of a medical
// certificate does not need more than this.
const (
	MaxDocumentWidth = 1200
	JPEGQuality      = 70
)

// CompressImage decodes a JPEG/PNG upload, scales it down to MaxDocumentWidth
// if wider, and re-encodes it as JPEG. Smaller images are only re-encoded.
func CompressImage(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width > MaxDocumentWidth {
		height = height * MaxDocumentWidth / width
		width = MaxDocumentWidth

		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
