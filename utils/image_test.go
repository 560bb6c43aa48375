package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x += 10 {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCompressImageDownscalesWideImages(t *testing.T) {
	data := makePNG(t, 2400, 1200)

	out, err := CompressImage(data)
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, MaxDocumentWidth, decoded.Bounds().Dx())
	assert.Equal(t, 600, decoded.Bounds().Dy(), "aspect ratio preserved")
}

func TestCompressImageKeepsSmallImages(t *testing.T) {
	data := makePNG(t, 800, 600)

	out, err := CompressImage(data)
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 800, decoded.Bounds().Dx())
}

func TestCompressImageRejectsGarbage(t *testing.T) {
	_, err := CompressImage([]byte("not an image"))
	assert.Error(t, err)
}
