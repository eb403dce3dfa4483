package ocr

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocess_UpscalesAndGrays(t *testing.T) {
	src := imaging.New(200, 100, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, src, imaging.JPEG))

	out, err := Preprocess(buf.Bytes())
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, minOCRHeight, img.Bounds().Dy())
	assert.Equal(t, 2400, img.Bounds().Dx())

	r, g, b, _ := img.At(10, 10).RGBA()
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)
}

func TestPreprocess_RejectsGarbage(t *testing.T) {
	_, err := Preprocess([]byte("definitely not an image"))

	assert.ErrorIs(t, err, ErrInvalidImage)
}
