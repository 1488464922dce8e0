package processor_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andreyxaxa/asset-pipeline/internal/infrastructure/processor"
	"github.com/andreyxaxa/asset-pipeline/pkg/types/errs"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

func encodeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	return buf.Bytes()
}

func TestProbe(t *testing.T) {
	p := processor.New()

	meta, err := p.Probe(encodePNG(t, 64, 32))
	require.NoError(t, err)
	require.Equal(t, 64, meta.Width)
	require.Equal(t, 32, meta.Height)
	require.Equal(t, "png", meta.Format)

	meta, err = p.Probe(encodeJPEG(t, 10, 20))
	require.NoError(t, err)
	require.Equal(t, 10, meta.Width)
	require.Equal(t, 20, meta.Height)
	require.Equal(t, "jpeg", meta.Format)
}

func TestProbeInvalidData(t *testing.T) {
	p := processor.New()

	_, err := p.Probe([]byte("definitely not an image"))
	require.ErrorIs(t, err, errs.ErrInvalidImage)

	_, err = p.Probe(nil)
	require.ErrorIs(t, err, errs.ErrInvalidImage)
}

func TestDownscale(t *testing.T) {
	p := processor.New()

	resized, meta, err := p.Downscale(context.Background(), encodePNG(t, 200, 100), 50, 25)
	require.NoError(t, err)
	require.Equal(t, 50, meta.Width)
	require.Equal(t, 25, meta.Height)
	require.Equal(t, "png", meta.Format)

	// результат декодируется обратно и имеет целевые размеры
	probed, err := p.Probe(resized)
	require.NoError(t, err)
	require.Equal(t, 50, probed.Width)
	require.Equal(t, 25, probed.Height)
	require.Equal(t, "png", probed.Format)
}

func TestDownscaleInvalidData(t *testing.T) {
	p := processor.New()

	_, _, err := p.Downscale(context.Background(), []byte("garbage"), 10, 10)
	require.ErrorIs(t, err, errs.ErrInvalidImage)
}
