package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/andreyxaxa/asset-pipeline/internal/entity"
	"github.com/andreyxaxa/asset-pipeline/pkg/types/errs"
	"github.com/disintegration/imaging"
)

type ImageTransformer struct {
}

func New() *ImageTransformer {
	return &ImageTransformer{}
}

// Probe reads intrinsic dimensions and format without decoding pixel data.
func (p *ImageTransformer) Probe(data []byte) (entity.ImageMetadata, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return entity.ImageMetadata{}, fmt.Errorf("ImageTransformer - Probe - image.DecodeConfig: %w", errs.ErrInvalidImage)
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return entity.ImageMetadata{}, fmt.Errorf("ImageTransformer - Probe - zero dimensions: %w", errs.ErrInvalidImage)
	}

	return entity.ImageMetadata{
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
	}, nil
}

func (p *ImageTransformer) Downscale(ctx context.Context, data []byte, width, height int) ([]byte, entity.ImageMetadata, error) {
	// AutoOrientation применяет EXIF-ориентацию до ресайза
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, entity.ImageMetadata{}, fmt.Errorf("ImageTransformer - Downscale - imaging.Decode: %w", errs.ErrInvalidImage)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, entity.ImageMetadata{}, fmt.Errorf("ImageTransformer - Downscale - image.DecodeConfig: %w", errs.ErrInvalidImage)
	}

	resized := imaging.Resize(img, width, height, imaging.Lanczos)

	res, err := encodeImage(resized, format)
	if err != nil {
		return nil, entity.ImageMetadata{}, fmt.Errorf("ImageTransformer - Downscale: %w", err)
	}

	bounds := resized.Bounds()

	return res, entity.ImageMetadata{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: format,
	}, nil
}

func encodeImage(img image.Image, format string) ([]byte, error) {
	f, err := imaging.FormatFromExtension(format)
	if err != nil {
		// формат декодировался, но кодировать его мы не умеем
		f = imaging.JPEG
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, f); err != nil {
		return nil, fmt.Errorf("encodeImage - imaging.Encode: %w", err)
	}

	return buf.Bytes(), nil
}
