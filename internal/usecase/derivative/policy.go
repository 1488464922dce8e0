package derivative

import (
	"fmt"
	"math"

	"github.com/andreyxaxa/asset-pipeline/pkg/types/errs"
)

// Decision - результат политики даунскейла для одного изображения.
type Decision struct {
	TargetWidth    int
	TargetHeight   int
	NeedsDownscale bool
}

// Decide решает, нужно ли уменьшать изображение, и считает целевые размеры
// с сохранением пропорций. Чистая функция, без I/O.
func Decide(width, height, threshold int) (Decision, error) {
	if width <= 0 || height <= 0 {
		return Decision{}, fmt.Errorf("derivative - Decide - dimensions %dx%d: %w", width, height, errs.ErrInvalidImage)
	}
	if threshold <= 0 {
		return Decision{}, fmt.Errorf("derivative - Decide - threshold %d: %w", threshold, errs.ErrInvalidImage)
	}

	if width <= threshold && height <= threshold {
		return Decision{
			TargetWidth:  width,
			TargetHeight: height,
		}, nil
	}

	scale := math.Min(float64(threshold)/float64(width), float64(threshold)/float64(height))

	return Decision{
		TargetWidth:    int(math.Round(float64(width) * scale)),
		TargetHeight:   int(math.Round(float64(height) * scale)),
		NeedsDownscale: true,
	}, nil
}
