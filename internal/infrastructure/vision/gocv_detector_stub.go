//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"
	"image"

	"github.com/sirupsen/logrus"

	"cat-eye-locator/internal/domain/entity"
)

var errGoCVDisabled = errors.New("gocv build tag is not enabled")

type GoCVDetector struct{}

// NewGoCVDetector возвращает ошибку, если сборка без тега gocv.
func NewGoCVDetector(modelPath string, log logrus.FieldLogger) (*GoCVDetector, error) {
	_ = modelPath
	_ = log
	return nil, errGoCVDisabled
}

// Predict возвращает ошибку, если сборка без тега gocv.
func (d *GoCVDetector) Predict(ctx context.Context, img image.Image, confidence float64) ([]entity.Detection, error) {
	_ = ctx
	_ = img
	_ = confidence
	return nil, errGoCVDisabled
}

// Close ничего не делает без тега gocv.
func (d *GoCVDetector) Close() error {
	return nil
}
