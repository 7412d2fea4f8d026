package port

import (
	"context"
	"image"

	"cat-eye-locator/internal/domain/entity"
)

// EyeDetector интерфейс детектора левого глаза
type EyeDetector interface {
	// Predict выполняет инференс и возвращает детекции в порядке модели
	Predict(ctx context.Context, img image.Image, confidence float64) ([]entity.Detection, error)

	// Close освобождает модель
	Close() error
}
