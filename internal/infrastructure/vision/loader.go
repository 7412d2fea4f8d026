package vision

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"cat-eye-locator/config"
	"cat-eye-locator/internal/domain/port"
)

// Load создаёт детектор, выбранный в cfg.DetectorBackend. Вызывается один раз
// при старте, полученный детектор общий для всех запросов.
func Load(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (port.EyeDetector, error) {
	log = log.WithField("backend", cfg.DetectorBackend)

	switch cfg.DetectorBackend {
	case config.BackendONNX:
		d, err := NewONNXDetector(cfg.ModelPath, cfg.ONNXRuntimeLib, log)
		if err != nil {
			return nil, fmt.Errorf("load onnx detector: %w", err)
		}
		return d, nil

	case config.BackendGoCV:
		d, err := NewGoCVDetector(cfg.ModelPath, log)
		if err != nil {
			return nil, fmt.Errorf("load gocv detector: %w", err)
		}
		return d, nil

	case config.BackendRemote:
		d := NewRemoteDetector(cfg.InferenceURL, nil)
		if err := d.CheckHealth(ctx); err != nil {
			log.WithError(err).Warn("ML service not available")
		}
		return d, nil

	default:
		return nil, fmt.Errorf("unknown detector backend %q", cfg.DetectorBackend)
	}
}
