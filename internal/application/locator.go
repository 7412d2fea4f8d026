package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"cat-eye-locator/internal/domain/entity"
	"cat-eye-locator/internal/domain/port"
	"cat-eye-locator/internal/infrastructure/imaging"
)

const (
	MsgPrompt      = "Please upload an image of a cat."
	MsgNoDetection = "No left-eye detected. Try a clearer cat face."
	OverlayCaption = "Detected left eye"
)

// LocatorService прогоняет одну загрузку через детектор.
type LocatorService struct {
	detector port.EyeDetector
	log      logrus.FieldLogger
}

// LocateOutput содержит то, что фронтенд показывает для одной загрузки.
type LocateOutput struct {
	State     entity.SessionState
	Found     bool
	Detection entity.Detection
	Center    entity.Point
	Overlay   []byte // PNG, nil если ничего не найдено
	Message   string
}

// NewLocatorService создаёт сервис вокруг уже загруженного детектора.
func NewLocatorService(detector port.EyeDetector, log logrus.FieldLogger) *LocatorService {
	return &LocatorService{
		detector: detector,
		log:      log,
	}
}

// Locate декодирует загрузку, запускает инференс и рисует подсветку первой
// детекции. Пустая загрузка не ошибка: результат просит загрузить фото,
// детектор не вызывается.
func (s *LocatorService) Locate(ctx context.Context, upload *entity.Upload) (*LocateOutput, error) {
	if upload.Empty() {
		return &LocateOutput{State: entity.StateAwaitingUpload, Message: MsgPrompt}, nil
	}
	if s.detector == nil {
		return nil, errors.New("detector is not configured")
	}

	img, err := imaging.Decode(upload)
	if err != nil {
		return nil, err
	}

	detections, err := s.detector.Predict(ctx, img, entity.ConfidenceThreshold)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}

	log := s.log.WithFields(logrus.Fields{
		"file":       upload.Filename,
		"detections": len(detections),
	})

	if len(detections) == 0 {
		log.Info("no left eye detected")
		return &LocateOutput{State: entity.StateResultDisplayed, Message: MsgNoDetection}, nil
	}
	if len(detections) > 1 {
		// Берём первый бокс как есть, он не обязательно самый уверенный
		log.WithField("confidence", detections[0].Confidence).Debug("several detections, using the first")
	}

	first := detections[0]
	center := first.Center()

	overlay, err := imaging.EncodePNG(imaging.Overlay(img, first))
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{"cx": center.X, "cy": center.Y}).Info("left eye located")

	return &LocateOutput{
		State:     entity.StateResultDisplayed,
		Found:     true,
		Detection: first,
		Center:    center,
		Overlay:   overlay,
		Message:   center.String() + " px",
	}, nil
}
