package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"cat-eye-locator/internal/domain/entity"
	"cat-eye-locator/internal/domain/port"
	"cat-eye-locator/internal/infrastructure/imaging"
)

// RemoteDetector отдаёт инференс сервису, который обслуживает исходную модель.
type RemoteDetector struct {
	inferenceURL string
	client       *http.Client
}

type remoteBox struct {
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
	X2         float64 `json:"x2"`
	Y2         float64 `json:"y2"`
	Confidence float64 `json:"confidence"`
}

// NewRemoteDetector создаёт адаптер для inferenceURL. Если client nil, используется http.DefaultClient.
func NewRemoteDetector(inferenceURL string, client *http.Client) *RemoteDetector {
	if client == nil {
		client = http.DefaultClient
	}
	return &RemoteDetector{
		inferenceURL: inferenceURL,
		client:       client,
	}
}

// Predict отправляет изображение как multipart/form-data и разбирает боксы.
func (d *RemoteDetector) Predict(ctx context.Context, img image.Image, confidence float64) ([]entity.Detection, error) {
	encoded, err := imaging.EncodePNG(img)
	if err != nil {
		return nil, err
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "image.png")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(encoded)); err != nil {
		return nil, fmt.Errorf("copy image data: %w", err)
	}
	if err := writer.WriteField("conf", strconv.FormatFloat(confidence, 'f', -1, 64)); err != nil {
		return nil, fmt.Errorf("write conf field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.inferenceURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Detections []remoteBox `json:"detections"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	detections := make([]entity.Detection, 0, len(result.Detections))
	for _, b := range result.Detections {
		detections = append(detections, entity.Detection{
			X1:         b.X1,
			Y1:         b.Y1,
			X2:         b.X2,
			Y2:         b.Y2,
			Confidence: b.Confidence,
		})
	}

	return detections, nil
}

// CheckHealth проверяет /health сервиса инференса.
func (d *RemoteDetector) CheckHealth(ctx context.Context) error {
	u, err := url.Parse(d.inferenceURL)
	if err != nil {
		return fmt.Errorf("parse inference url: %w", err)
	}
	u.Path = "/health"
	u.RawQuery = ""

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ml service unhealthy: %d", resp.StatusCode)
	}

	return nil
}

// Close ничего не делает, моделью владеет сервис.
func (d *RemoteDetector) Close() error {
	return nil
}

var _ port.EyeDetector = (*RemoteDetector)(nil)
