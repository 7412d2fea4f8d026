//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"cat-eye-locator/internal/domain/entity"
	"cat-eye-locator/internal/domain/port"
)

// GoCVDetector запускает экспортированную YOLO-модель через OpenCV DNN.
type GoCVDetector struct {
	mu        sync.Mutex // gocv.Net хранит состояние вызова
	net       gocv.Net
	inputSize int
	log       logrus.FieldLogger
}

// NewGoCVDetector загружает ONNX-модель в сеть OpenCV.
func NewGoCVDetector(modelPath string, log logrus.FieldLogger) (*GoCVDetector, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file: %w", err)
	}

	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load network from %s", modelPath)
	}

	errBackend := net.SetPreferableBackend(gocv.NetBackendDefault)
	errTarget := net.SetPreferableTarget(gocv.NetTargetCPU)
	if errBackend != nil || errTarget != nil {
		net.Close()
		return nil, errors.New("failed to set preferable backend or target")
	}

	log.WithField("path", modelPath).Info("opencv network loaded")

	return &GoCVDetector{
		net:       net,
		inputSize: defaultInputSize,
		log:       log,
	}, nil
}

// Predict выполняет один прямой проход.
func (d *GoCVDetector) Predict(ctx context.Context, img image.Image, confidence float64) ([]entity.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	canvas, lb := newLetterbox(img, d.inputSize)

	mat, err := gocv.ImageToMatRGB(canvas)
	if err != nil {
		return nil, fmt.Errorf("convert image: %w", err)
	}
	defer mat.Close()

	// mat в BGR, модель ждёт RGB
	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(d.inputSize, d.inputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.mu.Lock()
	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	// output ссылается на буфер сети, читаем до следующего Forward
	data, dims, err := readOutput(output)
	output.Close()
	d.mu.Unlock()
	if err != nil {
		return nil, err
	}

	return decodeYOLO(data, dims, lb, confidence)
}

func readOutput(output gocv.Mat) ([]float32, []int64, error) {
	ptr, err := output.DataPtrFloat32()
	if err != nil {
		return nil, nil, fmt.Errorf("read output: %w", err)
	}
	data := make([]float32, len(ptr))
	copy(data, ptr)

	sizes := output.Size()
	dims := make([]int64, len(sizes))
	for i, s := range sizes {
		dims[i] = int64(s)
	}

	return data, dims, nil
}

// Close освобождает сеть.
func (d *GoCVDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}

var _ port.EyeDetector = (*GoCVDetector)(nil)
