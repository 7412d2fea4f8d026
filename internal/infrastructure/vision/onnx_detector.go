package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	ort "github.com/yalue/onnxruntime_go"

	"cat-eye-locator/internal/domain/entity"
	"cat-eye-locator/internal/domain/port"
)

// ONNXDetector запускает экспортированную YOLO-модель через onnxruntime.
type ONNXDetector struct {
	mu          sync.Mutex // сессия привязана к одной паре тензоров
	session     *ort.AdvancedSession
	input       *ort.Tensor[float32]
	output      *ort.Tensor[float32]
	inputSize   int
	outputShape ort.Shape
	log         logrus.FieldLogger
}

// NewONNXDetector загружает модель один раз. libPath, если задан, указывает
// путь к разделяемой библиотеке onnxruntime.
func NewONNXDetector(modelPath, libPath string, log logrus.FieldLogger) (*ONNXDetector, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file: %w", err)
	}

	if libPath != "" {
		ort.SetSharedLibraryPath(libPath)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("read model info: %w", err)
	}
	if len(inputs) != 1 || len(outputs) < 1 {
		return nil, fmt.Errorf("expected one input and at least one output, got %d and %d", len(inputs), len(outputs))
	}

	inputSize := defaultInputSize
	if dims := inputs[0].Dimensions; len(dims) == 4 && dims[2] > 0 {
		inputSize = int(dims[2])
	}

	outputShape := outputs[0].Dimensions
	for _, d := range outputShape {
		if d <= 0 {
			return nil, fmt.Errorf("dynamic output shape %v is not supported, export with a fixed image size", outputShape)
		}
	}

	input, err := ort.NewTensor(ort.NewShape(1, 3, int64(inputSize), int64(inputSize)), make([]float32, 3*inputSize*inputSize))
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}

	output, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("create session options: %w", err)
	}
	defer options.Destroy()

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{inputs[0].Name},
		[]string{outputs[0].Name},
		[]ort.Value{input},
		[]ort.Value{output},
		options,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("create session: %w", err)
	}

	log.WithFields(logrus.Fields{
		"path":       modelPath,
		"input_size": inputSize,
		"output":     outputShape.String(),
	}).Info("onnx model loaded")

	return &ONNXDetector{
		session:     session,
		input:       input,
		output:      output,
		inputSize:   inputSize,
		outputShape: outputShape,
		log:         log,
	}, nil
}

// Predict выполняет один прямой проход.
func (d *ONNXDetector) Predict(ctx context.Context, img image.Image, confidence float64) ([]entity.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	canvas, lb := newLetterbox(img, d.inputSize)
	tensor := toCHW(canvas)

	d.mu.Lock()
	copy(d.input.GetData(), tensor)
	if err := d.session.Run(); err != nil {
		d.mu.Unlock()
		return nil, fmt.Errorf("run session: %w", err)
	}
	raw := make([]float32, len(d.output.GetData()))
	copy(raw, d.output.GetData())
	d.mu.Unlock()

	return decodeYOLO(raw, d.outputShape, lb, confidence)
}

// Close освобождает сессию и её тензоры.
func (d *ONNXDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return errors.Join(
		d.session.Destroy(),
		d.input.Destroy(),
		d.output.Destroy(),
		ort.DestroyEnvironment(),
	)
}

var _ port.EyeDetector = (*ONNXDetector)(nil)
