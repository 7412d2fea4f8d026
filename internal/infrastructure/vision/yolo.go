package vision

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"

	"cat-eye-locator/internal/domain/entity"
)

const (
	defaultInputSize = 640
	iouThreshold     = 0.7
	maxDetections    = 300
)

var padColor = color.RGBA{R: 114, G: 114, B: 114, A: 255}

// letterbox переводит координаты между исходным изображением и квадратным входом модели.
type letterbox struct {
	scale float64
	padX  float64
	padY  float64
	origW int
	origH int
}

// newLetterbox вписывает img в холст size на size с сохранением пропорций
// и заливает остаток серым.
func newLetterbox(img image.Image, size int) (*image.RGBA, letterbox) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	scale := math.Min(float64(size)/float64(w), float64(size)/float64(h))
	newW := int(math.Round(float64(w) * scale))
	newH := int(math.Round(float64(h) * scale))
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	padX := math.Round(float64(size-newW)/2 - 0.1)
	padY := math.Round(float64(size-newH)/2 - 0.1)

	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: padColor}, image.Point{}, draw.Src)

	resized := resize.Resize(uint(newW), uint(newH), img, resize.Bilinear)
	offset := image.Pt(int(padX), int(padY))
	draw.Draw(canvas, image.Rectangle{Min: offset, Max: offset.Add(resized.Bounds().Size())}, resized, resized.Bounds().Min, draw.Src)

	return canvas, letterbox{scale: scale, padX: padX, padY: padY, origW: w, origH: h}
}

// toCHW превращает RGBA-холст в планарный RGB-тензор со значениями в [0, 1].
func toCHW(canvas *image.RGBA) []float32 {
	b := canvas.Bounds()
	w, h := b.Dx(), b.Dy()
	plane := w * h
	out := make([]float32, 3*plane)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := canvas.RGBAAt(b.Min.X+x, b.Min.Y+y)
			i := y*w + x
			out[i] = float32(c.R) / 255
			out[plane+i] = float32(c.G) / 255
			out[2*plane+i] = float32(c.B) / 255
		}
	}

	return out
}

// toImage переводит бокс из координат входа модели обратно на исходное изображение.
func (l letterbox) toImage(x1, y1, x2, y2 float64) (float64, float64, float64, float64) {
	fx := func(v float64) float64 { return clamp((v-l.padX)/l.scale, 0, float64(l.origW)) }
	fy := func(v float64) float64 { return clamp((v-l.padY)/l.scale, 0, float64(l.origH)) }
	return fx(x1), fy(y1), fx(x2), fy(y2)
}

type candidate struct {
	x1, y1, x2, y2 float64
	score          float64
}

// decodeYOLO разбирает выход YOLOv8 формы [1, 4+classes, anchors] (или
// транспонированный) и возвращает детекции после NMS, по убыванию уверенности.
func decodeYOLO(data []float32, dims []int64, lb letterbox, confidence float64) ([]entity.Detection, error) {
	if len(dims) != 3 || dims[0] != 1 {
		return nil, fmt.Errorf("unexpected output shape %v", dims)
	}

	channels, anchors := int(dims[1]), int(dims[2])
	transposed := false
	if channels > anchors {
		channels, anchors = anchors, channels
		transposed = true
	}
	if channels < 5 {
		return nil, fmt.Errorf("output has %d channels, need at least 5", channels)
	}
	if len(data) < channels*anchors {
		return nil, fmt.Errorf("output has %d values, want %d", len(data), channels*anchors)
	}

	at := func(c, a int) float64 {
		if transposed {
			return float64(data[a*channels+c])
		}
		return float64(data[c*anchors+a])
	}

	candidates := make([]candidate, 0, 64)
	for a := 0; a < anchors; a++ {
		score := 0.0
		for c := 4; c < channels; c++ {
			if v := at(c, a); v > score {
				score = v
			}
		}
		if score <= confidence {
			continue
		}

		cx, cy, w, h := at(0, a), at(1, a), at(2, a), at(3, a)
		candidates = append(candidates, candidate{
			x1:    cx - w/2,
			y1:    cy - h/2,
			x2:    cx + w/2,
			y2:    cy + h/2,
			score: score,
		})
	}

	kept := nms(candidates, iouThreshold, maxDetections)

	detections := make([]entity.Detection, 0, len(kept))
	for _, c := range kept {
		x1, y1, x2, y2 := lb.toImage(c.x1, c.y1, c.x2, c.y2)
		detections = append(detections, entity.Detection{
			X1:         x1,
			Y1:         y1,
			X2:         x2,
			Y2:         y2,
			Confidence: c.score,
		})
	}

	return detections, nil
}

// nms оставляет боксы с наибольшей уверенностью и отбрасывает те, что
// перекрывают уже оставленный бокс больше чем на iou.
func nms(candidates []candidate, iou float64, limit int) []candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	kept := make([]candidate, 0, len(candidates))
	for _, c := range candidates {
		if len(kept) == limit {
			break
		}
		overlaps := false
		for _, k := range kept {
			if intersectionOverUnion(c, k) > iou {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, c)
		}
	}

	return kept
}

func intersectionOverUnion(a, b candidate) float64 {
	ix := math.Max(0, math.Min(a.x2, b.x2)-math.Max(a.x1, b.x1))
	iy := math.Max(0, math.Min(a.y2, b.y2)-math.Max(a.y1, b.y1))
	inter := ix * iy

	union := (a.x2-a.x1)*(a.y2-a.y1) + (b.x2-b.x1)*(b.y2-b.y1) - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
