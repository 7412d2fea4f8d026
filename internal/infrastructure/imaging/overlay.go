package imaging

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"cat-eye-locator/internal/domain/entity"
)

const (
	OutlineWidth = 3
	DotRadius    = 5
)

var (
	OutlineColor = color.RGBA{R: 255, A: 255}
	DotColor     = color.RGBA{B: 255, A: 255}
)

// Overlay возвращает копию src с рамкой вокруг детекции и отмеченным центром.
// Сам src не изменяется.
func Overlay(src image.Image, det entity.Detection) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)

	drawOutline(dst, det, OutlineWidth, OutlineColor)
	drawDot(dst, det.Center(), DotRadius, DotColor)

	return dst
}

// drawOutline рисует рамку внутрь от краёв бокса, края включительно.
func drawOutline(dst *image.RGBA, det entity.Detection, width int, c color.RGBA) {
	x1 := int(math.Round(det.X1))
	y1 := int(math.Round(det.Y1))
	x2 := int(math.Round(det.X2))
	y2 := int(math.Round(det.Y2))

	for i := 0; i < width; i++ {
		l, t, r, btm := x1+i, y1+i, x2-i, y2-i
		if l > r || t > btm {
			return
		}
		for x := l; x <= r; x++ {
			setPixel(dst, x, t, c)
			setPixel(dst, x, btm, c)
		}
		for y := t; y <= btm; y++ {
			setPixel(dst, l, y, c)
			setPixel(dst, r, y, c)
		}
	}
}

func drawDot(dst *image.RGBA, center entity.Point, radius int, c color.RGBA) {
	r := float64(radius)
	for y := int(math.Floor(center.Y - r)); y <= int(math.Ceil(center.Y+r)); y++ {
		for x := int(math.Floor(center.X - r)); x <= int(math.Ceil(center.X+r)); x++ {
			dx := float64(x) - center.X
			dy := float64(y) - center.Y
			if dx*dx+dy*dy <= r*r {
				setPixel(dst, x, y, c)
			}
		}
	}
}

func setPixel(dst *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(dst.Rect) {
		dst.SetRGBA(x, y, c)
	}
}
