package entity

import "fmt"

// ConfidenceThreshold минимальная уверенность, с которой детектор возвращает бокс.
const ConfidenceThreshold = 0.25

// Detection одна детекция в пиксельных координатах.
type Detection struct {
	X1         float64 // левый край
	Y1         float64 // верхний край
	X2         float64 // правый край
	Y2         float64 // нижний край
	Confidence float64
}

// Center возвращает координаты центра бокса
func (d Detection) Center() Point {
	return Point{X: (d.X1 + d.X2) / 2, Y: (d.Y1 + d.Y2) / 2}
}

// Point точка в пикселях изображения.
type Point struct {
	X float64
	Y float64
}

// String форматирует точку для пользователя, например "Center = (30.0, 30.0)".
func (p Point) String() string {
	return fmt.Sprintf("Center = (%.1f, %.1f)", p.X, p.Y)
}
