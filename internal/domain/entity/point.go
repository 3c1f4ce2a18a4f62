package entity

import (
	"fmt"
	"math"
)

// PointLabel метка затравочной точки
type PointLabel string

const (
	LabelPositive PointLabel = "positive" // точка внутри объекта
	LabelNegative PointLabel = "negative" // точка вне объекта
)

// ParsePointLabel разбирает метку точки из строки
func ParsePointLabel(s string) (PointLabel, error) {
	switch PointLabel(s) {
	case LabelPositive, LabelNegative:
		return PointLabel(s), nil
	default:
		return "", fmt.Errorf("unknown point label %q", s)
	}
}

// Point затравочная точка в пиксельных координатах изображения
type Point struct {
	X     int
	Y     int
	Label PointLabel
}

// PointerEvent клик указателя в координатах окна клиента
type PointerEvent struct {
	ClientX float64
	ClientY float64
	OriginX float64 // левый край холста в окне
	OriginY float64 // верхний край холста в окне
}

// MapPointerEvent переводит клик из координат окна в пиксели изображения.
// Результат округляется и зажимается в границы изображения, метку ставит вызывающий.
func MapPointerEvent(ev PointerEvent, displayW, displayH, imageW, imageH int) Point {
	scaleX := float64(imageW) / float64(displayW)
	scaleY := float64(imageH) / float64(displayH)

	x := int(math.Round((ev.ClientX - ev.OriginX) * scaleX))
	y := int(math.Round((ev.ClientY - ev.OriginY) * scaleY))

	return Point{
		X: clampInt(x, 0, imageW-1),
		Y: clampInt(y, 0, imageH-1),
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
