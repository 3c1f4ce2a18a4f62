//go:build !gocv
// +build !gocv

package export

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Mishardina/sam-image-labeler/internal/domain/entity"
)

func fillRect(mask *entity.RawMask, x0, y0, x1, y1 int) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			mask.Set(x, y, 255)
		}
	}
}

func TestMaskPolygons_Rectangle(t *testing.T) {
	mask := entity.NewRawMask(8, 8)
	fillRect(mask, 2, 2, 5, 5)

	polys := maskPolygons(mask)
	require.Len(t, polys, 1)

	// Контур прямоугольника 4x4 — двенадцать пикселей периметра
	contour := polys[0]
	require.Len(t, contour, 12)

	for _, corner := range []image.Point{{2, 2}, {5, 2}, {5, 5}, {2, 5}} {
		require.Contains(t, contour, corner)
	}

	// Каждая точка контура лежит внутри маски
	for _, p := range contour {
		require.Positive(t, mask.At(p.X, p.Y))
	}
}

func TestMaskPolygons_TwoComponents(t *testing.T) {
	mask := entity.NewRawMask(16, 8)
	fillRect(mask, 1, 1, 4, 4)
	fillRect(mask, 9, 2, 13, 6)

	polys := maskPolygons(mask)
	require.Len(t, polys, 2)

	// Компоненты идут в порядке построчного скана
	require.Equal(t, image.Pt(1, 1), polys[0][0])
	require.Equal(t, image.Pt(9, 2), polys[1][0])
}

func TestMaskPolygons_IgnoresTinyComponents(t *testing.T) {
	mask := entity.NewRawMask(8, 8)
	mask.Set(3, 3, 255) // одиночный пиксель не даёт контура

	require.Empty(t, maskPolygons(mask))
}

func TestMaskPolygons_EmptyMask(t *testing.T) {
	require.Empty(t, maskPolygons(entity.NewRawMask(8, 8)))
}

func TestMaskPolygons_FullMask(t *testing.T) {
	mask := entity.NewRawMask(4, 4)
	fillRect(mask, 0, 0, 3, 3)

	polys := maskPolygons(mask)
	require.Len(t, polys, 1)
	require.Contains(t, polys[0], image.Pt(0, 0))
	require.Contains(t, polys[0], image.Pt(3, 3))
}
