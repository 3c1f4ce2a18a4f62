//go:build gocv
// +build gocv

package export

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/Mishardina/sam-image-labeler/internal/domain/entity"
)

// maskPolygons находит внешние контуры компонент маски через OpenCV
func maskPolygons(mask *entity.RawMask) [][]image.Point {
	data := make([]byte, len(mask.Alpha))
	copy(data, mask.Alpha)

	mat, err := gocv.NewMatFromBytes(mask.Height, mask.Width, gocv.MatTypeCV8U, data)
	if err != nil {
		return nil
	}
	defer mat.Close()

	contours := gocv.FindContours(mat, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	polys := make([][]image.Point, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		pts := contours.At(i).ToPoints()
		if len(pts) < 3 {
			continue
		}
		polys = append(polys, pts)
	}
	if len(polys) == 0 {
		return nil
	}
	return polys
}
