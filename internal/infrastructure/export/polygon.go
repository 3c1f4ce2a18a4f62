//go:build !gocv
// +build !gocv

package export

import (
	"image"

	"github.com/Mishardina/sam-image-labeler/internal/domain/entity"
)

// maskPolygons находит внешние контуры компонент маски обходом Мура.
// Контуры короче трёх точек отбрасываются, порядок компонент — построчный.
func maskPolygons(mask *entity.RawMask) [][]image.Point {
	visited := make([]bool, len(mask.Alpha))

	var polys [][]image.Point
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if mask.At(x, y) == 0 || visited[y*mask.Width+x] {
				continue
			}
			contour := traceBoundary(mask, x, y)
			fillComponent(mask, visited, x, y)
			if len(contour) >= 3 {
				polys = append(polys, contour)
			}
		}
	}
	return polys
}

// Соседи по часовой стрелке, начиная с западного
var mooreNeighbors = [8]image.Point{
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1},
}

// traceBoundary обходит внешнюю границу компоненты от стартового пикселя.
// Скан идёт построчно слева направо, поэтому вход в компоненту всегда с запада.
func traceBoundary(mask *entity.RawMask, sx, sy int) []image.Point {
	start := image.Pt(sx, sy)
	contour := []image.Point{start}

	backtrack := image.Pt(sx-1, sy)
	cur := start

	limit := 4 * len(mask.Alpha)
	for step := 0; step < limit; step++ {
		// Следующий пиксель границы ищется по часовой стрелке от точки возврата
		dir := neighborIndex(cur, backtrack)
		next := cur
		found := false
		for i := 1; i <= 8; i++ {
			cand := cur.Add(mooreNeighbors[(dir+i)%8])
			if foreground(mask, cand) {
				next = cand
				backtrack = cur.Add(mooreNeighbors[(dir+i-1)%8])
				found = true
				break
			}
		}
		if !found {
			return contour // изолированный пиксель
		}
		if next == start {
			return contour
		}
		contour = append(contour, next)
		cur = next
	}
	return contour
}

// neighborIndex номер соседа p в кольце вокруг cur
func neighborIndex(cur, p image.Point) int {
	for i, off := range mooreNeighbors {
		if cur.Add(off) == p {
			return i
		}
	}
	return 0
}

// foreground сообщает, что пиксель принадлежит маске
func foreground(mask *entity.RawMask, p image.Point) bool {
	if p.X < 0 || p.Y < 0 || p.X >= mask.Width || p.Y >= mask.Height {
		return false
	}
	return mask.At(p.X, p.Y) > 0
}

// fillComponent помечает восьмисвязную компоненту как пройденную
func fillComponent(mask *entity.RawMask, visited []bool, sx, sy int) {
	stack := []image.Point{image.Pt(sx, sy)}
	visited[sy*mask.Width+sx] = true

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, off := range mooreNeighbors {
			n := p.Add(off)
			if !foreground(mask, n) {
				continue
			}
			i := n.Y*mask.Width + n.X
			if visited[i] {
				continue
			}
			visited[i] = true
			stack = append(stack, n)
		}
	}
}
