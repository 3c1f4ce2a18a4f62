package entity

import "image"

// FixedBlendAlpha альфа, с которой перекрашенная маска ложится на изображение
const FixedBlendAlpha = 128

// RawMask маска принадлежности пикселей сегменту, полученная от оракула
type RawMask struct {
	Width  int
	Height int
	Alpha  []uint8 // 0 — вне сегмента, любое другое значение — внутри
}

// NewRawMask создаёт пустую маску заданного размера
func NewRawMask(width, height int) *RawMask {
	return &RawMask{
		Width:  width,
		Height: height,
		Alpha:  make([]uint8, width*height),
	}
}

// At возвращает значение принадлежности пикселя
func (m *RawMask) At(x, y int) uint8 {
	return m.Alpha[y*m.Width+x]
}

// Set задаёт значение принадлежности пикселя
func (m *RawMask) Set(x, y int, v uint8) {
	m.Alpha[y*m.Width+x] = v
}

// Empty сообщает, что в маске нет ни одного пикселя сегмента
func (m *RawMask) Empty() bool {
	for _, a := range m.Alpha {
		if a > 0 {
			return false
		}
	}
	return true
}

// ColoredMask маска, перекрашенная в один цвет с фиксированной прозрачностью
type ColoredMask struct {
	Img *image.NRGBA
}

// Recolor перекрашивает маску: пиксели сегмента получают цвет c альфой
// FixedBlendAlpha независимо от исходного значения, остальные полностью прозрачны.
func Recolor(raw *RawMask, c RGB) *ColoredMask {
	img := image.NewNRGBA(image.Rect(0, 0, raw.Width, raw.Height))
	for y := 0; y < raw.Height; y++ {
		for x := 0; x < raw.Width; x++ {
			if raw.At(x, y) == 0 {
				continue
			}
			i := img.PixOffset(x, y)
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = FixedBlendAlpha
		}
	}
	return &ColoredMask{Img: img}
}

// Membership восстанавливает маску принадлежности из альфа-канала
func (m *ColoredMask) Membership() *RawMask {
	b := m.Img.Bounds()
	raw := NewRawMask(b.Dx(), b.Dy())
	for y := 0; y < raw.Height; y++ {
		for x := 0; x < raw.Width; x++ {
			raw.Set(x, y, m.Img.Pix[m.Img.PixOffset(x, y)+3])
		}
	}
	return raw
}

// ConfirmedMask принятая маска, привязанная к классу разметки
type ConfirmedMask struct {
	Mask      *ColoredMask
	ClassName string
	Color     RGB // снимок цвета класса на момент подтверждения
}
