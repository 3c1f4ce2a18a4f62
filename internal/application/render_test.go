package app

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Mishardina/sam-image-labeler/internal/domain/entity"
)

// renderEntry собирает запись с двумя подтверждёнными масками,
// ожидаемой маской и двумя точками
func renderEntry(t *testing.T) *entity.ImageEntry {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	entry := entity.NewImageEntry(0, "a.png", "data:image/png;base64,x", img, nil)

	for _, class := range []entity.ClassDef{
		{Name: "cat", Color: entity.RGB{R: 255}},
		{Name: "dog", Color: entity.RGB{B: 255}},
	} {
		version := entry.AddPoint(entity.Point{X: 1, Y: 1, Label: entity.LabelPositive})
		raw := entity.NewRawMask(8, 8)
		raw.Set(2, 2, 255)
		entry.ApplyPending(version, raw, entity.Recolor(raw, entity.RGB{R: 255}), 0.9)
		require.NoError(t, entry.Confirm(class))
	}

	entry.AddPoint(entity.Point{X: 3, Y: 3, Label: entity.LabelPositive})
	version := entry.AddPoint(entity.Point{X: 4, Y: 4, Label: entity.LabelNegative})
	raw := entity.NewRawMask(8, 8)
	raw.Set(5, 5, 255)
	entry.ApplyPending(version, raw, entity.Recolor(raw, entity.RGB{R: 255}), 0.7)

	return entry
}

func TestRenderService_DrawListOrder(t *testing.T) {
	svc := NewRenderService(nil, zap.NewNop())
	entry := renderEntry(t)

	ops := svc.DrawList(entry)
	require.Len(t, ops, 6)

	require.Equal(t, OpBaseImage, ops[0].Kind)
	require.Equal(t, 1.0, ops[0].Opacity)

	require.Equal(t, OpConfirmedMask, ops[1].Kind)
	require.Equal(t, 0.5, ops[1].Opacity)
	require.Equal(t, OpConfirmedMask, ops[2].Kind)
	require.Equal(t, 0.5, ops[2].Opacity)

	require.Equal(t, OpPendingMask, ops[3].Kind)
	require.Equal(t, 1.0, ops[3].Opacity)

	// Маркеры всегда последние, цвет зависит от метки
	require.Equal(t, OpPointMarker, ops[4].Kind)
	require.Equal(t, image.Pt(3, 3), ops[4].Center)
	require.Equal(t, positiveMarker, ops[4].Color)
	require.Equal(t, OpPointMarker, ops[5].Kind)
	require.Equal(t, image.Pt(4, 4), ops[5].Center)
	require.Equal(t, negativeMarker, ops[5].Color)
}

func TestRenderService_HighlightRaisesOpacity(t *testing.T) {
	svc := NewRenderService(nil, zap.NewNop())
	entry := renderEntry(t)
	require.NoError(t, entry.ToggleHighlight(1))

	ops := svc.DrawList(entry)
	require.Equal(t, 0.5, ops[1].Opacity)
	require.Equal(t, 0.9, ops[2].Opacity)

	// Повторное переключение возвращает обычную прозрачность
	require.NoError(t, entry.ToggleHighlight(1))
	ops = svc.DrawList(entry)
	require.Equal(t, 0.5, ops[2].Opacity)
}

func TestRenderService_DrawListIdempotent(t *testing.T) {
	svc := NewRenderService(nil, zap.NewNop())
	entry := renderEntry(t)

	first := svc.DrawList(entry)
	second := svc.DrawList(entry)
	require.Equal(t, first, second)
}

// grayEntry однотонная подложка без точек для проверки смешивания
func grayEntry(level uint8) *entity.ImageEntry {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	for x := 0; x < 2; x++ {
		i := img.PixOffset(x, 0)
		img.Pix[i+0] = level
		img.Pix[i+1] = level
		img.Pix[i+2] = level
		img.Pix[i+3] = 255
	}
	return entity.NewImageEntry(0, "g.png", "data:image/png;base64,x", img, nil)
}

func TestRenderService_FlattenBlendsPendingMask(t *testing.T) {
	svc := NewRenderService(nil, zap.NewNop())
	entry := grayEntry(100)

	// Маска публикуется без точек, чтобы маркеры не перекрывали проверяемые пиксели
	raw := entity.NewRawMask(2, 1)
	raw.Set(0, 0, 255)
	entry.ApplyPending(entry.Version(), raw, entity.Recolor(raw, entity.RGB{R: 255}), 0.9)

	flat := svc.Flatten(entry)

	// Красная маска с альфой 128 поверх серого 100:
	// канал = src*128/255 + dst*127/255, с округлением
	got := flat.RGBAAt(0, 0)
	require.Equal(t, uint8(178), got.R)
	require.Equal(t, uint8(50), got.G)
	require.Equal(t, uint8(50), got.B)
	require.Equal(t, uint8(255), got.A)

	// Пиксель вне маски остаётся цветом подложки
	require.Equal(t, uint8(100), flat.RGBAAt(1, 0).R)
	require.Equal(t, uint8(100), flat.RGBAAt(1, 0).G)
}

func TestRenderService_FlattenHalvesConfirmedOpacity(t *testing.T) {
	svc := NewRenderService(nil, zap.NewNop())
	entry := grayEntry(100)

	raw := entity.NewRawMask(2, 1)
	raw.Set(0, 0, 255)
	entry.ApplyPending(entry.Version(), raw, entity.Recolor(raw, entity.RGB{R: 255}), 0.9)
	require.NoError(t, entry.Confirm(entity.ClassDef{Name: "cat", Color: entity.RGB{R: 255}}))

	flat := svc.Flatten(entry)

	// Подтверждённая маска рисуется с половинной непрозрачностью:
	// эффективная альфа 128/255 * 0.5
	got := flat.RGBAAt(0, 0)
	require.Equal(t, uint8(139), got.R)
	require.Equal(t, uint8(75), got.G)
	require.Equal(t, uint8(75), got.B)
}

func TestRenderService_FlattenEncodesToPNG(t *testing.T) {
	svc := NewRenderService(nil, zap.NewNop())
	entry := grayEntry(100)

	flat := svc.Flatten(entry)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, flat))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 2, 1), decoded.Bounds())
}
