package app

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"

	"github.com/up-zero/gotool/imageutil"
	"go.uber.org/zap"

	"github.com/Mishardina/sam-image-labeler/internal/domain/entity"
)

// Прозрачность слоёв при отрисовке
const (
	opacityBase        = 1.0
	opacityConfirmed   = 0.5
	opacityHighlighted = 0.9
	opacityPending     = 1.0
)

// pointMarkerRadius радиус маркера точки в пикселях изображения
const pointMarkerRadius = 5

// Цвета маркеров точек
var (
	positiveMarker = color.RGBA{G: 255, A: 255}
	negativeMarker = color.RGBA{R: 255, A: 255}
)

// DrawOpKind тип операции отрисовки
type DrawOpKind string

const (
	OpBaseImage     DrawOpKind = "base"
	OpConfirmedMask DrawOpKind = "confirmed_mask"
	OpPendingMask   DrawOpKind = "pending_mask"
	OpPointMarker   DrawOpKind = "point_marker"
)

// DrawOp одна операция отрисовки; порядок операций в списке — это порядок слоёв
type DrawOp struct {
	Kind    DrawOpKind
	Image   image.Image // слой для подложки и масок
	Opacity float64     // множитель к собственной альфе слоя
	Center  image.Point // центр маркера точки
	Color   color.RGBA  // цвет маркера точки
}

// RenderService сводит состояние изображения сессии в итоговую картинку
type RenderService struct {
	sessions *SessionService
	logger   *zap.Logger
}

// NewRenderService создаёт сервис отрисовки
func NewRenderService(sessions *SessionService, logger *zap.Logger) *RenderService {
	return &RenderService{
		sessions: sessions,
		logger:   logger,
	}
}

// DrawList возвращает слои записи в строгом порядке отрисовки: подложка,
// подтверждённые маски по порядку добавления, ожидаемая маска, маркеры точек.
// Повторный вызов без изменений состояния возвращает такой же список.
func (r *RenderService) DrawList(entry *entity.ImageEntry) []DrawOp {
	ops := make([]DrawOp, 0, 2+len(entry.ConfirmedMasks)+len(entry.Points))

	ops = append(ops, DrawOp{Kind: OpBaseImage, Image: entry.Image, Opacity: opacityBase})

	for i, m := range entry.ConfirmedMasks {
		opacity := opacityConfirmed
		if i == entry.HighlightedIndex {
			opacity = opacityHighlighted
		}
		ops = append(ops, DrawOp{Kind: OpConfirmedMask, Image: m.Mask.Img, Opacity: opacity})
	}

	if entry.PendingMask != nil {
		ops = append(ops, DrawOp{Kind: OpPendingMask, Image: entry.PendingMask.Img, Opacity: opacityPending})
	}

	// Маркеры рисуются последними, чтобы маски их не перекрывали
	for _, p := range entry.Points {
		marker := positiveMarker
		if p.Label == entity.LabelNegative {
			marker = negativeMarker
		}
		ops = append(ops, DrawOp{Kind: OpPointMarker, Center: image.Pt(p.X, p.Y), Color: marker})
	}

	return ops
}

// Flatten сводит список слоёв в одну картинку
func (r *RenderService) Flatten(entry *entity.ImageEntry) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, entry.Width, entry.Height))
	for _, op := range r.DrawList(entry) {
		switch op.Kind {
		case OpPointMarker:
			imageutil.DrawFilledCircle(dst, op.Center, pointMarkerRadius, op.Color)
		default:
			blendOver(dst, op.Image, op.Opacity)
		}
	}
	return dst
}

// RenderPNG отрисовывает изображение сессии и кодирует результат в PNG
func (r *RenderService) RenderPNG(ctx context.Context, sessionID string, imageID int) ([]byte, error) {
	r.sessions.mu.Lock()
	entry, err := r.sessions.entry(ctx, sessionID, imageID)
	if err != nil {
		r.sessions.mu.Unlock()
		return nil, err
	}
	flat := r.Flatten(entry)
	r.sessions.mu.Unlock()

	var buf bytes.Buffer
	if err := png.Encode(&buf, flat); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// blendOver накладывает слой поверх dst с учётом множителя прозрачности
func blendOver(dst *image.RGBA, src image.Image, opacity float64) {
	b := dst.Bounds().Intersect(src.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			s := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			if s.A == 0 {
				continue
			}

			alpha := float64(s.A) / 255 * opacity
			d := dst.RGBAAt(x, y)
			dst.SetRGBA(x, y, color.RGBA{
				R: blendChannel(s.R, d.R, alpha),
				G: blendChannel(s.G, d.G, alpha),
				B: blendChannel(s.B, d.B, alpha),
				A: 255,
			})
		}
	}
}

func blendChannel(src, dst uint8, alpha float64) uint8 {
	return uint8(float64(src)*alpha + float64(dst)*(1-alpha) + 0.5)
}
