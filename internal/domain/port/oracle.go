package port

import (
	"context"
	"errors"

	"github.com/Mishardina/sam-image-labeler/internal/domain/entity"
)

// ErrOracleUnavailable недоступность сервиса сегментации
var ErrOracleUnavailable = errors.New("segmentation oracle is unavailable")

// MaskCandidate маска-кандидат от оракула с оценкой качества
type MaskCandidate struct {
	Mask  *entity.RawMask
	Score float64
}

// SegmentationOracle интерфейс внешнего сервиса сегментации
type SegmentationOracle interface {
	// Segment запрашивает маски-кандидаты по изображению и точкам.
	// Первый элемент списка считается лучшим кандидатом.
	Segment(ctx context.Context, imageData []byte, points []entity.Point) ([]MaskCandidate, error)
}
