package port

import (
	"context"
	"errors"

	"github.com/Mishardina/sam-image-labeler/internal/domain/entity"
)

// Форматы выгрузки датасета
const (
	FormatCOCO = "coco"
	FormatYOLO = "yolo"
)

// ErrUnknownFormat неизвестный формат выгрузки
var ErrUnknownFormat = errors.New("unknown export format")

// ExportImage изображение с подтверждёнными масками для выгрузки
type ExportImage struct {
	Name    string
	DataURL string
	Width   int
	Height  int
	Masks   []entity.ConfirmedMask
}

// DatasetEncoder интерфейс сборщика архива датасета
type DatasetEncoder interface {
	// Encode собирает zip-архив разметки в заданном формате
	Encode(ctx context.Context, images []ExportImage, classes []entity.ClassDef, format string) ([]byte, error)
}
