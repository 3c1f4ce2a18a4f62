package export

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Mishardina/sam-image-labeler/internal/domain/entity"
	"github.com/Mishardina/sam-image-labeler/internal/domain/port"
)

// ZipEncoder собирает архивы датасета в форматах COCO и YOLO
type ZipEncoder struct {
	logger *zap.Logger
}

// NewZipEncoder создаёт сборщик архивов
func NewZipEncoder(logger *zap.Logger) *ZipEncoder {
	return &ZipEncoder{logger: logger}
}

// Encode собирает zip-архив разметки в заданном формате
func (e *ZipEncoder) Encode(ctx context.Context, images []port.ExportImage, classes []entity.ClassDef, format string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	var err error
	switch format {
	case port.FormatCOCO:
		err = e.writeCOCO(ctx, zw, images, classes)
	case port.FormatYOLO:
		err = e.writeYOLO(ctx, zw, images, classes)
	default:
		return nil, port.ErrUnknownFormat
	}
	if err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeImageFile кладёт исходный файл изображения в архив
func writeImageFile(zw *zip.Writer, img port.ExportImage) error {
	data, err := imageBytes(img.DataURL)
	if err != nil {
		return fmt.Errorf("image %s: %w", img.Name, err)
	}

	w, err := zw.Create("images/" + img.Name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// imageBytes восстанавливает исходные байты файла из data URL
func imageBytes(dataURL string) ([]byte, error) {
	_, b64, ok := strings.Cut(dataURL, "base64,")
	if !ok {
		return nil, fmt.Errorf("invalid data url")
	}
	return base64.StdEncoding.DecodeString(b64)
}

// maskSegmentation возвращает контуры маски одним плоским списком координат,
// прямоугольник и площадь в пикселях. Пустая маска даёт пустой список.
func maskSegmentation(mask *entity.RawMask) ([]float64, []float64, float64) {
	polys := maskPolygons(mask)
	if len(polys) == 0 {
		return nil, nil, 0
	}

	var seg []float64
	for _, poly := range polys {
		for _, p := range poly {
			seg = append(seg, float64(p.X), float64(p.Y))
		}
	}

	minX, minY := mask.Width, mask.Height
	maxX, maxY := 0, 0
	area := 0
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if mask.At(x, y) == 0 {
				continue
			}
			area++
			if x < minX {
				minX = x
			}
			if y < minY {
				minY = y
			}
			if x > maxX {
				maxX = x
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	bbox := []float64{float64(minX), float64(minY), float64(maxX - minX + 1), float64(maxY - minY + 1)}
	return seg, bbox, float64(area)
}

// Проверка реализации интерфейса
var _ port.DatasetEncoder = (*ZipEncoder)(nil)
