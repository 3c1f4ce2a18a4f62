package export

import (
	"archive/zip"
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/Mishardina/sam-image-labeler/internal/domain/entity"
	"github.com/Mishardina/sam-image-labeler/internal/domain/port"
)

// Структуры файла annotations.json формата COCO
type cocoDataset struct {
	Images      []cocoImage      `json:"images"`
	Annotations []cocoAnnotation `json:"annotations"`
	Categories  []cocoCategory   `json:"categories"`
}

type cocoImage struct {
	ID       int    `json:"id"`
	FileName string `json:"file_name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

type cocoAnnotation struct {
	ID           int         `json:"id"`
	ImageID      int         `json:"image_id"`
	CategoryID   int         `json:"category_id"`
	Segmentation [][]float64 `json:"segmentation"`
	BBox         []float64   `json:"bbox"`
	Area         float64     `json:"area"`
	IsCrowd      int         `json:"iscrowd"`
}

type cocoCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// writeCOCO собирает архив в формате COCO
func (e *ZipEncoder) writeCOCO(ctx context.Context, zw *zip.Writer, images []port.ExportImage, classes []entity.ClassDef) error {
	// Категории нумеруются с единицы в порядке реестра
	classIndex := make(map[string]int, len(classes))
	ds := cocoDataset{
		Images:      []cocoImage{},
		Annotations: []cocoAnnotation{},
		Categories:  make([]cocoCategory, 0, len(classes)),
	}
	for i, c := range classes {
		classIndex[c.Name] = i + 1
		ds.Categories = append(ds.Categories, cocoCategory{ID: i + 1, Name: c.Name})
	}

	annID := 1
	for imgID, img := range images {
		if err := ctx.Err(); err != nil {
			return err
		}

		ds.Images = append(ds.Images, cocoImage{
			ID:       imgID,
			FileName: img.Name,
			Width:    img.Width,
			Height:   img.Height,
		})

		for _, m := range img.Masks {
			seg, bbox, area := maskSegmentation(m.Mask.Membership())
			if len(seg) == 0 {
				continue // маска без пикселей не даёт аннотации
			}
			catID, ok := classIndex[m.ClassName]
			if !ok {
				e.logger.Warn("mask class is not in registry, skipped",
					zap.String("image", img.Name),
					zap.String("class", m.ClassName))
				continue
			}

			ds.Annotations = append(ds.Annotations, cocoAnnotation{
				ID:           annID,
				ImageID:      imgID,
				CategoryID:   catID,
				Segmentation: [][]float64{seg},
				BBox:         bbox,
				Area:         area,
				IsCrowd:      0,
			})
			annID++
		}

		if err := writeImageFile(zw, img); err != nil {
			return err
		}
	}

	w, err := zw.Create("annotations.json")
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(&ds)
}
