package export

import (
	"archive/zip"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Mishardina/sam-image-labeler/internal/domain/entity"
	"github.com/Mishardina/sam-image-labeler/internal/domain/port"
)

// writeYOLO собирает архив сегментации в формате YOLO:
// labels/<имя>.txt с нормированными контурами, classes.txt и исходные изображения.
func (e *ZipEncoder) writeYOLO(ctx context.Context, zw *zip.Writer, images []port.ExportImage, classes []entity.ClassDef) error {
	classIndex := make(map[string]int, len(classes))
	for i, c := range classes {
		classIndex[c.Name] = i
	}

	w, err := zw.Create("classes.txt")
	if err != nil {
		return err
	}
	for _, c := range classes {
		if _, err := fmt.Fprintln(w, c.Name); err != nil {
			return err
		}
	}

	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return err
		}

		lw, err := zw.Create("labels/" + baseName(img.Name) + ".txt")
		if err != nil {
			return err
		}

		for _, m := range img.Masks {
			polys := maskPolygons(m.Mask.Membership())
			if len(polys) == 0 {
				continue
			}
			idx, ok := classIndex[m.ClassName]
			if !ok {
				e.logger.Warn("mask class is not in registry, skipped",
					zap.String("image", img.Name),
					zap.String("class", m.ClassName))
				continue
			}

			// Одна строка на маску: номер класса и контуры одним списком,
			// координаты нормируются к размеру изображения
			var sb strings.Builder
			fmt.Fprintf(&sb, "%d", idx)
			for _, poly := range polys {
				for _, p := range poly {
					fmt.Fprintf(&sb, " %.6f %.6f",
						float64(p.X)/float64(img.Width),
						float64(p.Y)/float64(img.Height))
				}
			}
			if _, err := fmt.Fprintln(lw, sb.String()); err != nil {
				return err
			}
		}

		if err := writeImageFile(zw, img); err != nil {
			return err
		}
	}
	return nil
}

// baseName имя файла без расширения
func baseName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
