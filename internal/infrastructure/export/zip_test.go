//go:build !gocv
// +build !gocv

package export

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Mishardina/sam-image-labeler/internal/domain/entity"
	"github.com/Mishardina/sam-image-labeler/internal/domain/port"
)

// exportFixture изображение 8x8 с одной подтверждённой маской класса cat
func exportFixture(t *testing.T) ([]port.ExportImage, []entity.ClassDef) {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 8, 8))))
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	raw := entity.NewRawMask(8, 8)
	fillRect(raw, 2, 2, 5, 5)

	classes := []entity.ClassDef{
		{Name: "cat", Color: entity.RGB{R: 255}},
		{Name: "dog", Color: entity.RGB{G: 255}},
	}

	images := []port.ExportImage{{
		Name:    "photo.png",
		DataURL: dataURL,
		Width:   8,
		Height:  8,
		Masks: []entity.ConfirmedMask{{
			Mask:      entity.Recolor(raw, classes[0].Color),
			ClassName: "cat",
			Color:     classes[0].Color,
		}},
	}}
	return images, classes
}

func readArchive(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	files := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		r, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(r)
		require.NoError(t, err)
		r.Close()
		files[f.Name] = content
	}
	return files
}

func TestZipEncoder_COCO(t *testing.T) {
	images, classes := exportFixture(t)
	encoder := NewZipEncoder(zap.NewNop())

	data, err := encoder.Encode(context.Background(), images, classes, port.FormatCOCO)
	require.NoError(t, err)

	files := readArchive(t, data)
	require.Contains(t, files, "annotations.json")
	require.Contains(t, files, "images/photo.png")

	var ds cocoDataset
	require.NoError(t, json.Unmarshal(files["annotations.json"], &ds))

	require.Len(t, ds.Images, 1)
	require.Equal(t, "photo.png", ds.Images[0].FileName)
	require.Equal(t, 8, ds.Images[0].Width)

	require.Len(t, ds.Categories, 2)
	require.Equal(t, 1, ds.Categories[0].ID)
	require.Equal(t, "cat", ds.Categories[0].Name)

	require.Len(t, ds.Annotations, 1)
	ann := ds.Annotations[0]
	require.Equal(t, 1, ann.CategoryID)
	require.Equal(t, 0, ann.ImageID)
	require.Equal(t, 0, ann.IsCrowd)
	require.Equal(t, []float64{2, 2, 4, 4}, ann.BBox)
	require.Equal(t, 16.0, ann.Area) // площадь в пикселях маски
	require.Len(t, ann.Segmentation, 1)
	require.NotEmpty(t, ann.Segmentation[0])
	require.Zero(t, len(ann.Segmentation[0])%2)
}

func TestZipEncoder_YOLO(t *testing.T) {
	images, classes := exportFixture(t)
	encoder := NewZipEncoder(zap.NewNop())

	data, err := encoder.Encode(context.Background(), images, classes, port.FormatYOLO)
	require.NoError(t, err)

	files := readArchive(t, data)
	require.Contains(t, files, "classes.txt")
	require.Contains(t, files, "labels/photo.txt")
	require.Contains(t, files, "images/photo.png")

	require.Equal(t, "cat\ndog\n", string(files["classes.txt"]))

	lines := strings.Split(strings.TrimSpace(string(files["labels/photo.txt"])), "\n")
	require.Len(t, lines, 1)

	fields := strings.Fields(lines[0])
	require.Equal(t, "0", fields[0])
	require.Zero(t, (len(fields)-1)%2)

	// Координаты нормированы к размеру изображения
	for _, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		require.NoError(t, err)
		require.GreaterOrEqual(t, v, 0.0)
		require.LessOrEqual(t, v, 1.0)
	}
}

func TestZipEncoder_UnknownFormat(t *testing.T) {
	images, classes := exportFixture(t)
	encoder := NewZipEncoder(zap.NewNop())

	_, err := encoder.Encode(context.Background(), images, classes, "voc")
	require.ErrorIs(t, err, port.ErrUnknownFormat)
}

func TestZipEncoder_EmptySession(t *testing.T) {
	encoder := NewZipEncoder(zap.NewNop())

	data, err := encoder.Encode(context.Background(), nil, nil, port.FormatCOCO)
	require.NoError(t, err)

	files := readArchive(t, data)
	require.Contains(t, files, "annotations.json")

	var ds cocoDataset
	require.NoError(t, json.Unmarshal(files["annotations.json"], &ds))
	require.Empty(t, ds.Images)
	require.Empty(t, ds.Annotations)
}

func TestZipEncoder_EmptyMaskProducesNoAnnotation(t *testing.T) {
	images, classes := exportFixture(t)
	images[0].Masks[0].Mask = entity.Recolor(entity.NewRawMask(8, 8), entity.RGB{R: 255})

	encoder := NewZipEncoder(zap.NewNop())
	data, err := encoder.Encode(context.Background(), images, classes, port.FormatCOCO)
	require.NoError(t, err)

	var ds cocoDataset
	require.NoError(t, json.Unmarshal(readArchive(t, data)["annotations.json"], &ds))
	require.Empty(t, ds.Annotations)
	require.Len(t, ds.Images, 1)
}
