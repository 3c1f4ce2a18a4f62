package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/up-zero/gotool/imageutil"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Mishardina/sam-image-labeler/internal/domain/entity"
	"github.com/Mishardina/sam-image-labeler/internal/domain/port"
)

// DefaultThumbnailSide максимальная сторона миниатюры для ленты изображений
const DefaultThumbnailSide = 160

// Loader декодер загружаемых изображений
type Loader struct {
	thumbSide int
}

// NewLoader создаёт декодер с заданной стороной миниатюры
func NewLoader(thumbSide int) *Loader {
	if thumbSide <= 0 {
		thumbSide = DefaultThumbnailSide
	}
	return &Loader{thumbSide: thumbSide}
}

// Decode декодирует файл, приводит его к NRGBA и строит data URL исходных байт
func (l *Loader) Decode(name string, data []byte) (*image.NRGBA, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", &entity.DecodeError{Name: name, Err: err}
	}

	// Нормализуем систему координат: некоторые декодеры отдают Bounds не от нуля
	b := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)

	dataURL := "data:image/" + format + ";base64," + base64.StdEncoding.EncodeToString(data)
	return nrgba, dataURL, nil
}

// Thumbnail строит уменьшенную копию с сохранением пропорций
func (l *Loader) Thumbnail(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	side := w
	if h > side {
		side = h
	}
	if side <= l.thumbSide {
		return img
	}

	scale := float64(l.thumbSide) / float64(side)
	return imageutil.Resize(img, int(float64(w)*scale), int(float64(h)*scale))
}

// Проверка реализации интерфейса
var _ port.ImageLoader = (*Loader)(nil)
