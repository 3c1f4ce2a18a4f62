package port

import "image"

// ImageLoader интерфейс декодера загружаемых изображений
type ImageLoader interface {
	// Decode декодирует файл, приводит его к NRGBA и строит data URL исходных байт
	Decode(name string, data []byte) (*image.NRGBA, string, error)

	// Thumbnail строит уменьшенную копию для ленты изображений
	Thumbnail(img image.Image) image.Image
}
