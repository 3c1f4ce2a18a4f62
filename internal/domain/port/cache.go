package port

import "context"

// MaskCache кэш ответов оракула
type MaskCache interface {
	// Get возвращает значение ключа или nil, если значения нет
	Get(ctx context.Context, key string) ([]byte, error)

	// Set кладёт значение в кэш
	Set(ctx context.Context, key string, value []byte) error
}
