package oracle

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/Mishardina/sam-image-labeler/internal/domain/entity"
	"github.com/Mishardina/sam-image-labeler/internal/domain/port"
)

// CachedOracle сквозной кэш поверх сервиса сегментации.
// Ошибки кэша логируются и не мешают самому запросу.
type CachedOracle struct {
	inner  port.SegmentationOracle
	cache  port.MaskCache
	logger *zap.Logger
}

// NewCachedOracle оборачивает оракула кэшем масок
func NewCachedOracle(inner port.SegmentationOracle, cache port.MaskCache, logger *zap.Logger) *CachedOracle {
	return &CachedOracle{
		inner:  inner,
		cache:  cache,
		logger: logger,
	}
}

// Segment возвращает кандидатов из кэша либо опрашивает оракула и кэширует ответ
func (c *CachedOracle) Segment(ctx context.Context, imageData []byte, points []entity.Point) ([]port.MaskCandidate, error) {
	key := cacheKey(imageData, points)

	if data, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("mask cache read failed", zap.Error(err))
	} else if data != nil {
		var candidates []port.MaskCandidate
		if err := json.Unmarshal(data, &candidates); err == nil {
			c.logger.Debug("mask cache hit", zap.String("key", key))
			return candidates, nil
		}
		c.logger.Warn("mask cache entry is corrupted", zap.String("key", key))
	}

	candidates, err := c.inner.Segment(ctx, imageData, points)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(candidates); err == nil {
		if err := c.cache.Set(ctx, key, data); err != nil {
			c.logger.Warn("mask cache write failed", zap.Error(err))
		}
	}
	return candidates, nil
}

// cacheKey ключ кэша по изображению и набору точек
func cacheKey(imageData []byte, points []entity.Point) string {
	pointsJSON, _ := json.Marshal(points)
	return fmt.Sprintf("mask:%s:%s", bytesMD5(imageData), bytesMD5(pointsJSON))
}

// bytesMD5 считает MD5 от байтов
func bytesMD5(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// Проверка реализации интерфейса
var _ port.SegmentationOracle = (*CachedOracle)(nil)
