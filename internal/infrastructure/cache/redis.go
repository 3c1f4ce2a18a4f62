package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Mishardina/sam-image-labeler/internal/domain/port"
)

// RedisMaskCache кэш ответов оракула в Redis
type RedisMaskCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisMaskCache создаёт кэш масок с заданным временем жизни записей
func NewRedisMaskCache(addr, password string, db int, ttl time.Duration) *RedisMaskCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisMaskCache{
		client: client,
		ttl:    ttl,
	}
}

// Ping проверяет соединение с Redis
func (c *RedisMaskCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Get возвращает значение ключа или nil при промахе
func (c *RedisMaskCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // кэш не содержит ключа
		}
		return nil, err
	}
	return data, nil
}

// Set кладёт значение в кэш
func (c *RedisMaskCache) Set(ctx context.Context, key string, value []byte) error {
	return c.client.Set(ctx, key, value, c.ttl).Err()
}

// Close закрывает соединение с Redis
func (c *RedisMaskCache) Close() error {
	return c.client.Close()
}

// Проверка реализации интерфейса
var _ port.MaskCache = (*RedisMaskCache)(nil)
