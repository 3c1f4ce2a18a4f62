package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config настройки сервиса из переменных окружения
type Config struct {
	ListenAddr    string
	Mode          string // debug или release
	OracleURL     string
	OracleTimeout time.Duration
	RedisAddr     string // пустая строка выключает кэш масок
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
	MaxUploadMB   int64
}

// Load читает настройки из окружения и .env файла
func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		Mode:          getEnv("APP_MODE", "debug"),
		OracleURL:     os.Getenv("ORACLE_URL"),
		OracleTimeout: time.Duration(getEnvInt("ORACLE_TIMEOUT_SECONDS", 60)) * time.Second,
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      time.Duration(getEnvInt("CACHE_TTL_MINUTES", 60)) * time.Minute,
		MaxUploadMB:   int64(getEnvInt("MAX_UPLOAD_MB", 32)),
	}

	if cfg.OracleURL == "" {
		return nil, fmt.Errorf("ORACLE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
