package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Mishardina/sam-image-labeler/config"
	"github.com/Mishardina/sam-image-labeler/internal/api"
	"github.com/Mishardina/sam-image-labeler/internal/container"
	"github.com/Mishardina/sam-image-labeler/internal/domain/port"
	"github.com/Mishardina/sam-image-labeler/internal/infrastructure/cache"
	"github.com/Mishardina/sam-image-labeler/internal/infrastructure/export"
	"github.com/Mishardina/sam-image-labeler/internal/infrastructure/imaging"
	"github.com/Mishardina/sam-image-labeler/internal/infrastructure/oracle"
	"github.com/Mishardina/sam-image-labeler/internal/infrastructure/storage"
	"github.com/Mishardina/sam-image-labeler/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Mode)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	// Клиент сервиса сегментации, при настроенном Redis — со сквозным кэшем
	var segmentation port.SegmentationOracle = oracle.NewClient(cfg.OracleURL, cfg.OracleTimeout, log)
	if cfg.RedisAddr != "" {
		maskCache := cache.NewRedisMaskCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
		if err := maskCache.Ping(context.Background()); err != nil {
			log.Warn("redis connection failed, cache disabled", zap.Error(err))
		} else {
			log.Info("redis connected, mask cache enabled")
			segmentation = oracle.NewCachedOracle(segmentation, maskCache, log)
			defer maskCache.Close()
		}
	}

	repo := storage.NewMemorySessionRepository()
	loader := imaging.NewLoader(imaging.DefaultThumbnailSide)
	encoder := export.NewZipEncoder(log)

	services := container.New(repo, segmentation, loader, encoder, log)
	server := api.NewServer(cfg.ListenAddr, cfg.Mode, cfg.MaxUploadMB, services, log)

	log.Info("server starting",
		zap.String("addr", cfg.ListenAddr),
		zap.String("oracle", cfg.OracleURL))
	if err := server.Run(); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
