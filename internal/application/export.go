package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/Mishardina/sam-image-labeler/internal/domain/entity"
	"github.com/Mishardina/sam-image-labeler/internal/domain/port"
)

// ExportService собирает датасет из подтверждённых масок сессии
type ExportService struct {
	sessions *SessionService
	encoder  port.DatasetEncoder
	logger   *zap.Logger
}

// NewExportService создаёт сервис выгрузки датасета
func NewExportService(sessions *SessionService, encoder port.DatasetEncoder, logger *zap.Logger) *ExportService {
	return &ExportService{
		sessions: sessions,
		encoder:  encoder,
		logger:   logger,
	}
}

// Export собирает архив разметки сессии в заданном формате
func (s *ExportService) Export(ctx context.Context, sessionID, format string) ([]byte, error) {
	s.sessions.mu.Lock()
	session, err := s.sessions.repo.Get(ctx, sessionID)
	if err != nil {
		s.sessions.mu.Unlock()
		return nil, err
	}

	entries := session.Entries()
	images := make([]port.ExportImage, 0, len(entries))
	for _, entry := range entries {
		masks := make([]entity.ConfirmedMask, len(entry.ConfirmedMasks))
		copy(masks, entry.ConfirmedMasks)
		images = append(images, port.ExportImage{
			Name:    entry.Name,
			DataURL: entry.DataURL,
			Width:   entry.Width,
			Height:  entry.Height,
			Masks:   masks,
		})
	}
	classes := session.Classes.List()
	s.sessions.mu.Unlock()

	// Сборка архива идёт без общего замка
	data, err := s.encoder.Encode(ctx, images, classes, format)
	if err != nil {
		return nil, err
	}

	s.logger.Info("dataset exported",
		zap.String("session_id", sessionID),
		zap.String("format", format),
		zap.Int("images", len(images)),
		zap.Int("size_bytes", len(data)))
	return data, nil
}
