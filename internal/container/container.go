package container

import (
	"go.uber.org/zap"

	app "github.com/Mishardina/sam-image-labeler/internal/application"
	"github.com/Mishardina/sam-image-labeler/internal/domain/port"
)

// Container собирает сервисы приложения
type Container struct {
	Sessions *app.SessionService
	Render   *app.RenderService
	Export   *app.ExportService
}

// New создаёт контейнер сервисов
func New(repo port.SessionRepository, oracle port.SegmentationOracle, loader port.ImageLoader, encoder port.DatasetEncoder, logger *zap.Logger) *Container {
	sessions := app.NewSessionService(repo, oracle, loader, logger)
	render := app.NewRenderService(sessions, logger)
	export := app.NewExportService(sessions, encoder, logger)

	return &Container{
		Sessions: sessions,
		Render:   render,
		Export:   export,
	}
}
