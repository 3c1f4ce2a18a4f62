package port

import (
	"context"

	"github.com/Mishardina/sam-image-labeler/internal/domain/entity"
)

// SessionRepository интерфейс хранилища сессий разметки
type SessionRepository interface {
	// Create сохраняет новую сессию
	Create(ctx context.Context, session *entity.Session) error

	// Get возвращает сессию по id
	Get(ctx context.Context, id string) (*entity.Session, error)

	// Delete удаляет сессию со всеми изображениями
	Delete(ctx context.Context, id string) error
}
