package app

import (
	"context"
	"errors"
	"image"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Mishardina/sam-image-labeler/internal/domain/entity"
	"github.com/Mishardina/sam-image-labeler/internal/domain/port"
)

// pendingColor цвет неподтверждённой маски
var pendingColor = entity.RGB{R: 255}

// UploadFile загружаемый файл изображения
type UploadFile struct {
	Name string
	Data []byte
}

// LoadResult итог загрузки одного файла
type LoadResult struct {
	Name    string
	ImageID int // -1, если файл пропущен
	Err     error
}

// MaskSnapshot сведения о подтверждённой маске
type MaskSnapshot struct {
	ClassName string
	Color     entity.RGB
}

// EntrySnapshot срез состояния изображения для выдачи наружу
type EntrySnapshot struct {
	ID               int
	Name             string
	Width            int
	Height           int
	State            entity.EntryState
	Points           []entity.Point
	HasPending       bool
	PendingScore     float64
	ConfirmedMasks   []MaskSnapshot
	HighlightedIndex int
	OracleNotice     string
}

// SessionSnapshot срез состояния сессии целиком
type SessionSnapshot struct {
	ID      string
	Classes []entity.ClassDef
	Entries []EntrySnapshot
}

// SessionService управляет сессиями разметки. Все операции сериализуются
// одним мьютексом, поэтому никакие два изменения не перемешиваются.
type SessionService struct {
	repo   port.SessionRepository
	oracle port.SegmentationOracle
	loader port.ImageLoader
	logger *zap.Logger

	mu sync.Mutex
}

// NewSessionService создаёт сервис сессий разметки
func NewSessionService(repo port.SessionRepository, oracle port.SegmentationOracle, loader port.ImageLoader, logger *zap.Logger) *SessionService {
	return &SessionService{
		repo:   repo,
		oracle: oracle,
		loader: loader,
		logger: logger,
	}
}

// CreateSession создаёт пустую сессию и возвращает её id
func (s *SessionService) CreateSession(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := entity.NewSession(uuid.NewString())
	if err := s.repo.Create(ctx, session); err != nil {
		return "", err
	}

	s.logger.Info("session created", zap.String("session_id", session.ID))
	return session.ID, nil
}

// ResetSession удаляет сессию вместе со всеми изображениями
func (s *SessionService) ResetSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.Get(ctx, sessionID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return err
	}

	s.logger.Info("session reset", zap.String("session_id", sessionID))
	return nil
}

// SessionState возвращает срез состояния сессии
func (s *SessionService) SessionState(ctx context.Context, sessionID string) (*SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	entries := session.Entries()
	snap := &SessionSnapshot{
		ID:      session.ID,
		Classes: session.Classes.List(),
		Entries: make([]EntrySnapshot, 0, len(entries)),
	}
	for _, entry := range entries {
		snap.Entries = append(snap.Entries, snapshotOf(entry))
	}
	return snap, nil
}

// LoadImages декодирует и добавляет изображения.
// Файлы с ошибкой декодирования пропускаются, остальные загружаются.
func (s *SessionService) LoadImages(ctx context.Context, sessionID string, files []UploadFile) ([]LoadResult, error) {
	type decoded struct {
		img     *image.NRGBA
		dataURL string
	}

	// Декодирование тяжёлое, держать на нём общий замок нельзя
	results := make([]LoadResult, len(files))
	images := make([]*decoded, len(files))
	for i, f := range files {
		results[i] = LoadResult{Name: f.Name, ImageID: -1}

		img, dataURL, err := s.loader.Decode(f.Name, f.Data)
		if err != nil {
			results[i].Err = err
			s.logger.Warn("image skipped", zap.String("name", f.Name), zap.Error(err))
			continue
		}
		images[i] = &decoded{img: img, dataURL: dataURL}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for i, d := range images {
		if d == nil {
			continue
		}
		entry := session.AddEntry(files[i].Name, d.dataURL, d.img, files[i].Data)
		results[i].ImageID = entry.ID
		s.logger.Info("image loaded",
			zap.String("session_id", sessionID),
			zap.Int("image_id", entry.ID),
			zap.String("name", entry.Name))
	}
	return results, nil
}

// ImageState возвращает срез состояния одного изображения
func (s *SessionService) ImageState(ctx context.Context, sessionID string, imageID int) (*EntrySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.entry(ctx, sessionID, imageID)
	if err != nil {
		return nil, err
	}
	snap := snapshotOf(entry)
	return &snap, nil
}

// Thumbnail возвращает миниатюру изображения
func (s *SessionService) Thumbnail(ctx context.Context, sessionID string, imageID int) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.entry(ctx, sessionID, imageID)
	if err != nil {
		return nil, err
	}
	return s.loader.Thumbnail(entry.Image), nil
}

// AddPoint добавляет точку и запускает асинхронное обновление маски.
// Ответ оракула применится, только если точки к тому моменту не изменятся.
func (s *SessionService) AddPoint(ctx context.Context, sessionID string, imageID int, p entity.Point) (*EntrySnapshot, error) {
	if s.oracle == nil {
		return nil, errors.New("segmentation oracle is not configured")
	}

	s.mu.Lock()
	entry, err := s.entry(ctx, sessionID, imageID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	version := entry.AddPoint(p)
	points := make([]entity.Point, len(entry.Points))
	copy(points, entry.Points)
	imageData := entry.SourceData
	snap := snapshotOf(entry)
	s.mu.Unlock()

	go s.refreshPending(sessionID, imageID, imageData, points, version)

	return &snap, nil
}

// ClearPoints убирает точки и ожидаемую маску изображения.
// Возвращает false, если изображение и так было пустым.
func (s *SessionService) ClearPoints(ctx context.Context, sessionID string, imageID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.entry(ctx, sessionID, imageID)
	if err != nil {
		return false, err
	}
	return entry.ClearPoints(), nil
}

// ConfirmMask подтверждает ожидаемую маску под заданным классом
func (s *SessionService) ConfirmMask(ctx context.Context, sessionID string, imageID int, className string) (*EntrySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	entry, ok := session.Entry(imageID)
	if !ok {
		return nil, entity.ErrImageNotFound
	}

	if entry.State() != entity.StateMaskReady {
		return nil, entity.ErrNoPendingMask
	}
	class, ok := session.Classes.Get(className)
	if !ok {
		return nil, entity.ErrUnknownClass
	}
	if err := entry.Confirm(class); err != nil {
		return nil, err
	}

	s.logger.Info("mask confirmed",
		zap.String("session_id", sessionID),
		zap.Int("image_id", imageID),
		zap.String("class", className),
		zap.Int("confirmed_total", len(entry.ConfirmedMasks)))

	snap := snapshotOf(entry)
	return &snap, nil
}

// ToggleHighlight включает или снимает подсветку подтверждённой маски
func (s *SessionService) ToggleHighlight(ctx context.Context, sessionID string, imageID int, maskIndex int) (*EntrySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.entry(ctx, sessionID, imageID)
	if err != nil {
		return nil, err
	}
	if err := entry.ToggleHighlight(maskIndex); err != nil {
		return nil, err
	}
	snap := snapshotOf(entry)
	return &snap, nil
}

// AddClass регистрирует класс разметки
func (s *SessionService) AddClass(ctx context.Context, sessionID, name string, color entity.RGB) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	return session.Classes.Add(name, color)
}

// SetClassColor меняет цвет класса для будущих подтверждений
func (s *SessionService) SetClassColor(ctx context.Context, sessionID, name string, color entity.RGB) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	return session.Classes.SetColor(name, color)
}

// Classes возвращает классы сессии в порядке добавления
func (s *SessionService) Classes(ctx context.Context, sessionID string) ([]entity.ClassDef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Classes.List(), nil
}

// refreshPending опрашивает оракула и публикует маску, если точки не изменились
func (s *SessionService) refreshPending(sessionID string, imageID int, imageData []byte, points []entity.Point, version uint64) {
	ctx := context.Background()

	candidates, err := s.oracle.Segment(ctx, imageData, points)
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()

		entry, lookupErr := s.entry(ctx, sessionID, imageID)
		if lookupErr != nil {
			return
		}
		if entry.SetOracleNotice(version, err.Error()) {
			s.logger.Warn("mask refresh failed",
				zap.String("session_id", sessionID),
				zap.Int("image_id", imageID),
				zap.Error(err))
		}
		return
	}

	if len(candidates) == 0 {
		s.mu.Lock()
		defer s.mu.Unlock()

		entry, lookupErr := s.entry(ctx, sessionID, imageID)
		if lookupErr != nil {
			return
		}
		if entry.ClearPendingIfCurrent(version) {
			s.logger.Debug("oracle found no segments",
				zap.String("session_id", sessionID),
				zap.Int("image_id", imageID))
		}
		return
	}

	// Ожидаемой маской становится только лучший кандидат
	best := candidates[0]
	colored := entity.Recolor(best.Mask, pendingColor)

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, lookupErr := s.entry(ctx, sessionID, imageID)
	if lookupErr != nil {
		return
	}
	if !entry.ApplyPending(version, best.Mask, colored, best.Score) {
		s.logger.Debug("stale mask discarded",
			zap.String("session_id", sessionID),
			zap.Int("image_id", imageID),
			zap.Uint64("version", version))
		return
	}

	s.logger.Debug("pending mask updated",
		zap.String("session_id", sessionID),
		zap.Int("image_id", imageID),
		zap.Float64("score", best.Score))
}

// entry ищет запись изображения; вызывается только под общим замком
func (s *SessionService) entry(ctx context.Context, sessionID string, imageID int) (*entity.ImageEntry, error) {
	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	entry, ok := session.Entry(imageID)
	if !ok {
		return nil, entity.ErrImageNotFound
	}
	return entry, nil
}

// snapshotOf копирует наружу видимое состояние записи
func snapshotOf(entry *entity.ImageEntry) EntrySnapshot {
	points := make([]entity.Point, len(entry.Points))
	copy(points, entry.Points)

	masks := make([]MaskSnapshot, 0, len(entry.ConfirmedMasks))
	for _, m := range entry.ConfirmedMasks {
		masks = append(masks, MaskSnapshot{ClassName: m.ClassName, Color: m.Color})
	}

	return EntrySnapshot{
		ID:               entry.ID,
		Name:             entry.Name,
		Width:            entry.Width,
		Height:           entry.Height,
		State:            entry.State(),
		Points:           points,
		HasPending:       entry.PendingMask != nil,
		PendingScore:     entry.PendingScore,
		ConfirmedMasks:   masks,
		HighlightedIndex: entry.HighlightedIndex,
		OracleNotice:     entry.LastOracleError,
	}
}
