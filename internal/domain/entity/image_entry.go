package entity

import "image"

// EntryState состояние изображения в цикле разметки
type EntryState string

const (
	StateEmpty        EntryState = "empty"         // нет ни точек, ни маски
	StatePointsPlaced EntryState = "points_placed" // есть точки, маска устарела или отсутствует
	StateMaskReady    EntryState = "mask_ready"    // маска соответствует текущему набору точек
)

// NoHighlight значение HighlightedIndex без подсветки
const NoHighlight = -1

// ImageEntry изображение сессии со всем состоянием разметки.
// Все изменения идут через методы, прямой записи полей нет.
type ImageEntry struct {
	ID         int
	Name       string
	DataURL    string
	Width      int
	Height     int
	Image      *image.NRGBA
	SourceData []byte // исходные байты файла для запросов к оракулу

	Points           []Point
	PendingRaw       *RawMask
	PendingMask      *ColoredMask
	PendingScore     float64
	ConfirmedMasks   []ConfirmedMask
	HighlightedIndex int
	LastOracleError  string

	version        uint64 // растёт при каждой правке точек
	pendingVersion uint64 // версия точек, под которую построена ожидаемая маска
}

// NewImageEntry создаёт запись изображения в исходном состоянии
func NewImageEntry(id int, name, dataURL string, img *image.NRGBA, source []byte) *ImageEntry {
	b := img.Bounds()
	return &ImageEntry{
		ID:               id,
		Name:             name,
		DataURL:          dataURL,
		Width:            b.Dx(),
		Height:           b.Dy(),
		Image:            img,
		SourceData:       source,
		HighlightedIndex: NoHighlight,
	}
}

// State выводит состояние записи из её полей
func (e *ImageEntry) State() EntryState {
	if e.PendingMask != nil && e.pendingVersion == e.version {
		return StateMaskReady
	}
	if len(e.Points) > 0 {
		return StatePointsPlaced
	}
	return StateEmpty
}

// Version текущий счётчик правок точек
func (e *ImageEntry) Version() uint64 {
	return e.version
}

// AddPoint добавляет точку; ожидаемая маска при этом устаревает.
// Возвращает версию, под которую нужно запрашивать новую маску.
func (e *ImageEntry) AddPoint(p Point) uint64 {
	e.Points = append(e.Points, p)
	e.version++
	return e.version
}

// ClearPoints убирает точки и ожидаемую маску.
// Возвращает false, если запись и так была пустой.
func (e *ImageEntry) ClearPoints() bool {
	if len(e.Points) == 0 && e.PendingMask == nil {
		return false
	}
	e.Points = nil
	e.dropPending()
	e.LastOracleError = ""
	e.version++
	return true
}

// ApplyPending публикует маску от оракула. Маска принимается только если
// точки с момента запроса не менялись, иначе ответ отбрасывается.
func (e *ImageEntry) ApplyPending(version uint64, raw *RawMask, colored *ColoredMask, score float64) bool {
	if version != e.version {
		return false
	}
	e.PendingRaw = raw
	e.PendingMask = colored
	e.PendingScore = score
	e.pendingVersion = version
	e.LastOracleError = ""
	return true
}

// ClearPendingIfCurrent снимает ожидаемую маску по пустому ответу оракула
func (e *ImageEntry) ClearPendingIfCurrent(version uint64) bool {
	if version != e.version {
		return false
	}
	e.dropPending()
	e.LastOracleError = ""
	return true
}

// SetOracleNotice записывает ошибку оракула, если ответ ещё актуален
func (e *ImageEntry) SetOracleNotice(version uint64, notice string) bool {
	if version != e.version {
		return false
	}
	e.LastOracleError = notice
	return true
}

// Confirm перекрашивает ожидаемую маску в цвет класса и переносит её
// в подтверждённые. Точки и ожидаемая маска снимаются тем же действием.
func (e *ImageEntry) Confirm(class ClassDef) error {
	if e.State() != StateMaskReady {
		return ErrNoPendingMask
	}
	e.ConfirmedMasks = append(e.ConfirmedMasks, ConfirmedMask{
		Mask:      Recolor(e.PendingRaw, class.Color),
		ClassName: class.Name,
		Color:     class.Color,
	})
	e.Points = nil
	e.dropPending()
	e.version++
	return nil
}

// ToggleHighlight включает подсветку маски либо снимает её при повторе
func (e *ImageEntry) ToggleHighlight(index int) error {
	if index < 0 || index >= len(e.ConfirmedMasks) {
		return ErrIndexOutOfRange
	}
	if e.HighlightedIndex == index {
		e.HighlightedIndex = NoHighlight
		return nil
	}
	e.HighlightedIndex = index
	return nil
}

func (e *ImageEntry) dropPending() {
	e.PendingRaw = nil
	e.PendingMask = nil
	e.PendingScore = 0
	e.pendingVersion = 0
}
