package api

import (
	app "github.com/Mishardina/sam-image-labeler/internal/application"
	"github.com/Mishardina/sam-image-labeler/internal/domain/entity"
)

// Тексты ответов пользователю
const (
	msgBadRequest      = "Некорректный запрос."
	msgBadImageID      = "Номер изображения должен быть целым числом."
	msgBadLabel        = "Метка точки должна быть positive или negative."
	msgBadColor        = "Цвет задаётся строкой вида #rrggbb."
	msgBadDisplaySize  = "Размеры области показа должны быть положительными."
	msgNoFiles         = "Прикрепите хотя бы один файл в поле images."
	msgSessionNotFound = "Сессия не найдена."
	msgImageNotFound   = "Изображение не найдено."
	msgNoPendingMask   = "Нет маски для подтверждения. Поставьте точки и дождитесь маски."
	msgUnknownClass    = "Класс с таким именем не зарегистрирован."
	msgClassExists     = "Класс с таким именем уже существует."
	msgIndexOutOfRange = "Маски с таким номером нет."
	msgUnknownFormat   = "Неизвестный формат выгрузки. Доступны coco и yolo."
	msgInternal        = "Внутренняя ошибка сервиса."
)

type errorResponse struct {
	Error string `json:"error"`
}

type createSessionResponse struct {
	ID string `json:"id"`
}

type addPointRequest struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Label         string  `json:"label"`
	DisplayWidth  int     `json:"display_width"`
	DisplayHeight int     `json:"display_height"`
}

type confirmRequest struct {
	Class string `json:"class"`
}

type highlightRequest struct {
	Index int `json:"index"`
}

type classRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type classColorRequest struct {
	Color string `json:"color"`
}

type clearPointsResponse struct {
	Changed bool `json:"changed"`
}

type pointDTO struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Label string `json:"label"`
}

type maskDTO struct {
	ClassName string `json:"class_name"`
	Color     string `json:"color"`
}

type classDTO struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type entryDTO struct {
	ID               int        `json:"id"`
	Name             string     `json:"name"`
	Width            int        `json:"width"`
	Height           int        `json:"height"`
	State            string     `json:"state"`
	Points           []pointDTO `json:"points"`
	HasPending       bool       `json:"has_pending"`
	PendingScore     float64    `json:"pending_score"`
	ConfirmedMasks   []maskDTO  `json:"confirmed_masks"`
	HighlightedIndex int        `json:"highlighted_index"`
	OracleNotice     string     `json:"oracle_notice,omitempty"`
}

type sessionDTO struct {
	ID      string     `json:"id"`
	Classes []classDTO `json:"classes"`
	Entries []entryDTO `json:"entries"`
}

type uploadResultDTO struct {
	Name    string `json:"name"`
	ImageID int    `json:"image_id"` // -1, если файл пропущен
	Error   string `json:"error,omitempty"`
}

func entryToDTO(snap *app.EntrySnapshot) entryDTO {
	points := make([]pointDTO, 0, len(snap.Points))
	for _, p := range snap.Points {
		points = append(points, pointDTO{X: p.X, Y: p.Y, Label: string(p.Label)})
	}

	masks := make([]maskDTO, 0, len(snap.ConfirmedMasks))
	for _, m := range snap.ConfirmedMasks {
		masks = append(masks, maskDTO{ClassName: m.ClassName, Color: m.Color.Hex()})
	}

	return entryDTO{
		ID:               snap.ID,
		Name:             snap.Name,
		Width:            snap.Width,
		Height:           snap.Height,
		State:            string(snap.State),
		Points:           points,
		HasPending:       snap.HasPending,
		PendingScore:     snap.PendingScore,
		ConfirmedMasks:   masks,
		HighlightedIndex: snap.HighlightedIndex,
		OracleNotice:     snap.OracleNotice,
	}
}

func classesToDTO(classes []entity.ClassDef) []classDTO {
	out := make([]classDTO, 0, len(classes))
	for _, c := range classes {
		out = append(out, classDTO{Name: c.Name, Color: c.Color.Hex()})
	}
	return out
}
