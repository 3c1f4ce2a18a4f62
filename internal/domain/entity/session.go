package entity

import "image"

// Session сессия разметки: изображения и реестр классов одного клиента
type Session struct {
	ID      string
	Classes *ClassRegistry

	entries []*ImageEntry
	byID    map[int]*ImageEntry
	nextID  int
}

// NewSession создаёт пустую сессию
func NewSession(id string) *Session {
	return &Session{
		ID:      id,
		Classes: NewClassRegistry(),
		byID:    make(map[int]*ImageEntry),
	}
}

// AddEntry добавляет изображение и возвращает запись.
// Идентификаторы выдаются по порядку и внутри сессии не переиспользуются.
func (s *Session) AddEntry(name, dataURL string, img *image.NRGBA, source []byte) *ImageEntry {
	entry := NewImageEntry(s.nextID, name, dataURL, img, source)
	s.nextID++
	s.entries = append(s.entries, entry)
	s.byID[entry.ID] = entry
	return entry
}

// Entry возвращает запись по идентификатору изображения
func (s *Session) Entry(id int) (*ImageEntry, bool) {
	e, ok := s.byID[id]
	return e, ok
}

// Entries возвращает записи в порядке загрузки
func (s *Session) Entries() []*ImageEntry {
	out := make([]*ImageEntry, len(s.entries))
	copy(out, s.entries)
	return out
}
