package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// RGB цвет с восемью битами на канал
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// Hex возвращает цвет строкой вида #rrggbb
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHexColor разбирает цвет из строки вида #rrggbb
func ParseHexColor(s string) (RGB, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid color %q", s)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// ClassDef класс разметки: имя и цвет заливки масок
type ClassDef struct {
	Name  string
	Color RGB
}

// ClassRegistry упорядоченный набор классов разметки.
// Имена уникальны, переименование не поддерживается.
type ClassRegistry struct {
	defs []ClassDef
}

// NewClassRegistry создаёт пустой реестр классов
func NewClassRegistry() *ClassRegistry {
	return &ClassRegistry{}
}

// Add добавляет класс с уникальным именем
func (r *ClassRegistry) Add(name string, color RGB) error {
	if _, ok := r.Get(name); ok {
		return ErrClassExists
	}
	r.defs = append(r.defs, ClassDef{Name: name, Color: color})
	return nil
}

// Get возвращает класс по имени
func (r *ClassRegistry) Get(name string) (ClassDef, bool) {
	for _, d := range r.defs {
		if d.Name == name {
			return d, true
		}
	}
	return ClassDef{}, false
}

// SetColor меняет цвет класса. Уже подтверждённые маски хранят снимок
// старого цвета и не перекрашиваются.
func (r *ClassRegistry) SetColor(name string, color RGB) error {
	for i := range r.defs {
		if r.defs[i].Name == name {
			r.defs[i].Color = color
			return nil
		}
	}
	return ErrUnknownClass
}

// Index возвращает порядковый номер класса
func (r *ClassRegistry) Index(name string) (int, bool) {
	for i, d := range r.defs {
		if d.Name == name {
			return i, true
		}
	}
	return 0, false
}

// List возвращает классы в порядке добавления
func (r *ClassRegistry) List() []ClassDef {
	out := make([]ClassDef, len(r.defs))
	copy(out, r.defs)
	return out
}
