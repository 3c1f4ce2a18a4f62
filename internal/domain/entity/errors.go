package entity

import (
	"errors"
	"fmt"
)

// Ошибки валидации операций разметки. Состояние сессии при них не меняется.
var (
	ErrNoPendingMask   = errors.New("no pending mask to confirm")
	ErrUnknownClass    = errors.New("class is not registered")
	ErrClassExists     = errors.New("class already exists")
	ErrIndexOutOfRange = errors.New("mask index is out of range")
	ErrSessionNotFound = errors.New("session is not found")
	ErrImageNotFound   = errors.New("image is not found")
)

// DecodeError ошибка декодирования загруженного файла.
// Файл с такой ошибкой пропускается, остальные загружаются дальше.
type DecodeError struct {
	Name string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Name, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
