package app

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/models"
)

// Actor: кто выполняет действие.
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

// Problem: отказ с готовым текстом для пользователя.
type Problem string

func (p Problem) Error() string { return string(p) }

const (
	ErrForbidden     Problem = "Нямаш права за това действие."
	ErrNoGroupAccess Problem = "Нямаш достъп до тази група."
	ErrNoPageAccess  Problem = "Нямаш достъп до тази страница."
	ErrNothingToSave Problem = "Няма данни за запис. Зареди присъствията първо."
	ErrNotFound      Problem = "Записът не е намерен."
)

// Failure: отказ бэкенда; текст "Грешка при <op>: <сообщение БД>".
type Failure struct {
	Op  string
	Err error
}

func (f *Failure) Error() string { return "Грешка при " + f.Op + ": " + backendText(f.Err) }
func (f *Failure) Unwrap() error { return f.Err }

func fail(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Failure{Op: op, Err: err}
}

func backendText(err error) string {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return "записът не е намерен"
	case db.IsUniqueViolation(err):
		return "записът вече съществува"
	case db.IsCheckViolation(err):
		return "стойността не е допустима"
	case db.IsForeignKeyViolation(err):
		return "свързаният запис не съществува"
	case db.IsMissingSchema(err):
		return "липсва колона или таблица в базата"
	}
	return err.Error()
}

// Message: текст ошибки для статусной строки страницы.
func Message(err error) string {
	var p Problem
	if errors.As(err, &p) {
		return string(p)
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Error()
	}
	return "Грешка: " + err.Error()
}

// parseID: пустая строка и мусор дают uuid.Nil.
func parseID(s string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil
	}
	return id
}
