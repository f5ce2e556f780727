package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInviteClaimed = errors.New("invite already claimed")
)

// коды SQLSTATE, которые показываем пользователю отдельными сообщениями
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeUndefinedColumn     = "42703"
	codeUndefinedTable      = "42P01"
)

// errCode понимает оба драйвера: pgx в приложении и lib/pq в тестах.
func errCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func IsUniqueViolation(err error) bool     { return errCode(err) == codeUniqueViolation }
func IsForeignKeyViolation(err error) bool { return errCode(err) == codeForeignKeyViolation }
func IsCheckViolation(err error) bool      { return errCode(err) == codeCheckViolation }

// IsMissingSchema: колонка или таблица ещё не создана миграцией.
func IsMissingSchema(err error) bool {
	c := errCode(err)
	return c == codeUndefinedColumn || c == codeUndefinedTable
}
