package db

import (
	"context"
	"database/sql"

	"github.com/eliteclass/ediary/internal/ctxutil"
)

// ProfileColumns: какие необязательные колонки profiles есть в схеме.
// Отсутствующие поля на странице профиля блокируются.
type ProfileColumns struct {
	Phone        bool
	AvatarURL    bool
	TeacherTitle bool
	Address      bool
}

// All: все расширенные колонки на месте.
func (c ProfileColumns) All() bool {
	return c.Phone && c.AvatarURL && c.TeacherTitle && c.Address
}

// AllProfileColumns: для кода, которому не нужна проверка схемы.
var AllProfileColumns = ProfileColumns{Phone: true, AvatarURL: true, TeacherTitle: true, Address: true}

func DetectProfileColumns(ctx context.Context, database *sql.DB) (ProfileColumns, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = 'profiles'
	`)
	if err != nil {
		return ProfileColumns{}, err
	}
	defer func() { _ = rows.Close() }()

	var c ProfileColumns
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return ProfileColumns{}, err
		}
		switch name {
		case "phone":
			c.Phone = true
		case "avatar_url":
			c.AvatarURL = true
		case "teacher_title":
			c.TeacherTitle = true
		case "address":
			c.Address = true
		}
	}
	return c, rows.Err()
}

// selectList: список колонок для SELECT; отсутствующие заменяются NULL.
func (c ProfileColumns) selectList(alias string) string {
	col := func(ok bool, name string) string {
		if ok {
			return alias + "." + name
		}
		return "NULL::text"
	}
	return alias + ".id, " + alias + ".full_name, " + alias + ".role, " +
		col(c.Phone, "phone") + ", " +
		col(c.AvatarURL, "avatar_url") + ", " +
		col(c.TeacherTitle, "teacher_title") + ", " +
		col(c.Address, "address") + ", " +
		alias + ".created_at"
}
