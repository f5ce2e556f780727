package db

import (
	"context"
	"database/sql"

	"github.com/eliteclass/ediary/internal/ctxutil"
	"github.com/eliteclass/ediary/internal/models"
)

// AdminListUsers: все профили с email аккаунта через admin_list_users().
func AdminListUsers(ctx context.Context, database *sql.DB) ([]models.AdminUser, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, `
		SELECT id, email, full_name, role, phone, avatar_url, teacher_title, address, created_at
		FROM admin_list_users()
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.AdminUser
	for rows.Next() {
		var u models.AdminUser
		var role string
		if err := rows.Scan(&u.ID, &u.Email, &u.FullName, &role, &u.Phone, &u.AvatarURL,
			&u.TeacherTitle, &u.Address, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.Role = models.Role(role)
		out = append(out, u)
	}
	return out, rows.Err()
}
