package app

import (
	"context"
	"database/sql"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/eliteclass/ediary/internal/access"
	"github.com/eliteclass/ediary/internal/auth"
	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/models"
)

func ListUsers(ctx context.Context, database *sql.DB, a Actor) ([]models.AdminUser, error) {
	if !access.Can(a.Role, access.ManageUsers) {
		return nil, ErrNoPageAccess
	}
	us, err := db.AdminListUsers(ctx, database)
	return us, fail("потребителите", err)
}

type UserForm struct {
	Role         string `form:"role"`
	FullName     string `form:"full_name"`
	Phone        string `form:"phone"`
	TeacherTitle string `form:"teacher_title"`
	Address      string `form:"address"`
}

// UpdateUser: правка профиля админом.
func UpdateUser(ctx context.Context, database *sql.DB, a Actor, rawID string, in UserForm, cols db.ProfileColumns) error {
	if !access.Can(a.Role, access.ManageUsers) {
		return ErrForbidden
	}
	id := parseID(rawID)
	if id == uuid.Nil {
		return ErrNotFound
	}
	role, ok := models.ParseRole(strings.TrimSpace(in.Role))
	if !ok {
		return Problem("Невалидна роля.")
	}
	title := strings.TrimSpace(in.TeacherTitle)
	if !slices.Contains(models.TeacherTitles, title) {
		return Problem("Невалидно обръщение.")
	}
	name := strings.TrimSpace(in.FullName)
	u := db.ProfileUpdate{
		FullName:     &name,
		Role:         &role,
		Phone:        &in.Phone,
		TeacherTitle: &title,
		Address:      &in.Address,
	}
	return fail("запис на профил", db.UpdateProfile(ctx, database, id, u, cols))
}

// SendUserReset: письмо со ссылкой сброса пароля для выбранного пользователя.
func SendUserReset(ctx context.Context, database *sql.DB, svc *auth.Service, a Actor, rawID string) (string, error) {
	if !access.Can(a.Role, access.ManageUsers) {
		return "", ErrForbidden
	}
	id := parseID(rawID)
	if id == uuid.Nil {
		return "", ErrNotFound
	}
	acc, err := db.GetAccountByID(ctx, database, id)
	if err != nil {
		return "", fail("потребителя", err)
	}
	if err := svc.SendResetLink(ctx, acc.ID, acc.Email); err != nil {
		return "", fail("изпращане", err)
	}
	return acc.Email, nil
}
