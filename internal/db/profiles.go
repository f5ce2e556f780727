package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/eliteclass/ediary/internal/ctxutil"
	"github.com/eliteclass/ediary/internal/models"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(r rowScanner) (models.Profile, error) {
	var p models.Profile
	var role string
	err := r.Scan(&p.ID, &p.FullName, &role, &p.Phone, &p.AvatarURL, &p.TeacherTitle, &p.Address, &p.CreatedAt)
	p.Role = models.Role(role)
	return p, err
}

// GetProfile читает профиль; колонки, которых нет в схеме, остаются nil.
func GetProfile(ctx context.Context, database *sql.DB, id uuid.UUID, cols ProfileColumns) (*models.Profile, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	p, err := scanProfile(database.QueryRowContext(ctx,
		`SELECT `+cols.selectList("p")+` FROM profiles p WHERE p.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProfile: профиль при первом входе. Повторный вызов ничего не меняет.
func CreateProfile(ctx context.Context, database *sql.DB, id uuid.UUID, fullName string, role models.Role) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	_, err := database.ExecContext(ctx, `
		INSERT INTO profiles (id, full_name, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`, id, fullName, string(role))
	return err
}

func UpdateProfileName(ctx context.Context, database *sql.DB, id uuid.UUID, fullName string) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := database.ExecContext(ctx, `UPDATE profiles SET full_name = $1 WHERE id = $2`, fullName, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// ListProfilesByRole: для селекторов, по имени.
func ListProfilesByRole(ctx context.Context, database *sql.DB, role models.Role) ([]models.Profile, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, `
		SELECT p.id, p.full_name, p.role, NULL::text, NULL::text, NULL::text, NULL::text, p.created_at
		FROM profiles p
		WHERE p.role = $1
		ORDER BY p.full_name NULLS LAST, p.id
	`, string(role))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ProfileUpdate: изменяемые поля; nil означает "не трогать".
type ProfileUpdate struct {
	FullName     *string
	Role         *models.Role
	Phone        *string
	TeacherTitle *string
	Address      *string
	AvatarURL    *string
}

// UpdateProfile пишет только переданные поля, пропуская отсутствующие в схеме колонки.
func UpdateProfile(ctx context.Context, database *sql.DB, id uuid.UUID, u ProfileUpdate, cols ProfileColumns) error {
	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if u.FullName != nil {
		add("full_name", *u.FullName)
	}
	if u.Role != nil {
		add("role", string(*u.Role))
	}
	if u.Phone != nil && cols.Phone {
		add("phone", nullIfEmpty(*u.Phone))
	}
	if u.TeacherTitle != nil && cols.TeacherTitle {
		add("teacher_title", nullIfEmpty(*u.TeacherTitle))
	}
	if u.Address != nil && cols.Address {
		add("address", nullIfEmpty(*u.Address))
	}
	if u.AvatarURL != nil && cols.AvatarURL {
		add("avatar_url", nullIfEmpty(*u.AvatarURL))
	}
	if len(sets) == 0 {
		return nil
	}

	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	args = append(args, id)
	q := fmt.Sprintf(`UPDATE profiles SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	res, err := database.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func nullIfEmpty(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}
