package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/eliteclass/ediary/internal/ctxutil"
	"github.com/eliteclass/ediary/internal/models"
)

const groupColumns = `g.id, g.name, g.language, g.level, g.teacher_id, g.created_by, g.created_at`

func scanGroup(r rowScanner) (models.Group, error) {
	var g models.Group
	err := r.Scan(&g.ID, &g.Name, &g.Language, &g.Level, &g.TeacherID, &g.CreatedBy, &g.CreatedAt)
	return g, err
}

func queryGroups(ctx context.Context, database *sql.DB, q string, args ...any) ([]models.Group, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func ListAllGroups(ctx context.Context, database *sql.DB) ([]models.Group, error) {
	return queryGroups(ctx, database, `
		SELECT `+groupColumns+` FROM groups g
		ORDER BY g.created_at DESC`)
}

// ListOwnedGroups: группы, где учитель указан преподавателем или автором.
func ListOwnedGroups(ctx context.Context, database *sql.DB, teacherID uuid.UUID) ([]models.Group, error) {
	return queryGroups(ctx, database, `
		SELECT `+groupColumns+` FROM groups g
		WHERE g.teacher_id = $1 OR g.created_by = $1
		ORDER BY g.created_at DESC`, teacherID)
}

func ListEnrolledGroups(ctx context.Context, database *sql.DB, studentID uuid.UUID) ([]models.Group, error) {
	return queryGroups(ctx, database, `
		SELECT `+groupColumns+` FROM groups g
		WHERE EXISTS (
			SELECT 1 FROM group_students gs
			WHERE gs.group_id = g.id AND gs.student_id = $1
		)
		ORDER BY g.created_at DESC`, studentID)
}

// ListLinkedChildrenGroups: объединение групп всех привязанных к родителю учеников.
func ListLinkedChildrenGroups(ctx context.Context, database *sql.DB, parentID uuid.UUID) ([]models.Group, error) {
	return queryGroups(ctx, database, `
		SELECT `+groupColumns+` FROM groups g
		WHERE EXISTS (
			SELECT 1 FROM group_students gs
			JOIN parent_students ps ON ps.student_id = gs.student_id
			WHERE gs.group_id = g.id AND ps.parent_id = $1
		)
		ORDER BY g.created_at DESC`, parentID)
}

func GetGroup(ctx context.Context, database *sql.DB, id uuid.UUID) (*models.Group, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	g, err := scanGroup(database.QueryRowContext(ctx,
		`SELECT `+groupColumns+` FROM groups g WHERE g.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func CreateGroup(ctx context.Context, database *sql.DB, g models.Group) (uuid.UUID, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var id uuid.UUID
	err := database.QueryRowContext(ctx, `
		INSERT INTO groups (name, language, level, teacher_id, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, g.Name, g.Language, g.Level, g.TeacherID, g.CreatedBy).Scan(&id)
	return id, err
}

// GroupFacts отвечает на вопросы access.CanAccessGroup запросами к БД.
type GroupFacts struct {
	DB *sql.DB
}

func (f GroupFacts) exists(ctx context.Context, q string, args ...any) (bool, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var ok bool
	err := f.DB.QueryRowContext(ctx, `SELECT EXISTS (`+q+`)`, args...).Scan(&ok)
	return ok, err
}

func (f GroupFacts) OwnsGroup(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	return f.exists(ctx, `
		SELECT 1 FROM groups WHERE id = $1 AND (teacher_id = $2 OR created_by = $2)`, groupID, userID)
}

func (f GroupFacts) IsEnrolled(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	return f.exists(ctx, `
		SELECT 1 FROM group_students WHERE group_id = $1 AND student_id = $2`, groupID, userID)
}

func (f GroupFacts) LinkedChildEnrolled(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	return f.exists(ctx, `
		SELECT 1 FROM group_students gs
		JOIN parent_students ps ON ps.student_id = gs.student_id
		WHERE gs.group_id = $1 AND ps.parent_id = $2`, groupID, userID)
}
