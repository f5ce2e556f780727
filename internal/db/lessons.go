package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/eliteclass/ediary/internal/ctxutil"
	"github.com/eliteclass/ediary/internal/models"
)

func CreateLesson(ctx context.Context, database *sql.DB, l models.Lesson) (uuid.UUID, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var id uuid.UUID
	err := database.QueryRowContext(ctx, `
		INSERT INTO lessons (group_id, lesson_date, topic, notes, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, l.GroupID, l.LessonDate, l.Topic, l.Notes, l.CreatedBy).Scan(&id)
	return id, err
}

func ListLessons(ctx context.Context, database *sql.DB, groupID uuid.UUID) ([]models.Lesson, error) {
	return queryLessons(ctx, database, `
		SELECT l.id, l.group_id, l.lesson_date, l.topic, l.notes, l.created_by, g.name
		FROM lessons l
		JOIN groups g ON g.id = l.group_id
		WHERE l.group_id = $1
		ORDER BY l.lesson_date DESC, l.created_at DESC`, groupID)
}

func GetLesson(ctx context.Context, database *sql.DB, id uuid.UUID) (*models.Lesson, error) {
	ls, err := queryLessons(ctx, database, `
		SELECT l.id, l.group_id, l.lesson_date, l.topic, l.notes, l.created_by, g.name
		FROM lessons l
		JOIN groups g ON g.id = l.group_id
		WHERE l.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(ls) == 0 {
		return nil, ErrNotFound
	}
	return &ls[0], nil
}

// ListLessonsBetween: уроки в [from, to] по датам. ownerID != uuid.Nil
// ограничивает выборку группами этого учителя.
func ListLessonsBetween(ctx context.Context, database *sql.DB, from, to time.Time, ownerID uuid.UUID) ([]models.Lesson, error) {
	return queryLessons(ctx, database, `
		SELECT l.id, l.group_id, l.lesson_date, l.topic, l.notes, l.created_by, g.name
		FROM lessons l
		JOIN groups g ON g.id = l.group_id
		WHERE l.lesson_date BETWEEN $1::date AND $2::date
		  AND ($3::uuid IS NULL OR g.teacher_id = $3 OR g.created_by = $3)
		ORDER BY l.lesson_date, g.name`, from, to, uuid.NullUUID{UUID: ownerID, Valid: ownerID != uuid.Nil})
}

func queryLessons(ctx context.Context, database *sql.DB, q string, args ...any) ([]models.Lesson, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Lesson
	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(&l.ID, &l.GroupID, &l.LessonDate, &l.Topic, &l.Notes, &l.CreatedBy, &l.GroupName); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
