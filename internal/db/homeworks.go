package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/eliteclass/ediary/internal/ctxutil"
	"github.com/eliteclass/ediary/internal/models"
)

// HomeworkRow: домашнее задание с именем группы.
type HomeworkRow struct {
	models.Homework
	GroupName string
}

func CreateHomework(ctx context.Context, database *sql.DB, h models.Homework) (uuid.UUID, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var id uuid.UUID
	err := database.QueryRowContext(ctx, `
		INSERT INTO homeworks (group_id, title, description, due_date, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, h.GroupID, h.Title, h.Description, h.DueDate, h.CreatedBy).Scan(&id)
	return id, err
}

const homeworkSelect = `
	SELECT h.id, h.group_id, h.title, h.description, h.due_date, h.created_by, g.name
	FROM homeworks h
	JOIN groups g ON g.id = h.group_id`

// ListHomeworks: по сроку сдачи, без срока в конце.
func ListHomeworks(ctx context.Context, database *sql.DB, groupID uuid.UUID) ([]HomeworkRow, error) {
	return queryHomeworks(ctx, database, homeworkSelect+`
		WHERE h.group_id = $1
		ORDER BY h.due_date ASC NULLS LAST, h.created_at DESC`, groupID)
}

func GetHomework(ctx context.Context, database *sql.DB, id uuid.UUID) (*HomeworkRow, error) {
	hs, err := queryHomeworks(ctx, database, homeworkSelect+` WHERE h.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(hs) == 0 {
		return nil, ErrNotFound
	}
	return &hs[0], nil
}

// ListDueHomeworks: задания групп учеников со сроком в [from, to].
func ListDueHomeworks(ctx context.Context, database *sql.DB, studentIDs []uuid.UUID, from, to time.Time) ([]HomeworkRow, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	return queryHomeworks(ctx, database, homeworkSelect+`
		WHERE h.due_date BETWEEN $2::date AND $3::date
		  AND EXISTS (
			SELECT 1 FROM group_students gs
			WHERE gs.group_id = h.group_id AND gs.student_id = ANY($1::uuid[])
		  )
		ORDER BY h.due_date ASC`, pq.Array(uuidStrings(studentIDs)), from, to)
}

func queryHomeworks(ctx context.Context, database *sql.DB, q string, args ...any) ([]HomeworkRow, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []HomeworkRow
	for rows.Next() {
		var h HomeworkRow
		if err := rows.Scan(&h.ID, &h.GroupID, &h.Title, &h.Description, &h.DueDate, &h.CreatedBy, &h.GroupName); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// UpsertSubmission: одна сдача на (homework_id, student_id); новая загрузка
// заменяет путь к файлу и время.
func UpsertSubmission(ctx context.Context, database *sql.DB, homeworkID, studentID uuid.UUID, filePath string, at time.Time) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	_, err := database.ExecContext(ctx, `
		INSERT INTO homework_submissions (homework_id, student_id, status, file_path, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (homework_id, student_id)
		DO UPDATE SET status = EXCLUDED.status,
		              file_path = EXCLUDED.file_path,
		              submitted_at = EXCLUDED.submitted_at
	`, homeworkID, studentID, models.SubmissionSubmitted, filePath, at)
	return err
}

// SubmissionRow: сдача с именем ученика.
type SubmissionRow struct {
	models.Submission
	StudentName *string
}

const submissionSelect = `
	SELECT s.id, s.homework_id, s.student_id, s.status, s.file_path, s.submitted_at, h.title, p.full_name
	FROM homework_submissions s
	JOIN homeworks h ON h.id = s.homework_id
	LEFT JOIN profiles p ON p.id = s.student_id`

// ListGroupSubmissions: все сдачи группы, свежие сверху.
func ListGroupSubmissions(ctx context.Context, database *sql.DB, groupID uuid.UUID) ([]SubmissionRow, error) {
	return querySubmissions(ctx, database, submissionSelect+`
		WHERE h.group_id = $1
		ORDER BY s.submitted_at DESC NULLS LAST`, groupID)
}

// ListStudentSubmissions: сдачи ученика по заданиям группы, ключ: homework_id.
func ListStudentSubmissions(ctx context.Context, database *sql.DB, groupID, studentID uuid.UUID) (map[uuid.UUID]SubmissionRow, error) {
	rows, err := querySubmissions(ctx, database, submissionSelect+`
		WHERE h.group_id = $1 AND s.student_id = $2`, groupID, studentID)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]SubmissionRow, len(rows))
	for _, r := range rows {
		out[r.HomeworkID] = r
	}
	return out, nil
}

func querySubmissions(ctx context.Context, database *sql.DB, q string, args ...any) ([]SubmissionRow, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []SubmissionRow
	for rows.Next() {
		var s SubmissionRow
		if err := rows.Scan(&s.ID, &s.HomeworkID, &s.StudentID, &s.Status, &s.FilePath, &s.SubmittedAt,
			&s.HomeworkTitle, &s.StudentName); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
