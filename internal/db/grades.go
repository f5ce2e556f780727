package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/eliteclass/ediary/internal/ctxutil"
	"github.com/eliteclass/ediary/internal/models"
)

// GradeRow: оценка с именами ученика и группы для списков.
type GradeRow struct {
	models.Grade
	StudentName *string
	GroupName   string
}

// CreateGrade: значение не проверяется здесь, диапазон держит CHECK в схеме.
func CreateGrade(ctx context.Context, database *sql.DB, g models.Grade) (uuid.UUID, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var id uuid.UUID
	err := database.QueryRowContext(ctx, `
		INSERT INTO grades (group_id, student_id, title, description, grade_value, graded_on, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, g.GroupID, g.StudentID, g.Title, g.Description, g.GradeValue, g.GradedOn, g.CreatedBy).Scan(&id)
	return id, err
}

const gradeSelect = `
	SELECT gr.id, gr.group_id, gr.student_id, gr.title, gr.description, gr.grade_value,
	       gr.graded_on, gr.created_by, p.full_name, g.name
	FROM grades gr
	JOIN groups g ON g.id = gr.group_id
	LEFT JOIN profiles p ON p.id = gr.student_id`

func ListGrades(ctx context.Context, database *sql.DB, groupID uuid.UUID) ([]GradeRow, error) {
	return queryGrades(ctx, database, gradeSelect+`
		WHERE gr.group_id = $1
		ORDER BY gr.graded_on DESC, gr.created_at DESC`, groupID)
}

// ListRecentGrades: последние оценки указанных учеников.
func ListRecentGrades(ctx context.Context, database *sql.DB, studentIDs []uuid.UUID, limit int) ([]GradeRow, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	return queryGrades(ctx, database, gradeSelect+`
		WHERE gr.student_id = ANY($1::uuid[])
		ORDER BY gr.graded_on DESC, gr.created_at DESC
		LIMIT $2`, pq.Array(uuidStrings(studentIDs)), limit)
}

func queryGrades(ctx context.Context, database *sql.DB, q string, args ...any) ([]GradeRow, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []GradeRow
	for rows.Next() {
		var r GradeRow
		if err := rows.Scan(&r.ID, &r.GroupID, &r.StudentID, &r.Title, &r.Description, &r.GradeValue,
			&r.GradedOn, &r.CreatedBy, &r.StudentName, &r.GroupName); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
