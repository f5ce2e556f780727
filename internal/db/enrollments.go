package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/eliteclass/ediary/internal/ctxutil"
	"github.com/eliteclass/ediary/internal/models"
)

// RosterEntry: запись состава группы с именем ученика.
type RosterEntry struct {
	models.Enrollment
	StudentName *string
}

// ListRoster: состав группы, новые записи сверху.
func ListRoster(ctx context.Context, database *sql.DB, groupID uuid.UUID) ([]RosterEntry, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, `
		SELECT gs.id, gs.group_id, gs.student_id, gs.enrolled_at, p.full_name
		FROM group_students gs
		LEFT JOIN profiles p ON p.id = gs.student_id
		WHERE gs.group_id = $1
		ORDER BY gs.enrolled_at DESC
	`, groupID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []RosterEntry
	for rows.Next() {
		var e RosterEntry
		if err := rows.Scan(&e.ID, &e.GroupID, &e.StudentID, &e.EnrolledAt, &e.StudentName); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Enroll: повторная запись того же ученика даёт unique violation.
func Enroll(ctx context.Context, database *sql.DB, groupID, studentID uuid.UUID) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	_, err := database.ExecContext(ctx, `
		INSERT INTO group_students (group_id, student_id) VALUES ($1, $2)
	`, groupID, studentID)
	return err
}

func RemoveEnrollment(ctx context.Context, database *sql.DB, groupID, enrollmentID uuid.UUID) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := database.ExecContext(ctx, `
		DELETE FROM group_students WHERE id = $1 AND group_id = $2
	`, enrollmentID, groupID)
	if err != nil {
		return err
	}
	return expectOne(res)
}
