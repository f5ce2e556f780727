package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/eliteclass/ediary/internal/ctxutil"
	"github.com/eliteclass/ediary/internal/models"
)

// ListAttendance: отметки урока по ученику.
func ListAttendance(ctx context.Context, database *sql.DB, lessonID uuid.UUID) (map[uuid.UUID]models.AttendanceStatus, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, `
		SELECT student_id, status FROM attendance WHERE lesson_id = $1
	`, lessonID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[uuid.UUID]models.AttendanceStatus)
	for rows.Next() {
		var id uuid.UUID
		var st string
		if err := rows.Scan(&id, &st); err != nil {
			return nil, err
		}
		out[id] = models.AttendanceStatus(st)
	}
	return out, rows.Err()
}

// SaveAttendance: один upsert на весь состав по (lesson_id, student_id).
// Ученики в marks не должны повторяться.
func SaveAttendance(ctx context.Context, database *sql.DB, lessonID uuid.UUID, marks []models.Attendance) error {
	if len(marks) == 0 {
		return nil
	}
	students := make([]string, 0, len(marks))
	statuses := make([]string, 0, len(marks))
	for _, m := range marks {
		students = append(students, m.StudentID.String())
		statuses = append(statuses, string(m.Status))
	}

	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	_, err := database.ExecContext(ctx, `
		INSERT INTO attendance (lesson_id, student_id, status)
		SELECT $1, s.student_id, s.status
		FROM unnest($2::uuid[], $3::text[]) AS s(student_id, status)
		ON CONFLICT (lesson_id, student_id)
		DO UPDATE SET status = EXCLUDED.status, updated_at = now()
	`, lessonID, pq.Array(students), pq.Array(statuses))
	return err
}

// AttendanceRow: строка в выгрузке посещаемости группы.
type AttendanceRow struct {
	LessonDate  string
	Topic       string
	StudentID   uuid.UUID
	StudentName *string
	Status      models.AttendanceStatus
}

func ListGroupAttendance(ctx context.Context, database *sql.DB, groupID uuid.UUID) ([]AttendanceRow, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, `
		SELECT to_char(l.lesson_date, 'DD.MM.YYYY'), l.topic, a.student_id, p.full_name, a.status
		FROM attendance a
		JOIN lessons l ON l.id = a.lesson_id
		LEFT JOIN profiles p ON p.id = a.student_id
		WHERE l.group_id = $1
		ORDER BY l.lesson_date DESC, p.full_name NULLS LAST
	`, groupID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []AttendanceRow
	for rows.Next() {
		var r AttendanceRow
		var st string
		if err := rows.Scan(&r.LessonDate, &r.Topic, &r.StudentID, &r.StudentName, &st); err != nil {
			return nil, err
		}
		r.Status = models.AttendanceStatus(st)
		out = append(out, r)
	}
	return out, rows.Err()
}
