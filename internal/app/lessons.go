package app

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eliteclass/ediary/internal/access"
	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/models"
	"github.com/eliteclass/ediary/internal/render"
)

type LessonInput struct {
	Date  string `form:"lesson_date"`
	Topic string `form:"topic"`
	Notes string `form:"notes"`
}

func CreateLesson(ctx context.Context, database *sql.DB, a Actor, groupID uuid.UUID, in LessonInput) error {
	if !access.Can(a.Role, access.ManageGroupContent) {
		return ErrForbidden
	}
	topic := strings.TrimSpace(in.Topic)
	date, err := time.Parse(render.ISODate, strings.TrimSpace(in.Date))
	if err != nil || topic == "" {
		return Problem("Попълни дата и тема за урока.")
	}
	_, err = db.CreateLesson(ctx, database, models.Lesson{
		GroupID:    groupID,
		LessonDate: date,
		Topic:      topic,
		Notes:      optional(in.Notes),
		CreatedBy:  a.ID,
	})
	return fail("създаване на урок", err)
}

// RollCallRow: строка формы присутствия.
type RollCallRow struct {
	StudentID   uuid.UUID
	StudentName string
	Status      models.AttendanceStatus
}

// RollCall: весь состав группы; без сохранённой отметки ученик присутствует.
func RollCall(roster []db.RosterEntry, marks map[uuid.UUID]models.AttendanceStatus) []RollCallRow {
	out := make([]RollCallRow, 0, len(roster))
	for _, r := range roster {
		st, ok := marks[r.StudentID]
		if !ok {
			st = models.Present
		}
		name := r.StudentID.String()
		if r.StudentName != nil && *r.StudentName != "" {
			name = *r.StudentName
		}
		out = append(out, RollCallRow{StudentID: r.StudentID, StudentName: name, Status: st})
	}
	return out
}

// PrepareAttendance собирает отметки по составу из значений формы.
// Без урока или без учеников: ErrNothingToSave.
func PrepareAttendance(lessonID uuid.UUID, roster []db.RosterEntry, form map[uuid.UUID]string) ([]models.Attendance, error) {
	if lessonID == uuid.Nil || len(roster) == 0 {
		return nil, ErrNothingToSave
	}
	seen := make(map[uuid.UUID]bool, len(roster))
	out := make([]models.Attendance, 0, len(roster))
	for _, r := range roster {
		if seen[r.StudentID] {
			continue
		}
		seen[r.StudentID] = true
		st := models.AttendanceStatus(strings.TrimSpace(form[r.StudentID]))
		if st == "" {
			st = models.Present
		}
		if !st.Valid() {
			return nil, Problem("Невалиден статус на присъствие.")
		}
		out = append(out, models.Attendance{LessonID: lessonID, StudentID: r.StudentID, Status: st})
	}
	return out, nil
}

// SaveAttendance: одна запись на весь состав выбранного урока.
func SaveAttendance(ctx context.Context, database *sql.DB, a Actor, groupID uuid.UUID, rawLessonID string, form map[uuid.UUID]string) error {
	if !access.Can(a.Role, access.ManageGroupContent) {
		return ErrForbidden
	}
	lessonID := parseID(rawLessonID)
	if lessonID == uuid.Nil {
		return ErrNothingToSave
	}
	lesson, err := db.GetLesson(ctx, database, lessonID)
	if errors.Is(err, db.ErrNotFound) || (err == nil && lesson.GroupID != groupID) {
		return ErrNothingToSave
	}
	if err != nil {
		return fail("запис на присъствия", err)
	}
	roster, err := db.ListRoster(ctx, database, groupID)
	if err != nil {
		return fail("зареждане на ученици", err)
	}
	marks, err := PrepareAttendance(lessonID, roster, form)
	if err != nil {
		return err
	}
	return fail("запис на присъствия", db.SaveAttendance(ctx, database, lessonID, marks))
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
