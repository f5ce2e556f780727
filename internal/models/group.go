package models

import (
	"time"

	"github.com/google/uuid"
)

type Group struct {
	ID        uuid.UUID     `db:"id"`
	Name      string        `db:"name"`
	Language  string        `db:"language"`
	Level     string        `db:"level"`
	TeacherID uuid.NullUUID `db:"teacher_id"`
	CreatedBy uuid.UUID     `db:"created_by"`
	CreatedAt time.Time     `db:"created_at"`
}

// OwnedBy: учитель владеет группой, если он её преподаватель или автор.
func (g Group) OwnedBy(userID uuid.UUID) bool {
	return (g.TeacherID.Valid && g.TeacherID.UUID == userID) || g.CreatedBy == userID
}

// Enrollment: строка group_students.
type Enrollment struct {
	ID         uuid.UUID `db:"id"`
	GroupID    uuid.UUID `db:"group_id"`
	StudentID  uuid.UUID `db:"student_id"`
	EnrolledAt time.Time `db:"enrolled_at"`
}
