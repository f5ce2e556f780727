package models

import (
	"time"

	"github.com/google/uuid"
)

type Lesson struct {
	ID         uuid.UUID `db:"id"`
	GroupID    uuid.UUID `db:"group_id"`
	LessonDate time.Time `db:"lesson_date"`
	Topic      string    `db:"topic"`
	Notes      *string   `db:"notes"`
	CreatedBy  uuid.UUID `db:"created_by"`

	// GroupName заполняется только в выборках с join по groups.
	GroupName string `db:"group_name"`
}

type AttendanceStatus string

const (
	Present AttendanceStatus = "present"
	Late    AttendanceStatus = "late"
	Absent  AttendanceStatus = "absent"
)

// AttendanceStatuses: в порядке вывода в селекте.
var AttendanceStatuses = []AttendanceStatus{Present, Late, Absent}

func (s AttendanceStatus) Label() string {
	switch s {
	case Present:
		return "Присъства"
	case Late:
		return "Закъснял"
	case Absent:
		return "Отсъства"
	}
	return string(s)
}

// Valid: одно из трёх известных значений.
func (s AttendanceStatus) Valid() bool {
	return s == Present || s == Late || s == Absent
}

type Attendance struct {
	LessonID  uuid.UUID        `db:"lesson_id"`
	StudentID uuid.UUID        `db:"student_id"`
	Status    AttendanceStatus `db:"status"`
}
