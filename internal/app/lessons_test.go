package app

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/models"
)

func roster(names ...string) []db.RosterEntry {
	out := make([]db.RosterEntry, 0, len(names))
	for _, n := range names {
		out = append(out, db.RosterEntry{Enrollment: models.Enrollment{StudentID: uuid.New()}, StudentName: &n})
	}
	return out
}

func TestPrepareAttendance_NothingToSave(t *testing.T) {
	if _, err := PrepareAttendance(uuid.Nil, roster("Ана"), nil); !errors.Is(err, ErrNothingToSave) {
		t.Fatalf("no lesson: err = %v", err)
	}
	if _, err := PrepareAttendance(uuid.New(), nil, nil); !errors.Is(err, ErrNothingToSave) {
		t.Fatalf("empty roster: err = %v", err)
	}
}

func TestPrepareAttendance_DefaultsAndValidation(t *testing.T) {
	r := roster("Ана", "Боян")
	lesson := uuid.New()

	marks, err := PrepareAttendance(lesson, r, map[uuid.UUID]string{r[1].StudentID: "absent"})
	if err != nil {
		t.Fatal(err)
	}
	if len(marks) != 2 || marks[0].Status != models.Present || marks[1].Status != models.Absent {
		t.Fatalf("marks = %+v", marks)
	}
	if marks[0].LessonID != lesson {
		t.Fatal("lesson id not set")
	}

	if _, err := PrepareAttendance(lesson, r, map[uuid.UUID]string{r[0].StudentID: "sick"}); err == nil {
		t.Fatal("unknown status must be rejected")
	}
}

func TestRollCall(t *testing.T) {
	r := roster("Ана", "")
	rows := RollCall(r, map[uuid.UUID]models.AttendanceStatus{r[0].StudentID: models.Late})
	if rows[0].Status != models.Late || rows[0].StudentName != "Ана" {
		t.Fatalf("row0 = %+v", rows[0])
	}
	if rows[1].Status != models.Present || rows[1].StudentName != r[1].StudentID.String() {
		t.Fatalf("row1 = %+v", rows[1])
	}
}
