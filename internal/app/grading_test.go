package app

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/eliteclass/ediary/internal/models"
)

func TestBuildGrade(t *testing.T) {
	a := Actor{ID: uuid.New(), Role: models.Teacher}
	group := uuid.New()
	student := uuid.New()
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	g, err := BuildGrade(a, group, GradeInput{StudentID: student.String(), Title: "Тест", Value: "5"}, today)
	if err != nil {
		t.Fatal(err)
	}
	if g.GradeValue != 5 || !g.GradedOn.Equal(today) || g.CreatedBy != a.ID || g.GroupID != group {
		t.Fatalf("grade = %+v", g)
	}

	// значение вне 2..6 отклоняет база, не форма
	g, err = BuildGrade(a, group, GradeInput{StudentID: student.String(), Title: "Тест", Value: "9", GradedOn: "2025-02-01"}, today)
	if err != nil || g.GradeValue != 9 || g.GradedOn.Month() != time.February {
		t.Fatalf("grade = %+v, err = %v", g, err)
	}

	if _, err := BuildGrade(a, group, GradeInput{Title: "Тест", Value: "5"}, today); err == nil {
		t.Fatal("missing student must fail")
	}
}
