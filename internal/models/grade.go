package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

type Grade struct {
	ID          uuid.UUID `db:"id"`
	GroupID     uuid.UUID `db:"group_id"`
	StudentID   uuid.UUID `db:"student_id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	GradeValue  int       `db:"grade_value"`
	GradedOn    time.Time `db:"graded_on"`
	CreatedBy   uuid.UUID `db:"created_by"`
}

// GradeValues: оценки по шестибалльной системе.
var GradeValues = []int{2, 3, 4, 5, 6}

// GradeTypes: варианты заголовка оценки в форме.
var GradeTypes = []string{"Изпитване", "Тест", "Контролна", "Домашна работа", "Участие"}

var gradeLabels = map[int]string{
	2: "Слаб",
	3: "Среден",
	4: "Добър",
	5: "Много добър",
	6: "Отличен",
}

// GradeLabel возвращает словесную оценку и false для значений вне 2..6.
func GradeLabel(v int) (string, bool) {
	l, ok := gradeLabels[v]
	return l, ok
}

// GradeText: "5 - Много добър" либо просто число.
func GradeText(v int) string {
	if l, ok := GradeLabel(v); ok {
		return strconv.Itoa(v) + " - " + l
	}
	return strconv.Itoa(v)
}
