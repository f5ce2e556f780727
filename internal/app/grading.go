package app

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eliteclass/ediary/internal/access"
	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/models"
	"github.com/eliteclass/ediary/internal/render"
)

type GradeInput struct {
	StudentID string `form:"student_id"`
	Title     string `form:"title"`
	Value     string `form:"grade_value"`
	GradedOn  string `form:"graded_on"`
}

// BuildGrade разбирает форму. Значение оценки не проверяется: диапазон 2..6
// проверяет CHECK в базе и его ошибка показывается пользователю.
func BuildGrade(a Actor, groupID uuid.UUID, in GradeInput, today time.Time) (models.Grade, error) {
	studentID := parseID(in.StudentID)
	title := strings.TrimSpace(in.Title)
	if studentID == uuid.Nil || title == "" {
		return models.Grade{}, Problem("Попълни всички полета за оценката.")
	}
	gradedOn := today
	if s := strings.TrimSpace(in.GradedOn); s != "" {
		d, err := time.Parse(render.ISODate, s)
		if err != nil {
			return models.Grade{}, Problem("Попълни всички полета за оценката.")
		}
		gradedOn = d
	}
	value, _ := strconv.Atoi(strings.TrimSpace(in.Value))
	return models.Grade{
		GroupID:    groupID,
		StudentID:  studentID,
		Title:      title,
		GradeValue: value,
		GradedOn:   gradedOn,
		CreatedBy:  a.ID,
	}, nil
}

func CreateGrade(ctx context.Context, database *sql.DB, a Actor, groupID uuid.UUID, in GradeInput, today time.Time) error {
	if !access.Can(a.Role, access.ManageGroupContent) {
		return ErrForbidden
	}
	g, err := BuildGrade(a, groupID, in, today)
	if err != nil {
		return err
	}
	_, err = db.CreateGrade(ctx, database, g)
	return fail("добавяне на оценка", err)
}
