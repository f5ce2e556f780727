package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/models"
	"github.com/eliteclass/ediary/internal/render"
)

const (
	SheetGrades     = "Оценки"
	SheetAttendance = "Присъствия"
)

type sheet struct {
	title  string
	header []string
	rows   [][]string
}

// GroupWorkbook: выгрузка дневника группы: оценки и присутствия.
type GroupWorkbook struct {
	File *excelize.File
}

func NewGroupWorkbook(grades []db.GradeRow, attendance []db.AttendanceRow) (*GroupWorkbook, error) {
	sheets := []sheet{
		{title: SheetGrades, header: []string{"Дата", "Ученик", "Заглавие", "Оценка", "Описание"}},
		{title: SheetAttendance, header: []string{"Дата", "Тема", "Ученик", "Статус"}},
	}
	for _, g := range grades {
		sheets[0].rows = append(sheets[0].rows, []string{
			g.GradedOn.Format("02.01.2006"),
			studentName(g.StudentName, g.StudentID.String()),
			g.Title,
			models.GradeText(g.GradeValue),
			render.Dash(g.Description),
		})
	}
	for _, a := range attendance {
		sheets[1].rows = append(sheets[1].rows, []string{
			a.LessonDate,
			a.Topic,
			studentName(a.StudentName, a.StudentID.String()),
			a.Status.Label(),
		})
	}

	f := excelize.NewFile()
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.title); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.title); err != nil {
			return nil, fmt.Errorf("new sheet: %w", err)
		}
		if err := f.SetSheetRow(s.title, "A1", &s.header); err != nil {
			return nil, fmt.Errorf("header %s: %w", s.title, err)
		}
		for r, row := range s.rows {
			cell := fmt.Sprintf("A%d", r+2)
			if err := f.SetSheetRow(s.title, cell, &row); err != nil {
				return nil, fmt.Errorf("set row %s: %w", cell, err)
			}
		}
		if err := applyFormatting(f, s.title); err != nil {
			return nil, fmt.Errorf("format %s: %w", s.title, err)
		}
	}
	return &GroupWorkbook{File: f}, nil
}

func (w *GroupWorkbook) Write(out io.Writer) error {
	defer func() { _ = w.File.Close() }()
	return w.File.Write(out)
}

func studentName(name *string, fallback string) string {
	if name != nil && *name != "" {
		return *name
	}
	return fallback
}
