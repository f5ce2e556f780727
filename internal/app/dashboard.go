package app

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/models"
)

const (
	upcomingEventsLimit = 5
	recentGradesLimit   = 5
	dueHomeworkDays     = 14
	upcomingLessonDays  = 7
)

// Dashboard: сводка на главной. Счётчик, который не удалось прочитать,
// выводится как "-".
type Dashboard struct {
	Groups      string
	Enrollments string
	Lessons     string
	Events      string

	Upcoming       []models.SchoolEvent
	UpcomingFailed bool

	// по роли: ученику и родителю оценки и домашние, учителю и админу уроки
	RecentGrades []db.GradeRow
	DueHomeworks []db.HomeworkRow
	Lessons7d    []models.Lesson
}

// dashboardSource: чтения дашборда; в тестах подменяется.
type dashboardSource interface {
	Count(ctx context.Context, table string) (int, error)
	CountEvents(ctx context.Context, from time.Time) (int, error)
	Upcoming(ctx context.Context, from time.Time, limit int) ([]models.SchoolEvent, error)
	Children(ctx context.Context, parentID uuid.UUID) ([]uuid.UUID, error)
	RecentGrades(ctx context.Context, students []uuid.UUID, limit int) ([]db.GradeRow, error)
	DueHomeworks(ctx context.Context, students []uuid.UUID, from, to time.Time) ([]db.HomeworkRow, error)
	Lessons(ctx context.Context, from, to time.Time, owner uuid.UUID) ([]models.Lesson, error)
}

type dbDashboard struct{ DB *sql.DB }

func (s dbDashboard) Count(ctx context.Context, table string) (int, error) {
	return db.CountRows(ctx, s.DB, table)
}
func (s dbDashboard) CountEvents(ctx context.Context, from time.Time) (int, error) {
	return db.CountUpcomingEvents(ctx, s.DB, from)
}
func (s dbDashboard) Upcoming(ctx context.Context, from time.Time, limit int) ([]models.SchoolEvent, error) {
	return db.ListUpcomingEvents(ctx, s.DB, from, limit)
}
func (s dbDashboard) Children(ctx context.Context, parentID uuid.UUID) ([]uuid.UUID, error) {
	return db.LinkedStudentIDs(ctx, s.DB, parentID)
}
func (s dbDashboard) RecentGrades(ctx context.Context, students []uuid.UUID, limit int) ([]db.GradeRow, error) {
	return db.ListRecentGrades(ctx, s.DB, students, limit)
}
func (s dbDashboard) DueHomeworks(ctx context.Context, students []uuid.UUID, from, to time.Time) ([]db.HomeworkRow, error) {
	return db.ListDueHomeworks(ctx, s.DB, students, from, to)
}
func (s dbDashboard) Lessons(ctx context.Context, from, to time.Time, owner uuid.UUID) ([]models.Lesson, error) {
	return db.ListLessonsBetween(ctx, s.DB, from, to, owner)
}

func LoadDashboard(ctx context.Context, database *sql.DB, a Actor, now time.Time, loc *time.Location) *Dashboard {
	return loadDashboard(ctx, dbDashboard{DB: database}, a, now, loc)
}

func loadDashboard(ctx context.Context, src dashboardSource, a Actor, now time.Time, loc *time.Location) *Dashboard {
	y, m, d := now.In(loc).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)
	dash := &Dashboard{}

	// ошибки не прерывают пакет: каждая читаемая величина деградирует сама
	var g errgroup.Group
	count := func(dst *string, fn func() (int, error)) {
		g.Go(func() error {
			n, err := fn()
			if err != nil {
				*dst = "-"
				return nil
			}
			*dst = strconv.Itoa(n)
			return nil
		})
	}
	count(&dash.Groups, func() (int, error) { return src.Count(ctx, "groups") })
	count(&dash.Enrollments, func() (int, error) { return src.Count(ctx, "group_students") })
	count(&dash.Lessons, func() (int, error) { return src.Count(ctx, "lessons") })
	count(&dash.Events, func() (int, error) { return src.CountEvents(ctx, today) })

	g.Go(func() error {
		evs, err := src.Upcoming(ctx, today, upcomingEventsLimit)
		dash.Upcoming, dash.UpcomingFailed = evs, err != nil
		return nil
	})

	g.Go(func() error {
		switch a.Role {
		case models.Student, models.Parent:
			students := []uuid.UUID{a.ID}
			if a.Role == models.Parent {
				kids, err := src.Children(ctx, a.ID)
				if err != nil {
					return nil
				}
				students = kids
			}
			if gr, err := src.RecentGrades(ctx, students, recentGradesLimit); err == nil {
				dash.RecentGrades = gr
			}
			if hw, err := src.DueHomeworks(ctx, students, today, today.AddDate(0, 0, dueHomeworkDays)); err == nil {
				dash.DueHomeworks = hw
			}
		case models.Teacher, models.Admin:
			owner := uuid.Nil
			if a.Role == models.Teacher {
				owner = a.ID
			}
			if ls, err := src.Lessons(ctx, today, today.AddDate(0, 0, upcomingLessonDays), owner); err == nil {
				dash.Lessons7d = ls
			}
		}
		return nil
	})

	_ = g.Wait()
	return dash
}
