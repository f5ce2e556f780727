package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/eliteclass/ediary/internal/access"
	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/models"
	"github.com/eliteclass/ediary/internal/render"
)

const hoursWindowDays = 14

type Hours struct {
	Lessons []models.Lesson
	Today   int
	Week    int
	Total   int
}

// MyHours: уроки на ближайшие 14 дней; учитель видит только свои группы.
func MyHours(ctx context.Context, database *sql.DB, a Actor, now time.Time, loc *time.Location) (*Hours, error) {
	if !access.Can(a.Role, access.ViewMyHours) {
		return nil, ErrNoPageAccess
	}
	from := dayStart(now, loc)
	owner := uuid.Nil
	if a.Role == models.Teacher {
		owner = a.ID
	}
	ls, err := db.ListLessonsBetween(ctx, database, from, from.AddDate(0, 0, hoursWindowDays), owner)
	if err != nil {
		return nil, fail("часовете", err)
	}
	return SummarizeHours(ls, now, loc), nil
}

// SummarizeHours: сегодня, ближайшие 7 дней включительно, всего.
func SummarizeHours(ls []models.Lesson, now time.Time, loc *time.Location) *Hours {
	today := dayStart(now, loc).Format(render.ISODate)
	weekTo := dayStart(now, loc).AddDate(0, 0, 7).Format(render.ISODate)
	h := &Hours{Lessons: ls, Total: len(ls)}
	for _, l := range ls {
		d := l.LessonDate.Format(render.ISODate)
		if d == today {
			h.Today++
		}
		if d >= today && d <= weekTo {
			h.Week++
		}
	}
	return h
}

func dayStart(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
