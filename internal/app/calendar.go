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

// DefaultWindowDays: окно календаря по умолчанию от сегодняшнего дня.
const DefaultWindowDays = 60

// Window: период календаря. Незаданная граница (Valid=false) не ограничивает.
type Window struct {
	From, To       sql.NullTime
	FromStr, ToStr string
}

// ParseWindow: отсутствующий параметр даёт значение по умолчанию, пустой :
// открытую границу. Начало дня для from, конец дня для to.
func ParseWindow(now time.Time, from, to *string, loc *time.Location) Window {
	day := func(t time.Time) time.Time {
		y, m, d := t.In(loc).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
	today := day(now)
	w := Window{FromStr: today.Format(render.ISODate), ToStr: today.AddDate(0, 0, DefaultWindowDays).Format(render.ISODate)}
	if from != nil {
		w.FromStr = strings.TrimSpace(*from)
	}
	if to != nil {
		w.ToStr = strings.TrimSpace(*to)
	}
	if t, err := time.ParseInLocation(render.ISODate, w.FromStr, loc); err == nil {
		w.From = sql.NullTime{Time: t, Valid: true}
	} else {
		w.FromStr = ""
	}
	if t, err := time.ParseInLocation(render.ISODate, w.ToStr, loc); err == nil {
		w.To = sql.NullTime{Time: t.Add(24*time.Hour - time.Second), Valid: true}
	} else {
		w.ToStr = ""
	}
	return w
}

type CalendarKPIs struct {
	Total  int
	Next7  int
	Global int
}

// SummarizeEvents: всего, в ближайшие 7 дней от now, глобальных.
func SummarizeEvents(events []models.SchoolEvent, now time.Time) CalendarKPIs {
	k := CalendarKPIs{Total: len(events)}
	weekEnd := now.Add(7 * 24 * time.Hour)
	for _, e := range events {
		if !e.StartsAt.Before(now) && !e.StartsAt.After(weekEnd) {
			k.Next7++
		}
		if e.Global() {
			k.Global++
		}
	}
	return k
}

func ListEvents(ctx context.Context, database *sql.DB, w Window) ([]models.SchoolEvent, error) {
	evs, err := db.ListEvents(ctx, database, w.From, w.To)
	return evs, fail("зареждане на събития", err)
}

// EventGroups: группы для селектора: админ видит все, учитель свои.
func EventGroups(ctx context.Context, database *sql.DB, a Actor) ([]models.Group, error) {
	var (
		gs  []models.Group
		err error
	)
	switch {
	case access.Can(a.Role, access.CreateGlobalEvent):
		gs, err = db.ListAllGroups(ctx, database)
	case access.Can(a.Role, access.CreateGroupEvent):
		gs, err = db.ListOwnedGroups(ctx, database, a.ID)
	}
	return gs, fail("групите", err)
}

type EventInput struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	GroupID     string `form:"group_id"`
	StartsAt    string `form:"starts_at"`
	EndsAt      string `form:"ends_at"`
}

// ParseEvent разбирает форму; время в формате datetime-local в поясе loc.
// Пустой край допустим, непарсящийся: ошибка.
func ParseEvent(a Actor, in EventInput, loc *time.Location) (models.SchoolEvent, error) {
	ev := models.SchoolEvent{
		Title:       strings.TrimSpace(in.Title),
		Description: optional(in.Description),
		CreatedBy:   a.ID,
	}
	if id := parseID(in.GroupID); id != uuid.Nil {
		ev.GroupID = uuid.NullUUID{UUID: id, Valid: true}
	}
	if t, err := time.ParseInLocation(render.LocalDateTime, strings.TrimSpace(in.StartsAt), loc); err == nil {
		ev.StartsAt = t
	}
	if s := strings.TrimSpace(in.EndsAt); s != "" {
		t, err := time.ParseInLocation(render.LocalDateTime, s, loc)
		if err != nil {
			return ev, Problem("Невалиден край на събитието.")
		}
		ev.EndsAt = &t
	}
	return ev, nil
}

// ValidateEvent: правила создания события до записи в базу.
func ValidateEvent(role models.Role, ev models.SchoolEvent) error {
	if !access.Can(role, access.CreateGroupEvent) && !access.Can(role, access.CreateGlobalEvent) {
		return ErrForbidden
	}
	if ev.Title == "" || ev.StartsAt.IsZero() {
		return Problem("Попълни заглавие и начало.")
	}
	if ev.EndsAt != nil && ev.EndsAt.Before(ev.StartsAt) {
		return Problem("Краят не може да е преди началото.")
	}
	if ev.Global() && !access.Can(role, access.CreateGlobalEvent) {
		return Problem("Учител може да създава събития само за конкретна група.")
	}
	if !ev.Global() && !access.Can(role, access.CreateGroupEvent) {
		return ErrForbidden
	}
	return nil
}

func CreateEvent(ctx context.Context, database *sql.DB, a Actor, in EventInput, loc *time.Location) error {
	ev, err := ParseEvent(a, in, loc)
	if err != nil {
		return err
	}
	if err := ValidateEvent(a.Role, ev); err != nil {
		return err
	}
	// учитель создаёт события только для своих групп
	if ev.GroupID.Valid && !access.Can(a.Role, access.CreateGlobalEvent) {
		ok, err := db.GroupFacts{DB: database}.OwnsGroup(ctx, ev.GroupID.UUID, a.ID)
		if err != nil {
			return fail("групите", err)
		}
		if !ok {
			return Problem("Учител може да създава събития само за своя група.")
		}
	}
	_, err = db.CreateEvent(ctx, database, ev)
	return fail("създаване", err)
}

func DeleteEvent(ctx context.Context, database *sql.DB, a Actor, rawID string) error {
	id := parseID(rawID)
	if id == uuid.Nil {
		return ErrNotFound
	}
	ev, err := db.GetEvent(ctx, database, id)
	if errors.Is(err, db.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fail("изтриване", err)
	}
	if !access.CanDeleteEvent(a.Role, a.ID, *ev) {
		return ErrForbidden
	}
	return fail("изтриване", db.DeleteEvent(ctx, database, id))
}
