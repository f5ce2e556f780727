package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/models"
)

type fakeDash struct {
	mu       sync.Mutex
	counts   map[string]int
	failing  map[string]bool
	children []uuid.UUID
	asked    []uuid.UUID
	owner    uuid.UUID
}

var errDown = errors.New("down")

func (f *fakeDash) Count(_ context.Context, table string) (int, error) {
	if f.failing[table] {
		return 0, errDown
	}
	return f.counts[table], nil
}
func (f *fakeDash) CountEvents(context.Context, time.Time) (int, error) {
	if f.failing["events"] {
		return 0, errDown
	}
	return f.counts["events"], nil
}
func (f *fakeDash) Upcoming(_ context.Context, _ time.Time, limit int) ([]models.SchoolEvent, error) {
	if f.failing["upcoming"] {
		return nil, errDown
	}
	return make([]models.SchoolEvent, limit), nil
}
func (f *fakeDash) Children(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return f.children, nil
}
func (f *fakeDash) RecentGrades(_ context.Context, students []uuid.UUID, _ int) ([]db.GradeRow, error) {
	f.mu.Lock()
	f.asked = students
	f.mu.Unlock()
	return []db.GradeRow{{}}, nil
}
func (f *fakeDash) DueHomeworks(context.Context, []uuid.UUID, time.Time, time.Time) ([]db.HomeworkRow, error) {
	return []db.HomeworkRow{{}, {}}, nil
}
func (f *fakeDash) Lessons(_ context.Context, _, _ time.Time, owner uuid.UUID) ([]models.Lesson, error) {
	f.mu.Lock()
	f.owner = owner
	f.mu.Unlock()
	return []models.Lesson{{}}, nil
}

func TestLoadDashboard_Degrades(t *testing.T) {
	src := &fakeDash{
		counts:  map[string]int{"groups": 3, "group_students": 12, "lessons": 40, "events": 2},
		failing: map[string]bool{"lessons": true, "upcoming": true},
	}
	d := loadDashboard(context.Background(), src, Actor{ID: uuid.New(), Role: models.Admin}, time.Now(), time.UTC)

	if d.Groups != "3" || d.Enrollments != "12" || d.Events != "2" {
		t.Fatalf("counts = %+v", d)
	}
	if d.Lessons != "-" {
		t.Fatalf("failed count must be '-', got %q", d.Lessons)
	}
	if !d.UpcomingFailed || d.Upcoming != nil {
		t.Fatal("upcoming failure not reported")
	}
	if len(d.Lessons7d) != 1 || src.owner != uuid.Nil {
		t.Fatalf("admin sees all lessons, owner = %v", src.owner)
	}
}

func TestLoadDashboard_RoleItems(t *testing.T) {
	kids := []uuid.UUID{uuid.New(), uuid.New()}
	src := &fakeDash{children: kids}
	parent := Actor{ID: uuid.New(), Role: models.Parent}

	d := loadDashboard(context.Background(), src, parent, time.Now(), time.UTC)
	if len(d.Upcoming) != upcomingEventsLimit {
		t.Fatalf("upcoming = %d", len(d.Upcoming))
	}
	if len(d.RecentGrades) != 1 || len(d.DueHomeworks) != 2 || d.Lessons7d != nil {
		t.Fatalf("parent items = %+v", d)
	}
	if len(src.asked) != 2 || src.asked[0] != kids[0] {
		t.Fatalf("parent must query children, asked %v", src.asked)
	}

	teacher := Actor{ID: uuid.New(), Role: models.Teacher}
	d = loadDashboard(context.Background(), src, teacher, time.Now(), time.UTC)
	if src.owner != teacher.ID || d.RecentGrades != nil {
		t.Fatalf("teacher lessons owner = %v", src.owner)
	}
}
