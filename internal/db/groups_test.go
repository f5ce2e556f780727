//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/eliteclass/ediary/internal/access"
	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/models"
)

func TestScopedGroupListing(t *testing.T) {
	h := startDB(t)
	ctx := context.Background()

	admin := mustSeedUser(t, h.DB, "Admin One", models.Admin)
	teacher := mustSeedUser(t, h.DB, "Teacher One", models.Teacher)
	other := mustSeedUser(t, h.DB, "Teacher Two", models.Teacher)
	st := mustSeedUser(t, h.DB, "Student One", models.Student)
	parent := mustSeedUser(t, h.DB, "Parent One", models.Parent)

	mustGroup(t, h.DB, "Owned by teacher", teacher, uuid.NullUUID{UUID: teacher, Valid: true})
	assigned := mustGroup(t, h.DB, "Assigned by admin", admin, uuid.NullUUID{UUID: teacher, Valid: true})
	mustGroup(t, h.DB, "Foreign", other, uuid.NullUUID{UUID: other, Valid: true})

	if err := db.Enroll(ctx, h.DB, assigned, st); err != nil {
		t.Fatal(err)
	}
	if err := db.CreateParentLink(ctx, h.DB, parent, st); err != nil {
		t.Fatal(err)
	}

	t.Run("teacher", func(t *testing.T) {
		gs, err := db.ListOwnedGroups(ctx, h.DB, teacher)
		if err != nil {
			t.Fatal(err)
		}
		if !sameSet(groupNames(gs), []string{"Owned by teacher", "Assigned by admin"}) {
			t.Fatalf("получили %v", groupNames(gs))
		}
	})
	t.Run("student", func(t *testing.T) {
		gs, err := db.ListEnrolledGroups(ctx, h.DB, st)
		if err != nil {
			t.Fatal(err)
		}
		if !sameSet(groupNames(gs), []string{"Assigned by admin"}) {
			t.Fatalf("получили %v", groupNames(gs))
		}
	})
	t.Run("parent", func(t *testing.T) {
		gs, err := db.ListLinkedChildrenGroups(ctx, h.DB, parent)
		if err != nil {
			t.Fatal(err)
		}
		if !sameSet(groupNames(gs), []string{"Assigned by admin"}) {
			t.Fatalf("получили %v", groupNames(gs))
		}
	})
	t.Run("admin", func(t *testing.T) {
		gs, err := db.ListAllGroups(ctx, h.DB)
		if err != nil {
			t.Fatal(err)
		}
		if len(gs) != 3 {
			t.Fatalf("админ видит всё, получили %v", groupNames(gs))
		}
	})
	t.Run("facts", func(t *testing.T) {
		facts := db.GroupFacts{DB: h.DB}
		ok, err := access.CanAccessGroup(ctx, facts, models.Parent, parent, assigned)
		if err != nil || !ok {
			t.Fatalf("родитель должен видеть группу ребёнка: %v %v", ok, err)
		}
		ok, err = access.CanAccessGroup(ctx, facts, models.Teacher, other, assigned)
		if err != nil || ok {
			t.Fatalf("чужой учитель не должен видеть группу: %v %v", ok, err)
		}
	})
}

func TestEnroll_Duplicate(t *testing.T) {
	h := startDB(t)
	ctx := context.Background()

	admin := mustSeedUser(t, h.DB, "Admin One", models.Admin)
	st := mustSeedUser(t, h.DB, "Student One", models.Student)
	gid := mustGroup(t, h.DB, "B1 Morning", admin, uuid.NullUUID{})

	if err := db.Enroll(ctx, h.DB, gid, st); err != nil {
		t.Fatal(err)
	}
	err := db.Enroll(ctx, h.DB, gid, st)
	if !db.IsUniqueViolation(err) {
		t.Fatalf("ожидали unique violation, получили %v", err)
	}

	roster, err := db.ListRoster(ctx, h.DB, gid)
	if err != nil || len(roster) != 1 {
		t.Fatalf("roster = %v, %v", roster, err)
	}
	if err := db.RemoveEnrollment(ctx, h.DB, gid, roster[0].ID); err != nil {
		t.Fatal(err)
	}
	if err := db.RemoveEnrollment(ctx, h.DB, gid, roster[0].ID); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("повторное удаление: %v", err)
	}
}

// Сценарий: группа видна только админу, пока в неё не записан ученик.
func TestGroupVisibilityScenario(t *testing.T) {
	h := startDB(t)
	ctx := context.Background()

	admin := mustSeedUser(t, h.DB, "Admin One", models.Admin)
	teacher := mustSeedUser(t, h.DB, "Teacher One", models.Teacher)
	st := mustSeedUser(t, h.DB, "Student S", models.Student)
	parent := mustSeedUser(t, h.DB, "Parent P", models.Parent)
	if err := db.CreateParentLink(ctx, h.DB, parent, st); err != nil {
		t.Fatal(err)
	}

	gid, err := db.CreateGroup(ctx, h.DB, models.Group{
		Name: "B1 Morning", Language: "English", Level: "B1", CreatedBy: admin,
	})
	if err != nil {
		t.Fatal(err)
	}

	count := func(list func() ([]models.Group, error)) int {
		t.Helper()
		gs, err := list()
		if err != nil {
			t.Fatal(err)
		}
		return len(gs)
	}
	all := func() ([]models.Group, error) { return db.ListAllGroups(ctx, h.DB) }
	owned := func() ([]models.Group, error) { return db.ListOwnedGroups(ctx, h.DB, teacher) }
	enrolled := func() ([]models.Group, error) { return db.ListEnrolledGroups(ctx, h.DB, st) }
	children := func() ([]models.Group, error) { return db.ListLinkedChildrenGroups(ctx, h.DB, parent) }

	if count(all) != 1 || count(owned) != 0 || count(enrolled) != 0 || count(children) != 0 {
		t.Fatal("до записи группу видит только админ")
	}

	if err := db.Enroll(ctx, h.DB, gid, st); err != nil {
		t.Fatal(err)
	}
	if count(enrolled) != 1 || count(children) != 1 {
		t.Fatal("после записи группа видна ученику и его родителю")
	}
	if count(owned) != 0 {
		t.Fatal("учитель без связи с группой по-прежнему её не видит")
	}
}
