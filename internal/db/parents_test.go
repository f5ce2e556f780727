//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/models"
)

func TestClaimParentInvites(t *testing.T) {
	h := startDB(t)
	ctx := context.Background()

	admin := mustSeedUser(t, h.DB, "Admin One", models.Admin)
	st := mustSeedUser(t, h.DB, "Student One", models.Student)

	inviteID, err := db.CreateParentInvite(ctx, h.DB, "  A@X.com ", st, admin)
	if err != nil {
		t.Fatal(err)
	}

	// регистрация родителя с тем же email в другом регистре (аккаунты храним в нижнем)
	parentID, err := db.CreateAccount(ctx, h.DB, "a@x.com", "x", "Parent", string(models.Parent))
	if err != nil {
		t.Fatal(err)
	}
	if err := db.CreateProfile(ctx, h.DB, parentID, "Parent", models.Parent); err != nil {
		t.Fatal(err)
	}

	n, err := db.ClaimParentInvites(ctx, h.DB, parentID)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("ожидали 1 активированное приглашение, получили %d", n)
	}

	kids, err := db.LinkedStudentIDs(ctx, h.DB, parentID)
	if err != nil {
		t.Fatal(err)
	}
	if len(kids) != 1 || kids[0] != st {
		t.Fatalf("связь не создана: %v", kids)
	}

	invites, err := db.ListParentInvites(ctx, h.DB)
	if err != nil {
		t.Fatal(err)
	}
	if len(invites) != 1 || !invites[0].Claimed() || invites[0].ParentEmail != "a@x.com" {
		t.Fatalf("приглашение должно быть активировано: %+v", invites)
	}

	if err := db.DeleteParentInvite(ctx, h.DB, inviteID); !errors.Is(err, db.ErrInviteClaimed) {
		t.Fatalf("удаление активированного приглашения должно быть отклонено, получили %v", err)
	}

	// повторный вход ничего не меняет
	n, err = db.ClaimParentInvites(ctx, h.DB, parentID)
	if err != nil || n != 0 {
		t.Fatalf("повторная активация: %d, %v", n, err)
	}
}

func TestClaimParentInvites_NotParent(t *testing.T) {
	h := startDB(t)
	ctx := context.Background()

	admin := mustSeedUser(t, h.DB, "Admin One", models.Admin)
	st := mustSeedUser(t, h.DB, "Student One", models.Student)
	teacher := mustSeedUser(t, h.DB, "Teacher One", models.Teacher)

	// email учителя совпадает с приглашением, но роль не родитель
	if _, err := db.CreateParentInvite(ctx, h.DB, "teacher.one@example.com", st, admin); err != nil {
		t.Fatal(err)
	}
	n, err := db.ClaimParentInvites(ctx, h.DB, teacher)
	if err != nil || n != 0 {
		t.Fatalf("учитель не активирует приглашения: %d, %v", n, err)
	}
}

func TestDeleteParentInvite_Pending(t *testing.T) {
	h := startDB(t)
	ctx := context.Background()

	admin := mustSeedUser(t, h.DB, "Admin One", models.Admin)
	st := mustSeedUser(t, h.DB, "Student One", models.Student)

	id, err := db.CreateParentInvite(ctx, h.DB, "b@x.com", st, admin)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteParentInvite(ctx, h.DB, id); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteParentInvite(ctx, h.DB, id); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("ожидали ErrNotFound, получили %v", err)
	}
}

func TestDetectProfileColumns(t *testing.T) {
	h := startDB(t)
	cols, err := db.DetectProfileColumns(context.Background(), h.DB)
	if err != nil {
		t.Fatal(err)
	}
	if !cols.All() {
		t.Fatalf("после миграций все колонки на месте: %+v", cols)
	}
}
