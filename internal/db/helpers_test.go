//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/models"
	"github.com/eliteclass/ediary/internal/testutil/testdb"
)

func startDB(t *testing.T) *testdb.DBHandle {
	t.Helper()
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(h.Close)
	return h
}

// mustSeedUser создаёт аккаунт и профиль с заданной ролью.
func mustSeedUser(t *testing.T, database *sql.DB, name string, role models.Role) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com"
	id, err := db.CreateAccount(ctx, database, email, "x", name, string(role))
	if err != nil {
		t.Fatalf("account %s: %v", name, err)
	}
	if err := db.CreateProfile(ctx, database, id, name, role); err != nil {
		t.Fatalf("profile %s: %v", name, err)
	}
	return id
}

func mustGroup(t *testing.T, database *sql.DB, name string, creator uuid.UUID, teacher uuid.NullUUID) uuid.UUID {
	t.Helper()
	id, err := db.CreateGroup(context.Background(), database, models.Group{
		Name: name, Language: "English", Level: "B1", TeacherID: teacher, CreatedBy: creator,
	})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func groupNames(gs []models.Group) []string {
	out := make([]string, 0, len(gs))
	for _, g := range gs {
		out = append(out, g.Name)
	}
	return out
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	m := map[string]int{}
	for _, s := range a {
		m[s]++
	}
	for _, s := range b {
		m[s]--
		if m[s] < 0 {
			return false
		}
	}
	return true
}
