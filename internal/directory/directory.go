// Package directory: списки родителей и учеников для селекторов и имён.
package directory

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/models"
)

// Directory живёт один запрос.
type Directory struct {
	Parents  []models.Profile
	Students []models.Profile
	byID     map[uuid.UUID]models.Profile
}

type lister func(ctx context.Context, role models.Role) ([]models.Profile, error)

// Load читает родителей и учеников одним параллельным пакетом.
func Load(ctx context.Context, database *sql.DB) (*Directory, error) {
	return load(ctx, func(ctx context.Context, role models.Role) ([]models.Profile, error) {
		return db.ListProfilesByRole(ctx, database, role)
	})
}

func load(ctx context.Context, list lister) (*Directory, error) {
	d := &Directory{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ps, err := list(gctx, models.Parent)
		d.Parents = ps
		return err
	})
	g.Go(func() error {
		ss, err := list(gctx, models.Student)
		d.Students = ss
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	d.index()
	return d, nil
}

// FromProfiles: для тестов и страниц с уже загруженным списком.
func FromProfiles(parents, students []models.Profile) *Directory {
	d := &Directory{Parents: parents, Students: students}
	d.index()
	return d
}

func (d *Directory) index() {
	d.byID = make(map[uuid.UUID]models.Profile, len(d.Parents)+len(d.Students))
	for _, p := range d.Parents {
		d.byID[p.ID] = p
	}
	for _, p := range d.Students {
		d.byID[p.ID] = p
	}
}

// Name: имя профиля или id, если профиль не найден или без имени.
func (d *Directory) Name(id uuid.UUID) string {
	if p, ok := d.byID[id]; ok {
		return p.DisplayName()
	}
	return id.String()
}

// Option: подпись для <option>: "Имя (id)".
func Option(p models.Profile) string {
	return p.DisplayName() + " (" + p.ID.String() + ")"
}
