package session

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/models"
)

// DBStore: Store поверх internal/db.
type DBStore struct {
	DB   *sql.DB
	Cols db.ProfileColumns
}

func (s DBStore) Account(ctx context.Context, id uuid.UUID) (*db.Account, error) {
	return db.GetAccountByID(ctx, s.DB, id)
}

func (s DBStore) Profile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	return db.GetProfile(ctx, s.DB, id, s.Cols)
}

func (s DBStore) CreateProfile(ctx context.Context, id uuid.UUID, fullName string, role models.Role) error {
	return db.CreateProfile(ctx, s.DB, id, fullName, role)
}

func (s DBStore) SetProfileName(ctx context.Context, id uuid.UUID, fullName string) error {
	return db.UpdateProfileName(ctx, s.DB, id, fullName)
}

func (s DBStore) ClaimInvites(ctx context.Context, parentID uuid.UUID) (int, error) {
	return db.ClaimParentInvites(ctx, s.DB, parentID)
}
