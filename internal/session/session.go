// Package session определяет текущего пользователя запроса.
package session

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eliteclass/ediary/internal/auth"
	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/models"
)

type Kind int

const (
	Unauthenticated Kind = iota
	Authenticated
	// LookupFailed: сессия есть, но профиль прочитать не удалось.
	LookupFailed
)

// Identity: результат Resolve. Profile заполнен только для Authenticated.
type Identity struct {
	Kind      Kind
	AccountID uuid.UUID
	Email     string
	Profile   models.Profile
}

func (i Identity) Authenticated() bool { return i.Kind == Authenticated }

// Name: имя профиля, а без имени или при сбое сырой email.
func (i Identity) Name() string {
	if i.Kind == Authenticated && i.Profile.FullName != nil && *i.Profile.FullName != "" {
		return *i.Profile.FullName
	}
	return i.Email
}

func (i Identity) Role() models.Role {
	if i.Kind == Authenticated {
		return i.Profile.Role
	}
	return ""
}

// RoleLabel: при сбое чтения профиля роль неизвестна.
func (i Identity) RoleLabel() string {
	if i.Kind == LookupFailed {
		return "unknown"
	}
	return i.Role().Label()
}

// Store: то, что Guard читает и пишет в БД.
type Store interface {
	Account(ctx context.Context, id uuid.UUID) (*db.Account, error)
	Profile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	CreateProfile(ctx context.Context, id uuid.UUID, fullName string, role models.Role) error
	SetProfileName(ctx context.Context, id uuid.UUID, fullName string) error
	ClaimInvites(ctx context.Context, parentID uuid.UUID) (int, error)
}

type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

type Guard struct {
	Tokens TokenParser
	Store  Store
	Log    *zap.Logger
}

// Resolve никогда не возвращает ошибку: сбои чтения дают LookupFailed.
func (g *Guard) Resolve(ctx context.Context, token string) Identity {
	if token == "" {
		return Identity{Kind: Unauthenticated}
	}
	claims, err := g.Tokens.Parse(token)
	if err != nil {
		return Identity{Kind: Unauthenticated}
	}
	accountID, _ := claims.AccountID()
	failed := Identity{Kind: LookupFailed, AccountID: accountID, Email: claims.Email}

	acc, err := g.Store.Account(ctx, accountID)
	if errors.Is(err, db.ErrNotFound) {
		return Identity{Kind: Unauthenticated}
	}
	if err != nil {
		g.Log.Warn("session: account lookup failed", zap.Error(err))
		return failed
	}
	failed.Email = acc.Email

	p, err := g.Store.Profile(ctx, accountID)
	if errors.Is(err, db.ErrNotFound) {
		p, err = g.createProfile(ctx, acc)
	}
	if err != nil {
		g.Log.Warn("session: profile lookup failed", zap.Error(err), zap.String("account", accountID.String()))
		return failed
	}

	if (p.FullName == nil || strings.TrimSpace(*p.FullName) == "") && strings.TrimSpace(acc.MetaFullName) != "" {
		name := strings.TrimSpace(acc.MetaFullName)
		if err := g.Store.SetProfileName(ctx, p.ID, name); err != nil {
			g.Log.Warn("session: name sync failed", zap.Error(err))
		} else {
			p.FullName = &name
		}
	}

	return Identity{Kind: Authenticated, AccountID: accountID, Email: acc.Email, Profile: *p}
}

// createProfile: профиль по метаданным регистрации.
func (g *Guard) createProfile(ctx context.Context, acc *db.Account) (*models.Profile, error) {
	name := strings.TrimSpace(acc.MetaFullName)
	if name == "" {
		name = models.DefaultFullName
	}
	role := models.NormalizeSignupRole(acc.MetaRole)
	if err := g.Store.CreateProfile(ctx, acc.ID, name, role); err != nil {
		return nil, err
	}
	return g.Store.Profile(ctx, acc.ID)
}

// ClaimInvites: активация приглашений после входа родителя. Для остальных
// ролей ничего не делает.
func (g *Guard) ClaimInvites(ctx context.Context, id Identity) (int, error) {
	if id.Kind != Authenticated || id.Profile.Role != models.Parent {
		return 0, nil
	}
	return g.Store.ClaimInvites(ctx, id.Profile.ID)
}
