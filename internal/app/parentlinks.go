package app

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/eliteclass/ediary/internal/access"
	"github.com/eliteclass/ediary/internal/auth"
	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/models"
)

// ParentLinksPage: данные админки связей родитель/ученик.
type ParentLinksPage struct {
	Links   []models.ParentLink
	Invites []models.ParentInvite
}

func LoadParentLinks(ctx context.Context, database *sql.DB, a Actor) (*ParentLinksPage, error) {
	if !access.Can(a.Role, access.ManageParentLinks) {
		return nil, ErrNoPageAccess
	}
	links, err := db.ListParentLinks(ctx, database)
	if err != nil {
		return nil, fail("връзките", err)
	}
	invites, err := db.ListParentInvites(ctx, database)
	if err != nil {
		return nil, fail("поканите", err)
	}
	return &ParentLinksPage{Links: links, Invites: invites}, nil
}

func CreateParentLink(ctx context.Context, database *sql.DB, a Actor, rawParentID, rawStudentID string) error {
	if !access.Can(a.Role, access.ManageParentLinks) {
		return ErrForbidden
	}
	parentID, studentID := parseID(rawParentID), parseID(rawStudentID)
	if parentID == uuid.Nil || studentID == uuid.Nil {
		return Problem("Избери родител и ученик.")
	}
	return fail("добавяне", db.CreateParentLink(ctx, database, parentID, studentID))
}

func DeleteParentLink(ctx context.Context, database *sql.DB, a Actor, rawID string) error {
	if !access.Can(a.Role, access.ManageParentLinks) {
		return ErrForbidden
	}
	id := parseID(rawID)
	if id == uuid.Nil {
		return ErrNotFound
	}
	return fail("премахване", db.DeleteParentLink(ctx, database, id))
}

func CreateParentInvite(ctx context.Context, database *sql.DB, a Actor, email, rawStudentID string) error {
	if !access.Can(a.Role, access.ManageParentLinks) {
		return ErrForbidden
	}
	email = auth.NormalizeEmail(email)
	studentID := parseID(rawStudentID)
	if email == "" || !strings.Contains(email, "@") || studentID == uuid.Nil {
		return Problem("Въведи имейл и избери ученик.")
	}
	_, err := db.CreateParentInvite(ctx, database, email, studentID, a.ID)
	return fail("покана", err)
}

// DeleteParentInvite: активированную покана удалить нельзя.
func DeleteParentInvite(ctx context.Context, database *sql.DB, a Actor, rawID string) error {
	if !access.Can(a.Role, access.ManageParentLinks) {
		return ErrForbidden
	}
	id := parseID(rawID)
	if id == uuid.Nil {
		return ErrNotFound
	}
	err := db.DeleteParentInvite(ctx, database, id)
	if errors.Is(err, db.ErrInviteClaimed) {
		return Problem("Поканата вече е активирана и не може да бъде премахната.")
	}
	return fail("премахване на покана", err)
}
