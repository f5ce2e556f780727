package app

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/eliteclass/ediary/internal/access"
	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/export"
)

// ExportGroup: книга Excel с оценками и присутствиями группы.
func ExportGroup(ctx context.Context, database *sql.DB, a Actor, groupID uuid.UUID) (*export.GroupWorkbook, string, error) {
	if !access.Can(a.Role, access.ManageGroupContent) {
		return nil, "", ErrForbidden
	}
	g, err := OpenGroup(ctx, database, a, groupID)
	if err != nil {
		return nil, "", err
	}
	grades, err := db.ListGrades(ctx, database, groupID)
	if err != nil {
		return nil, "", fail("оценки", err)
	}
	att, err := db.ListGroupAttendance(ctx, database, groupID)
	if err != nil {
		return nil, "", fail("присъствия", err)
	}
	wb, err := export.NewGroupWorkbook(grades, att)
	if err != nil {
		return nil, "", fail("експорт", err)
	}
	return wb, g.Name, nil
}
