package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/eliteclass/ediary/internal/ctxutil"
	"github.com/eliteclass/ediary/internal/models"
)

const eventSelect = `
	SELECT e.id, e.group_id, e.title, e.description, e.starts_at, e.ends_at, e.created_by, g.name
	FROM school_events e
	LEFT JOIN groups g ON g.id = e.group_id`

// ListEvents: события с началом в [from, to], по возрастанию. Незаданная
// граница не ограничивает выборку.
func ListEvents(ctx context.Context, database *sql.DB, from, to sql.NullTime) ([]models.SchoolEvent, error) {
	return queryEvents(ctx, database, eventSelect+`
		WHERE ($1::timestamptz IS NULL OR e.starts_at >= $1)
		  AND ($2::timestamptz IS NULL OR e.starts_at <= $2)
		ORDER BY e.starts_at ASC`, from, to)
}

// ListUpcomingEvents: ближайшие события начиная с from.
func ListUpcomingEvents(ctx context.Context, database *sql.DB, from time.Time, limit int) ([]models.SchoolEvent, error) {
	return queryEvents(ctx, database, eventSelect+`
		WHERE e.starts_at >= $1
		ORDER BY e.starts_at ASC
		LIMIT $2`, from, limit)
}

func GetEvent(ctx context.Context, database *sql.DB, id uuid.UUID) (*models.SchoolEvent, error) {
	evs, err := queryEvents(ctx, database, eventSelect+` WHERE e.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(evs) == 0 {
		return nil, ErrNotFound
	}
	return &evs[0], nil
}

func CreateEvent(ctx context.Context, database *sql.DB, e models.SchoolEvent) (uuid.UUID, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var id uuid.UUID
	err := database.QueryRowContext(ctx, `
		INSERT INTO school_events (group_id, title, description, starts_at, ends_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, e.GroupID, e.Title, e.Description, e.StartsAt, e.EndsAt, e.CreatedBy).Scan(&id)
	return id, err
}

func DeleteEvent(ctx context.Context, database *sql.DB, id uuid.UUID) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := database.ExecContext(ctx, `DELETE FROM school_events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func queryEvents(ctx context.Context, database *sql.DB, q string, args ...any) ([]models.SchoolEvent, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.SchoolEvent
	for rows.Next() {
		var e models.SchoolEvent
		if err := rows.Scan(&e.ID, &e.GroupID, &e.Title, &e.Description, &e.StartsAt, &e.EndsAt, &e.CreatedBy, &e.GroupName); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
