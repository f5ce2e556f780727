package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/eliteclass/ediary/internal/ctxutil"
)

// счётчики дашборда; имя таблицы берётся только отсюда
var countableTables = map[string]bool{
	"groups":         true,
	"group_students": true,
	"lessons":        true,
}

func CountRows(ctx context.Context, database *sql.DB, table string) (int, error) {
	if !countableTables[table] {
		return 0, fmt.Errorf("count %q: table not allowed", table)
	}
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var n int
	err := database.QueryRowContext(ctx, `SELECT count(*) FROM `+table).Scan(&n)
	return n, err
}

func CountUpcomingEvents(ctx context.Context, database *sql.DB, from time.Time) (int, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var n int
	err := database.QueryRowContext(ctx, `
		SELECT count(*) FROM school_events WHERE starts_at >= $1
	`, from).Scan(&n)
	return n, err
}
