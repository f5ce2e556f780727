package jobs

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/metrics"
)

const (
	purgeResetsEvery    = time.Hour
	pendingInvitesEvery = time.Minute
)

// StartMaintenance: чистка просроченных ссылок сброса пароля и
// счётчик неактивированных приглашений.
func StartMaintenance(r *Runner, database *sql.DB) {
	r.Every(purgeResetsEvery, "purge_password_resets", PurgeResets(database, r.log))
	r.Every(pendingInvitesEvery, "pending_invites", RefreshPendingInvites(database))
}

func PurgeResets(database *sql.DB, log *zap.Logger) Job {
	return func(ctx context.Context) error {
		n, err := db.PurgePasswordResets(ctx, database)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info("password resets purged", zap.Int64("count", n))
		}
		return nil
	}
}

func RefreshPendingInvites(database *sql.DB) Job {
	return func(ctx context.Context) error {
		n, err := db.CountPendingInvites(ctx, database)
		if err != nil {
			return err
		}
		metrics.PendingInvites.Set(float64(n))
		return nil
	}
}
