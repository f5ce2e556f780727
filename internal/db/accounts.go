package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/eliteclass/ediary/internal/ctxutil"
)

// Account: учётная запись входа; метаданные регистрации нужны для
// создания профиля при первом входе.
type Account struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	MetaFullName string
	MetaRole     string
	CreatedAt    time.Time
}

func CreateAccount(ctx context.Context, database *sql.DB, email, passwordHash, fullName, role string) (uuid.UUID, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var id uuid.UUID
	err := database.QueryRowContext(ctx, `
		INSERT INTO accounts (email, password_hash, meta_full_name, meta_role)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, email, passwordHash, fullName, role).Scan(&id)
	return id, err
}

func GetAccountByEmail(ctx context.Context, database *sql.DB, email string) (*Account, error) {
	return getAccount(ctx, database, `WHERE email = $1`, email)
}

func GetAccountByID(ctx context.Context, database *sql.DB, id uuid.UUID) (*Account, error) {
	return getAccount(ctx, database, `WHERE id = $1`, id)
}

func getAccount(ctx context.Context, database *sql.DB, where string, arg any) (*Account, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var a Account
	err := database.QueryRowContext(ctx, `
		SELECT id, email, password_hash, meta_full_name, meta_role, created_at
		FROM accounts `+where, arg).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &a.MetaFullName, &a.MetaRole, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func UpdatePasswordHash(ctx context.Context, database *sql.DB, id uuid.UUID, hash string) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := database.ExecContext(ctx, `UPDATE accounts SET password_hash = $1 WHERE id = $2`, hash, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func UpdateEmail(ctx context.Context, database *sql.DB, id uuid.UUID, email string) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := database.ExecContext(ctx, `UPDATE accounts SET email = $1 WHERE id = $2`, email, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func CreatePasswordReset(ctx context.Context, database *sql.DB, tokenHash string, accountID uuid.UUID, expiresAt time.Time) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	_, err := database.ExecContext(ctx, `
		INSERT INTO password_resets (token_hash, account_id, expires_at)
		VALUES ($1, $2, $3)
	`, tokenHash, accountID, expiresAt)
	return err
}

// ConsumePasswordReset: одноразовое использование токена; просроченные и
// уже использованные дают ErrNotFound.
func ConsumePasswordReset(ctx context.Context, database *sql.DB, tokenHash string) (uuid.UUID, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var id uuid.UUID
	err := database.QueryRowContext(ctx, `
		UPDATE password_resets
		SET used_at = now()
		WHERE token_hash = $1 AND used_at IS NULL AND expires_at > now()
		RETURNING account_id
	`, tokenHash).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, ErrNotFound
	}
	return id, err
}

// PurgePasswordResets удаляет использованные и просроченные токены.
func PurgePasswordResets(ctx context.Context, database *sql.DB) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := database.ExecContext(ctx, `
		DELETE FROM password_resets WHERE used_at IS NOT NULL OR expires_at <= now()
	`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
