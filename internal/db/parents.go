package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/eliteclass/ediary/internal/ctxutil"
	"github.com/eliteclass/ediary/internal/models"
)

func ListParentLinks(ctx context.Context, database *sql.DB) ([]models.ParentLink, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, `
		SELECT id, parent_id, student_id, created_at
		FROM parent_students
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.ParentLink
	for rows.Next() {
		var l models.ParentLink
		if err := rows.Scan(&l.ID, &l.ParentID, &l.StudentID, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// CreateParentLink: дубликат пары родитель/ученик даёт unique violation.
func CreateParentLink(ctx context.Context, database *sql.DB, parentID, studentID uuid.UUID) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	_, err := database.ExecContext(ctx, `
		INSERT INTO parent_students (parent_id, student_id) VALUES ($1, $2)
	`, parentID, studentID)
	return err
}

func DeleteParentLink(ctx context.Context, database *sql.DB, id uuid.UUID) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := database.ExecContext(ctx, `DELETE FROM parent_students WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// LinkedStudentIDs: дети родителя.
func LinkedStudentIDs(ctx context.Context, database *sql.DB, parentID uuid.UUID) ([]uuid.UUID, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, `
		SELECT student_id FROM parent_students WHERE parent_id = $1
	`, parentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func ListParentInvites(ctx context.Context, database *sql.DB) ([]models.ParentInvite, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, `
		SELECT id, parent_email, student_id, created_by, created_at, claimed_at
		FROM parent_student_invites
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.ParentInvite
	for rows.Next() {
		var i models.ParentInvite
		if err := rows.Scan(&i.ID, &i.ParentEmail, &i.StudentID, &i.CreatedBy, &i.CreatedAt, &i.ClaimedAt); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// CreateParentInvite сохраняет email в нижнем регистре.
func CreateParentInvite(ctx context.Context, database *sql.DB, email string, studentID, createdBy uuid.UUID) (uuid.UUID, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var id uuid.UUID
	err := database.QueryRowContext(ctx, `
		INSERT INTO parent_student_invites (parent_email, student_id, created_by)
		VALUES ($1, $2, $3)
		RETURNING id
	`, strings.ToLower(strings.TrimSpace(email)), studentID, createdBy).Scan(&id)
	return id, err
}

// DeleteParentInvite удаляет только неактивированное приглашение.
func DeleteParentInvite(ctx context.Context, database *sql.DB, id uuid.UUID) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := database.ExecContext(ctx, `
		DELETE FROM parent_student_invites WHERE id = $1 AND claimed_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var claimed bool
	err = database.QueryRowContext(ctx, `
		SELECT claimed_at IS NOT NULL FROM parent_student_invites WHERE id = $1
	`, id).Scan(&claimed)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrInviteClaimed
}

// ClaimParentInvites превращает приглашения на email родителя в связи.
// Возвращает число активированных приглашений.
func ClaimParentInvites(ctx context.Context, database *sql.DB, parentID uuid.UUID) (int, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var n int
	err := database.QueryRowContext(ctx, `SELECT claim_parent_links_for_current_user($1)`, parentID).Scan(&n)
	return n, err
}

func CountPendingInvites(ctx context.Context, database *sql.DB) (int, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var n int
	err := database.QueryRowContext(ctx, `
		SELECT count(*) FROM parent_student_invites WHERE claimed_at IS NULL
	`).Scan(&n)
	return n, err
}
