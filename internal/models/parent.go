package models

import (
	"time"

	"github.com/google/uuid"
)

type ParentLink struct {
	ID        uuid.UUID `db:"id"`
	ParentID  uuid.UUID `db:"parent_id"`
	StudentID uuid.UUID `db:"student_id"`
	CreatedAt time.Time `db:"created_at"`
}

type ParentInvite struct {
	ID          uuid.UUID  `db:"id"`
	ParentEmail string     `db:"parent_email"`
	StudentID   uuid.UUID  `db:"student_id"`
	CreatedBy   uuid.UUID  `db:"created_by"`
	CreatedAt   time.Time  `db:"created_at"`
	ClaimedAt   *time.Time `db:"claimed_at"`
}

func (i ParentInvite) Claimed() bool { return i.ClaimedAt != nil }

func (i ParentInvite) StatusLabel() string {
	if i.Claimed() {
		return "Активирана"
	}
	return "Чака регистрация/вход"
}
