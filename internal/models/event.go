package models

import (
	"time"

	"github.com/google/uuid"
)

type SchoolEvent struct {
	ID          uuid.UUID     `db:"id"`
	GroupID     uuid.NullUUID `db:"group_id"`
	Title       string        `db:"title"`
	Description *string       `db:"description"`
	StartsAt    time.Time     `db:"starts_at"`
	EndsAt      *time.Time    `db:"ends_at"`
	CreatedBy   uuid.UUID     `db:"created_by"`

	GroupName *string `db:"group_name"`
}

// Global: событие без группы.
func (e SchoolEvent) Global() bool { return !e.GroupID.Valid }

// GroupLabel: имя группы или "Глобално".
func (e SchoolEvent) GroupLabel() string {
	if e.GroupName != nil && *e.GroupName != "" {
		return *e.GroupName
	}
	return "Глобално"
}
