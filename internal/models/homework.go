package models

import (
	"time"

	"github.com/google/uuid"
)

type Homework struct {
	ID          uuid.UUID  `db:"id"`
	GroupID     uuid.UUID  `db:"group_id"`
	Title       string     `db:"title"`
	Description *string    `db:"description"`
	DueDate     *time.Time `db:"due_date"`
	CreatedBy   uuid.UUID  `db:"created_by"`
}

const SubmissionSubmitted = "submitted"

type Submission struct {
	ID          uuid.UUID  `db:"id"`
	HomeworkID  uuid.UUID  `db:"homework_id"`
	StudentID   uuid.UUID  `db:"student_id"`
	Status      string     `db:"status"`
	FilePath    *string    `db:"file_path"`
	SubmittedAt *time.Time `db:"submitted_at"`

	// HomeworkTitle: только для списка сдач по группе.
	HomeworkTitle string `db:"homework_title"`
}
