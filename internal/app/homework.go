package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eliteclass/ediary/internal/access"
	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/metrics"
	"github.com/eliteclass/ediary/internal/models"
	"github.com/eliteclass/ediary/internal/render"
	"github.com/eliteclass/ediary/internal/storage"
)

type HomeworkInput struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	DueDate     string `form:"due_date"`
}

func CreateHomework(ctx context.Context, database *sql.DB, a Actor, groupID uuid.UUID, in HomeworkInput) error {
	if !access.Can(a.Role, access.ManageGroupContent) {
		return ErrForbidden
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Problem("Въведи заглавие за домашното.")
	}
	h := models.Homework{GroupID: groupID, Title: title, Description: optional(in.Description), CreatedBy: a.ID}
	if s := strings.TrimSpace(in.DueDate); s != "" {
		d, err := time.Parse(render.ISODate, s)
		if err != nil {
			return Problem("Невалиден срок.")
		}
		h.DueDate = &d
	}
	_, err := db.CreateHomework(ctx, database, h)
	return fail("добавяне на домашно", err)
}

// Upload: файл сдачи из формы.
type Upload struct {
	HomeworkID string
	FileName   string
	Size       int64
	Body       io.Reader
}

// Homeworks: сдача файлов и ссылки на них.
type Homeworks struct {
	DB      *sql.DB
	Store   *storage.Store
	Limiter *KeyedLimiter
	MaxSize int64
	Log     *zap.Logger
	Now     func() time.Time
}

func NewHomeworks(database *sql.DB, store *storage.Store, log *zap.Logger) *Homeworks {
	if log == nil {
		log = zap.NewNop()
	}
	return &Homeworks{DB: database, Store: store, Limiter: NewKeyedLimiter(), MaxSize: storage.MaxHomeworkSize, Log: log, Now: time.Now}
}

func (h *Homeworks) tooLarge() Problem {
	return Problem(fmt.Sprintf("Файлът е твърде голям. Максимум %dMB.", h.MaxSize>>20))
}

// CheckUpload: проверки до чтения файла и до обращения к хранилищу.
func (h *Homeworks) CheckUpload(a Actor, up Upload) (uuid.UUID, error) {
	if !access.Can(a.Role, access.SubmitHomework) {
		return uuid.Nil, Problem("Само ученик може да качва файл за домашно.")
	}
	id := parseID(up.HomeworkID)
	if id == uuid.Nil {
		return uuid.Nil, Problem("Липсва домашно за качване.")
	}
	if up.Body == nil || up.FileName == "" {
		return uuid.Nil, Problem("Избери файл.")
	}
	if up.Size > h.MaxSize {
		return uuid.Nil, h.tooLarge()
	}
	return id, nil
}

// Submit сохраняет файл по новому пути и обновляет единственную сдачу
// ученика; прежний файл удаляется.
func (h *Homeworks) Submit(ctx context.Context, a Actor, groupID uuid.UUID, up Upload) error {
	hwID, err := h.CheckUpload(a, up)
	if err != nil {
		return err
	}
	hw, err := db.GetHomework(ctx, h.DB, hwID)
	if errors.Is(err, db.ErrNotFound) || (err == nil && hw.GroupID != groupID) {
		return Problem("Липсва домашно за качване.")
	}
	if err != nil {
		return fail("качване", err)
	}

	unlock := h.Limiter.Lock(hwID.String() + ":" + a.ID.String())
	defer unlock()

	prev, err := db.ListStudentSubmissions(ctx, h.DB, groupID, a.ID)
	if err != nil {
		return fail("качване", err)
	}

	now := h.Now()
	key := storage.SubmissionKey(a.ID, hwID, now, up.FileName)
	if err := h.Store.Put(storage.BucketHomework, key, up.Body, h.MaxSize); err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return h.tooLarge()
		}
		return fail("качване", err)
	}
	if err := db.UpsertSubmission(ctx, h.DB, hwID, a.ID, key, now); err != nil {
		_ = h.Store.Remove(storage.BucketHomework, key)
		return fail("запис на домашното", err)
	}
	metrics.Uploads.WithLabelValues(storage.BucketHomework).Inc()

	if old, ok := prev[hwID]; ok && old.FilePath != nil && *old.FilePath != key {
		if err := h.Store.Remove(storage.BucketHomework, *old.FilePath); err != nil {
			h.Log.Warn("remove previous submission file", zap.Error(err), zap.String("key", *old.FilePath))
		}
	}
	return nil
}

// SubmissionView: сдача со ссылкой на скачивание, выпущенной для этого рендера.
type SubmissionView struct {
	db.SubmissionRow
	URL string
}

// Link: подписанная ссылка на 1 час; каждый рендер получает новую.
func (h *Homeworks) Link(row db.SubmissionRow) SubmissionView {
	v := SubmissionView{SubmissionRow: row}
	if row.FilePath != nil && *row.FilePath != "" {
		v.URL = h.Store.SignedURL(storage.BucketHomework, *row.FilePath, storage.SignedURLTTL)
	}
	return v
}

func (h *Homeworks) Links(rows []db.SubmissionRow) []SubmissionView {
	out := make([]SubmissionView, 0, len(rows))
	for _, r := range rows {
		out = append(out, h.Link(r))
	}
	return out
}
