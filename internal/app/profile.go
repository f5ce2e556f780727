package app

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/metrics"
	"github.com/eliteclass/ediary/internal/models"
	"github.com/eliteclass/ediary/internal/storage"
)

// missingColumnNote: пояснение к заблокированным полям профиля.
const missingColumnNote = "Полето не е налично: липсва колона в базата (изпълнете миграциите)."

// ProfileField: поле формы профиля; Disabled, если колонки нет в схеме.
type ProfileField struct {
	Value    string
	Disabled bool
	Note     string
}

type ProfileView struct {
	Profile      models.Profile
	Email        string
	Phone        ProfileField
	Address      ProfileField
	TeacherTitle ProfileField
	Avatar       ProfileField
}

func field(v *string, present bool) ProfileField {
	f := ProfileField{}
	if v != nil {
		f.Value = *v
	}
	if !present {
		f.Disabled, f.Note = true, missingColumnNote
	}
	return f
}

// BuildProfileView: поля формы с учётом отсутствующих колонок.
func BuildProfileView(p models.Profile, email string, cols db.ProfileColumns) ProfileView {
	v := ProfileView{
		Profile:      p,
		Email:        email,
		Phone:        field(p.Phone, cols.Phone),
		Address:      field(p.Address, cols.Address),
		TeacherTitle: field(p.TeacherTitle, cols.TeacherTitle),
		Avatar:       field(p.AvatarURL, cols.AvatarURL),
	}
	if p.Role != models.Teacher && !v.TeacherTitle.Disabled {
		v.TeacherTitle.Disabled = true
		v.TeacherTitle.Note = "Само за учители."
	}
	return v
}

func LoadProfile(ctx context.Context, database *sql.DB, a Actor, email string) (ProfileView, db.ProfileColumns, error) {
	cols, err := db.DetectProfileColumns(ctx, database)
	if err != nil {
		return ProfileView{}, cols, fail("профил", err)
	}
	p, err := db.GetProfile(ctx, database, a.ID, cols)
	if err != nil {
		return ProfileView{}, cols, fail("профил", err)
	}
	return BuildProfileView(*p, email, cols), cols, nil
}

type ProfileForm struct {
	FullName     string `form:"full_name"`
	Phone        string `form:"phone"`
	Address      string `form:"address"`
	TeacherTitle string `form:"teacher_title"`
}

// UpdateOwnProfile: обращение меняет только учитель.
func UpdateOwnProfile(ctx context.Context, database *sql.DB, a Actor, in ProfileForm, cols db.ProfileColumns) error {
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return Problem("Въведи име.")
	}
	u := db.ProfileUpdate{FullName: &name, Phone: &in.Phone, Address: &in.Address}
	if a.Role == models.Teacher {
		title := strings.TrimSpace(in.TeacherTitle)
		if !slices.Contains(models.TeacherTitles, title) {
			return Problem("Невалидно обръщение.")
		}
		u.TeacherTitle = &title
	}
	return fail("запис на профил", db.UpdateProfile(ctx, database, a.ID, u, cols))
}

// SetAvatar сохраняет миниатюру в публичную корзину и пишет ссылку в профиль.
func SetAvatar(ctx context.Context, database *sql.DB, store *storage.Store, a Actor, size int64, body io.Reader, cols db.ProfileColumns) error {
	if !cols.AvatarURL {
		return Problem(missingColumnNote)
	}
	if body == nil {
		return Problem("Избери файл.")
	}
	if size > storage.MaxAvatarSize {
		return Problem("Файлът е твърде голям. Максимум 5MB.")
	}
	link, err := store.PutAvatar(a.ID, body, time.Now())
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		return Problem("Файлът е твърде голям. Максимум 5MB.")
	case errors.Is(err, storage.ErrNotImage):
		return Problem("Файлът не е изображение.")
	case err != nil:
		return fail("качване", err)
	}
	metrics.Uploads.WithLabelValues(storage.BucketAvatars).Inc()
	return fail("запис на профил", db.UpdateProfile(ctx, database, a.ID, db.ProfileUpdate{AvatarURL: &link}, cols))
}
