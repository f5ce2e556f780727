package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	Student Role = "student"
	Teacher Role = "teacher"
	Parent  Role = "parent"
	Admin   Role = "admin"
)

// Roles: все известные роли в порядке вывода в админке.
var Roles = []Role{Admin, Teacher, Student, Parent}

// ParseRole возвращает роль и признак того, что она известна.
// Неизвестная роль сохраняется как есть, чтобы её можно было показать.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	switch r {
	case Admin, Teacher, Student, Parent:
		return r, true
	}
	return r, false
}

// Label: подпись роли для интерфейса.
func (r Role) Label() string {
	switch r {
	case Admin:
		return "Администратор"
	case Teacher:
		return "Учител"
	case Student:
		return "Ученик"
	case Parent:
		return "Родител"
	case "":
		return "Неопределена"
	}
	return string(r)
}

// BadgeClass: css-класс бейджа роли.
func (r Role) BadgeClass() string {
	switch r {
	case Admin, Teacher, Student, Parent:
		return "elite-badge-" + string(r)
	}
	return ""
}

// NormalizeSignupRole: при саморегистрации админ недоступен, всё неизвестное: ученик.
func NormalizeSignupRole(s string) Role {
	switch Role(s) {
	case Teacher, Student, Parent:
		return Role(s)
	}
	return Student
}

// DefaultFullName: имя профиля, если при регистрации оно не было указано.
const DefaultFullName = "Потребител"

// TeacherTitles: допустимые обращения к учителю ("": без титла).
var TeacherTitles = []string{"", "г-н", "г-жа", "д-р"}

type Profile struct {
	ID           uuid.UUID `db:"id"`
	FullName     *string   `db:"full_name"`
	Role         Role      `db:"role"`
	Phone        *string   `db:"phone"`
	AvatarURL    *string   `db:"avatar_url"`
	TeacherTitle *string   `db:"teacher_title"`
	Address      *string   `db:"address"`
	CreatedAt    time.Time `db:"created_at"`
}

// DisplayName: имя или id, если имя пустое.
func (p Profile) DisplayName() string {
	if p.FullName != nil && *p.FullName != "" {
		return *p.FullName
	}
	return p.ID.String()
}

// AdminUser: строка из admin_list_users(): профиль плюс email аккаунта.
type AdminUser struct {
	Profile
	Email string `db:"email"`
}
