package app

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/eliteclass/ediary/internal/access"
	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/models"
)

// ListGroups: группы в зоне видимости роли, новые сверху.
func ListGroups(ctx context.Context, database *sql.DB, a Actor) ([]models.Group, error) {
	var (
		gs  []models.Group
		err error
	)
	switch access.GroupScope(a.Role) {
	case access.ScopeAll:
		gs, err = db.ListAllGroups(ctx, database)
	case access.ScopeOwned:
		gs, err = db.ListOwnedGroups(ctx, database, a.ID)
	case access.ScopeEnrolled:
		gs, err = db.ListEnrolledGroups(ctx, database, a.ID)
	case access.ScopeLinkedChildren:
		gs, err = db.ListLinkedChildrenGroups(ctx, database, a.ID)
	}
	return gs, fail("зареждане", err)
}

type GroupInput struct {
	Name     string `form:"name"`
	Language string `form:"language"`
	Level    string `form:"level"`
}

func CreateGroup(ctx context.Context, database *sql.DB, a Actor, in GroupInput) (uuid.UUID, error) {
	name, lang, level := strings.TrimSpace(in.Name), strings.TrimSpace(in.Language), strings.TrimSpace(in.Level)
	if name == "" || lang == "" || level == "" {
		return uuid.Nil, Problem("Попълни всички полета.")
	}
	if !access.Can(a.Role, access.CreateGroup) {
		return uuid.Nil, Problem("Нямаш права да създаваш групи.")
	}
	g := models.Group{Name: name, Language: lang, Level: level, CreatedBy: a.ID}
	// учитель становится преподавателем группы, у админа поле пустое
	if a.Role == models.Teacher {
		g.TeacherID = uuid.NullUUID{UUID: a.ID, Valid: true}
	}
	id, err := db.CreateGroup(ctx, database, g)
	if err != nil {
		return uuid.Nil, fail("създаване", err)
	}
	return id, nil
}

// OpenGroup: проверка доступа и чтение группы. Без доступа ничего
// больше не читается.
func OpenGroup(ctx context.Context, database *sql.DB, a Actor, groupID uuid.UUID) (*models.Group, error) {
	ok, err := access.CanAccessGroup(ctx, db.GroupFacts{DB: database}, a.Role, a.ID, groupID)
	if err != nil {
		return nil, fail("проверка на достъп", err)
	}
	if !ok {
		return nil, ErrNoGroupAccess
	}
	g, err := db.GetGroup(ctx, database, groupID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrNoGroupAccess
	}
	if err != nil {
		return nil, fail("групата", err)
	}
	return g, nil
}

// EnrollStudent записывает в группу только существующий профиль ученика.
func EnrollStudent(ctx context.Context, database *sql.DB, a Actor, groupID uuid.UUID, rawStudentID string) error {
	if !access.Can(a.Role, access.ManageGroupContent) {
		return ErrForbidden
	}
	if strings.TrimSpace(rawStudentID) == "" {
		return Problem("Въведи student UUID.")
	}
	notStudent := Problem("Подаденият UUID не е валиден ученик.")
	studentID := parseID(rawStudentID)
	if studentID == uuid.Nil {
		return notStudent
	}
	p, err := db.GetProfile(ctx, database, studentID, db.ProfileColumns{})
	if errors.Is(err, db.ErrNotFound) {
		return notStudent
	}
	if err != nil {
		return fail("проверка на ученик", err)
	}
	if p.Role != models.Student {
		return notStudent
	}
	return fail("добавяне", db.Enroll(ctx, database, groupID, studentID))
}

func RemoveEnrollment(ctx context.Context, database *sql.DB, a Actor, groupID uuid.UUID, rawEnrollmentID string) error {
	if !access.Can(a.Role, access.ManageGroupContent) {
		return ErrForbidden
	}
	id := parseID(rawEnrollmentID)
	if id == uuid.Nil {
		return ErrNotFound
	}
	return fail("премахване", db.RemoveEnrollment(ctx, database, groupID, id))
}
