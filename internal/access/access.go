// Package access: таблица прав ролей. Все проверки здесь носят
// рекомендательный характер: реальное разграничение доступа остаётся за
// политиками хранилища.
package access

import (
	"context"

	"github.com/google/uuid"

	"github.com/eliteclass/ediary/internal/models"
)

type Action int

const (
	CreateGroup Action = iota
	// ManageGroupContent: уроки, оценки, домашние, присутствия и состав группы.
	ManageGroupContent
	CreateGlobalEvent
	CreateGroupEvent
	DeleteAnyEvent
	DeleteOwnEvent
	SubmitHomework
	ViewSubmissions
	ManageParentLinks
	ManageUsers
	ViewMyHours
)

var capabilities = map[models.Role]map[Action]bool{
	models.Admin: {
		CreateGroup:        true,
		ManageGroupContent: true,
		CreateGlobalEvent:  true,
		CreateGroupEvent:   true,
		DeleteAnyEvent:     true,
		DeleteOwnEvent:     true,
		ViewSubmissions:    true,
		ManageParentLinks:  true,
		ManageUsers:        true,
		ViewMyHours:        true,
	},
	models.Teacher: {
		CreateGroup:        true,
		ManageGroupContent: true,
		CreateGroupEvent:   true,
		DeleteOwnEvent:     true,
		ViewSubmissions:    true,
		ViewMyHours:        true,
	},
	models.Student: {
		SubmitHomework: true,
	},
	models.Parent: {},
}

// Can: единственная точка проверки прав роли.
func Can(role models.Role, a Action) bool {
	return capabilities[role][a]
}

// Scope: какие группы видит роль.
type Scope int

const (
	ScopeNone Scope = iota
	ScopeAll
	// ScopeOwned: teacher_id или created_by совпадает с пользователем.
	ScopeOwned
	ScopeEnrolled
	// ScopeLinkedChildren: группы всех привязанных учеников.
	ScopeLinkedChildren
)

var scopes = map[models.Role]Scope{
	models.Admin:   ScopeAll,
	models.Teacher: ScopeOwned,
	models.Student: ScopeEnrolled,
	models.Parent:  ScopeLinkedChildren,
}

func GroupScope(role models.Role) Scope {
	return scopes[role]
}

// GroupFacts отвечает на вопросы о связи пользователя с группой.
type GroupFacts interface {
	OwnsGroup(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	IsEnrolled(ctx context.Context, groupID, studentID uuid.UUID) (bool, error)
	LinkedChildEnrolled(ctx context.Context, groupID, parentID uuid.UUID) (bool, error)
}

// CanAccessGroup: доступ к странице конкретной группы.
func CanAccessGroup(ctx context.Context, facts GroupFacts, role models.Role, userID, groupID uuid.UUID) (bool, error) {
	if groupID == uuid.Nil {
		return false, nil
	}
	switch GroupScope(role) {
	case ScopeAll:
		return true, nil
	case ScopeOwned:
		return facts.OwnsGroup(ctx, groupID, userID)
	case ScopeEnrolled:
		return facts.IsEnrolled(ctx, groupID, userID)
	case ScopeLinkedChildren:
		return facts.LinkedChildEnrolled(ctx, groupID, userID)
	}
	return false, nil
}

// CanDeleteEvent: админ удаляет любое событие, учитель только своё.
func CanDeleteEvent(role models.Role, userID uuid.UUID, ev models.SchoolEvent) bool {
	if Can(role, DeleteAnyEvent) {
		return true
	}
	return Can(role, DeleteOwnEvent) && ev.CreatedBy == userID
}
