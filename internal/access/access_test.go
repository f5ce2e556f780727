package access

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/eliteclass/ediary/internal/models"
)

func TestCapabilityTable(t *testing.T) {
	type row struct {
		action                          Action
		admin, teacher, student, parent bool
	}
	rows := []row{
		{CreateGroup, true, true, false, false},
		{ManageGroupContent, true, true, false, false},
		{CreateGlobalEvent, true, false, false, false},
		{CreateGroupEvent, true, true, false, false},
		{DeleteAnyEvent, true, false, false, false},
		{DeleteOwnEvent, true, true, false, false},
		{SubmitHomework, false, false, true, false},
		{ViewSubmissions, true, true, false, false},
		{ManageParentLinks, true, false, false, false},
		{ManageUsers, true, false, false, false},
		{ViewMyHours, true, true, false, false},
	}
	for _, r := range rows {
		got := []bool{
			Can(models.Admin, r.action),
			Can(models.Teacher, r.action),
			Can(models.Student, r.action),
			Can(models.Parent, r.action),
		}
		want := []bool{r.admin, r.teacher, r.student, r.parent}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("action %d, роль %q: получили %v, ожидали %v", r.action, models.Roles[i], got[i], want[i])
			}
		}
	}
	if Can("janitor", CreateGroup) {
		t.Fatal("неизвестная роль не имеет прав")
	}
}

func TestGroupScope(t *testing.T) {
	cases := map[models.Role]Scope{
		models.Admin:   ScopeAll,
		models.Teacher: ScopeOwned,
		models.Student: ScopeEnrolled,
		models.Parent:  ScopeLinkedChildren,
		"janitor":      ScopeNone,
	}
	for r, want := range cases {
		if got := GroupScope(r); got != want {
			t.Fatalf("%q: получили %d, ожидали %d", r, got, want)
		}
	}
}

type fakeFacts struct {
	owns, enrolled, linked bool
	err                    error
	calls                  []string
}

func (f *fakeFacts) OwnsGroup(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	f.calls = append(f.calls, "owns")
	return f.owns, f.err
}

func (f *fakeFacts) IsEnrolled(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	f.calls = append(f.calls, "enrolled")
	return f.enrolled, f.err
}

func (f *fakeFacts) LinkedChildEnrolled(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	f.calls = append(f.calls, "linked")
	return f.linked, f.err
}

func TestCanAccessGroup(t *testing.T) {
	ctx := context.Background()
	user, group := uuid.New(), uuid.New()

	t.Run("admin_unconditional", func(t *testing.T) {
		f := &fakeFacts{}
		ok, err := CanAccessGroup(ctx, f, models.Admin, user, group)
		if err != nil || !ok {
			t.Fatalf("админ должен иметь доступ: %v %v", ok, err)
		}
		if len(f.calls) != 0 {
			t.Fatalf("для админа не нужны запросы, были %v", f.calls)
		}
	})

	t.Run("teacher_by_ownership", func(t *testing.T) {
		f := &fakeFacts{owns: true}
		ok, _ := CanAccessGroup(ctx, f, models.Teacher, user, group)
		if !ok || f.calls[0] != "owns" {
			t.Fatalf("ожидали проверку владения, calls=%v", f.calls)
		}
		f = &fakeFacts{enrolled: true, linked: true}
		if ok, _ := CanAccessGroup(ctx, f, models.Teacher, user, group); ok {
			t.Fatal("чужая группа недоступна учителю")
		}
	})

	t.Run("student_by_enrollment", func(t *testing.T) {
		f := &fakeFacts{enrolled: true}
		if ok, _ := CanAccessGroup(ctx, f, models.Student, user, group); !ok {
			t.Fatal("записанный ученик должен видеть группу")
		}
	})

	t.Run("parent_by_linked_child", func(t *testing.T) {
		f := &fakeFacts{linked: true}
		if ok, _ := CanAccessGroup(ctx, f, models.Parent, user, group); !ok {
			t.Fatal("родитель записанного ребёнка должен видеть группу")
		}
		f = &fakeFacts{owns: true, enrolled: true}
		if ok, _ := CanAccessGroup(ctx, f, models.Parent, user, group); ok {
			t.Fatal("без привязанного ребёнка доступа нет")
		}
	})

	t.Run("nil_group_or_unknown_role", func(t *testing.T) {
		if ok, _ := CanAccessGroup(ctx, &fakeFacts{}, models.Admin, user, uuid.Nil); ok {
			t.Fatal("без groupId доступа нет")
		}
		if ok, _ := CanAccessGroup(ctx, &fakeFacts{owns: true}, "janitor", user, group); ok {
			t.Fatal("неизвестная роль не имеет доступа")
		}
	})

	t.Run("lookup_error", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := CanAccessGroup(ctx, &fakeFacts{err: boom}, models.Student, user, group)
		if !errors.Is(err, boom) {
			t.Fatalf("ожидали ошибку поиска, получили %v", err)
		}
	})
}

func TestCanDeleteEvent(t *testing.T) {
	me, other := uuid.New(), uuid.New()
	mine := models.SchoolEvent{CreatedBy: me}
	theirs := models.SchoolEvent{CreatedBy: other}

	if !CanDeleteEvent(models.Admin, me, theirs) {
		t.Fatal("админ удаляет любое событие")
	}
	if !CanDeleteEvent(models.Teacher, me, mine) {
		t.Fatal("учитель удаляет своё событие")
	}
	if CanDeleteEvent(models.Teacher, me, theirs) {
		t.Fatal("учитель не удаляет чужое событие")
	}
	if CanDeleteEvent(models.Student, me, mine) || CanDeleteEvent(models.Parent, me, mine) {
		t.Fatal("ученик и родитель ничего не удаляют")
	}
}
