package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/eliteclass/ediary/internal/access"
	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/models"
)

// HomeworkItem: домашнее и, для ученика, его сдача.
type HomeworkItem struct {
	db.HomeworkRow
	Mine *SubmissionView
}

// GroupPage: всё для страницы группы. Manage: показывать формы учителя.
type GroupPage struct {
	Group     models.Group
	Manage    bool
	Submitter bool

	Roster    []db.RosterEntry
	Lessons   []models.Lesson
	Lesson    *models.Lesson
	RollCall  []RollCallRow
	Grades    []db.GradeRow
	Homeworks []HomeworkItem
	// Submissions: все сдачи группы, только для Manage.
	Submissions []SubmissionView
}

// LoadGroupPage: проверка доступа, затем последовательные чтения.
// lessonID может быть uuid.Nil.
func (h *Homeworks) LoadGroupPage(ctx context.Context, a Actor, groupID, lessonID uuid.UUID) (*GroupPage, error) {
	g, err := OpenGroup(ctx, h.DB, a, groupID)
	if err != nil {
		return nil, err
	}
	p := &GroupPage{
		Group:     *g,
		Manage:    access.Can(a.Role, access.ManageGroupContent),
		Submitter: access.Can(a.Role, access.SubmitHomework),
	}

	if p.Roster, err = db.ListRoster(ctx, h.DB, groupID); err != nil {
		return nil, fail("зареждане на ученици", err)
	}
	if p.Lessons, err = db.ListLessons(ctx, h.DB, groupID); err != nil {
		return nil, fail("зареждане на уроци", err)
	}
	if p.Manage && lessonID != uuid.Nil {
		for i := range p.Lessons {
			if p.Lessons[i].ID == lessonID {
				p.Lesson = &p.Lessons[i]
				break
			}
		}
		if p.Lesson != nil {
			marks, err := db.ListAttendance(ctx, h.DB, lessonID)
			if err != nil {
				return nil, fail("зареждане на присъствия", err)
			}
			p.RollCall = RollCall(p.Roster, marks)
		}
	}
	if p.Grades, err = db.ListGrades(ctx, h.DB, groupID); err != nil {
		return nil, fail("зареждане на оценки", err)
	}

	hws, err := db.ListHomeworks(ctx, h.DB, groupID)
	if err != nil {
		return nil, fail("зареждане на домашни", err)
	}
	var mine map[uuid.UUID]db.SubmissionRow
	if p.Submitter {
		if mine, err = db.ListStudentSubmissions(ctx, h.DB, groupID, a.ID); err != nil {
			return nil, fail("зареждане на предадени", err)
		}
	}
	for _, hw := range hws {
		item := HomeworkItem{HomeworkRow: hw}
		if s, ok := mine[hw.ID]; ok {
			v := h.Link(s)
			item.Mine = &v
		}
		p.Homeworks = append(p.Homeworks, item)
	}

	if access.Can(a.Role, access.ViewSubmissions) {
		subs, err := db.ListGroupSubmissions(ctx, h.DB, groupID)
		if err != nil {
			return nil, fail("зареждане на предадени", err)
		}
		p.Submissions = h.Links(subs)
	}
	return p, nil
}
