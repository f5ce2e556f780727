package web

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eliteclass/ediary/internal/access"
	"github.com/eliteclass/ediary/internal/app"
	"github.com/eliteclass/ediary/internal/export"
	"github.com/eliteclass/ediary/internal/models"
	"github.com/eliteclass/ediary/internal/render"
)

type groupsData struct {
	Groups    []models.Group
	CanCreate bool
}

func (h *handlers) showGroups(c *gin.Context, status int, f flash) {
	a := actor(c)
	gs, err := app.ListGroups(c.Request.Context(), h.DB, a)
	if err != nil && f.Text == "" {
		f = errFlash(err)
	}
	h.html(c, status, "groups.html", "Групи", f, groupsData{Groups: gs, CanCreate: access.Can(a.Role, access.CreateGroup)})
}

func (h *handlers) groupsPage(c *gin.Context) {
	h.showGroups(c, http.StatusOK, noticeFlash(c))
}

func (h *handlers) createGroup(c *gin.Context) {
	var in app.GroupInput
	_ = c.ShouldBind(&in)
	id, err := app.CreateGroup(c.Request.Context(), h.DB, actor(c), in)
	if err != nil {
		h.showGroups(c, http.StatusBadRequest, errFlash(err))
		return
	}
	c.Redirect(http.StatusSeeOther, back("/groups/"+id.String(), "group"))
}

type groupData struct {
	*app.GroupPage
	Statuses   []models.AttendanceStatus
	GradeTypes []string
	GradeVals  []int
	Today      string
}

func groupID(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// showGroup: страница группы; без доступа больше ничего не читается.
func (h *handlers) showGroup(c *gin.Context, status int, f flash, lessonID uuid.UUID) {
	p, err := h.Homeworks.LoadGroupPage(c.Request.Context(), actor(c), groupID(c), lessonID)
	if err != nil {
		h.denied(c, "Група", err)
		return
	}
	h.html(c, status, "group.html", p.Group.Name, f, groupData{
		GroupPage:  p,
		Statuses:   models.AttendanceStatuses,
		GradeTypes: models.GradeTypes,
		GradeVals:  models.GradeValues,
		Today:      h.Now().In(h.Loc).Format(render.ISODate),
	})
}

func (h *handlers) groupPage(c *gin.Context) {
	lessonID, _ := uuid.Parse(c.Query("lessonId"))
	h.showGroup(c, http.StatusOK, noticeFlash(c), lessonID)
}

// groupBack: возврат на страницу группы с сохранением lessonId.
func groupBack(c *gin.Context, notice string) string {
	path := "/groups/" + url.PathEscape(c.Param("id"))
	if l := strings.TrimSpace(c.PostForm("lesson_id")); l != "" {
		return back(path, notice, "lessonId", l)
	}
	return back(path, notice)
}

func (h *handlers) groupResult(c *gin.Context, err error, notice string) {
	if err != nil {
		lessonID, _ := uuid.Parse(c.PostForm("lesson_id"))
		h.showGroup(c, http.StatusBadRequest, errFlash(err), lessonID)
		return
	}
	c.Redirect(http.StatusSeeOther, groupBack(c, notice))
}

func (h *handlers) enroll(c *gin.Context) {
	err := app.EnrollStudent(c.Request.Context(), h.DB, actor(c), groupID(c), c.PostForm("student_id"))
	h.groupResult(c, err, "enrolled")
}

func (h *handlers) removeEnrollment(c *gin.Context) {
	err := app.RemoveEnrollment(c.Request.Context(), h.DB, actor(c), groupID(c), c.Param("eid"))
	h.groupResult(c, err, "unenrolled")
}

func (h *handlers) createLesson(c *gin.Context) {
	var in app.LessonInput
	_ = c.ShouldBind(&in)
	err := app.CreateLesson(c.Request.Context(), h.DB, actor(c), groupID(c), in)
	h.groupResult(c, err, "lesson")
}

// saveAttendance: статусы приходят полями status_<student uuid>.
func (h *handlers) saveAttendance(c *gin.Context) {
	_ = c.Request.ParseForm()
	form := make(map[uuid.UUID]string)
	for k, v := range c.Request.PostForm {
		raw, ok := strings.CutPrefix(k, "status_")
		if !ok || len(v) == 0 {
			continue
		}
		if id, err := uuid.Parse(raw); err == nil {
			form[id] = v[0]
		}
	}
	err := app.SaveAttendance(c.Request.Context(), h.DB, actor(c), groupID(c), c.PostForm("lesson_id"), form)
	h.groupResult(c, err, "attendance")
}

func (h *handlers) createGrade(c *gin.Context) {
	var in app.GradeInput
	_ = c.ShouldBind(&in)
	today, _ := time.Parse(render.ISODate, h.Now().In(h.Loc).Format(render.ISODate))
	err := app.CreateGrade(c.Request.Context(), h.DB, actor(c), groupID(c), in, today)
	h.groupResult(c, err, "grade")
}

func (h *handlers) createHomework(c *gin.Context) {
	var in app.HomeworkInput
	_ = c.ShouldBind(&in)
	err := app.CreateHomework(c.Request.Context(), h.DB, actor(c), groupID(c), in)
	h.groupResult(c, err, "homework")
}

// submitHomework: размер проверяется до чтения файла.
func (h *handlers) submitHomework(c *gin.Context) {
	up := app.Upload{HomeworkID: c.PostForm("homework_id")}
	if fh, err := c.FormFile("file"); err == nil {
		file, err := fh.Open()
		if err != nil {
			h.groupResult(c, err, "")
			return
		}
		defer func() { _ = file.Close() }()
		up.FileName, up.Size, up.Body = fh.Filename, fh.Size, file
	}
	err := h.Homeworks.Submit(c.Request.Context(), actor(c), groupID(c), up)
	h.groupResult(c, err, "uploaded")
}

func (h *handlers) exportGroup(c *gin.Context) {
	wb, name, err := app.ExportGroup(c.Request.Context(), h.DB, actor(c), groupID(c))
	if err != nil {
		h.denied(c, "Експорт", err)
		return
	}
	fileName := export.FileName(name, h.Now().In(h.Loc).Format(render.ISODate))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(fileName))
	if err := wb.Write(c.Writer); err != nil {
		h.Log.Warn("export write failed", zap.Error(err))
	}
}
