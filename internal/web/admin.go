package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eliteclass/ediary/internal/app"
	"github.com/eliteclass/ediary/internal/directory"
	"github.com/eliteclass/ediary/internal/models"
)

type parentLinksData struct {
	*app.ParentLinksPage
	Dir *directory.Directory
}

func (h *handlers) showParentLinks(c *gin.Context, status int, f flash) {
	ctx := c.Request.Context()
	p, err := app.LoadParentLinks(ctx, h.DB, actor(c))
	if err != nil {
		h.denied(c, "Родители и ученици", err)
		return
	}
	dir, err := directory.Load(ctx, h.DB)
	if err != nil {
		h.denied(c, "Родители и ученици", err)
		return
	}
	h.html(c, status, "parent_links.html", "Родители и ученици", f, parentLinksData{ParentLinksPage: p, Dir: dir})
}

func (h *handlers) parentLinksPage(c *gin.Context) {
	h.showParentLinks(c, http.StatusOK, noticeFlash(c))
}

func (h *handlers) parentLinksResult(c *gin.Context, err error, notice string) {
	if err != nil {
		h.showParentLinks(c, http.StatusBadRequest, errFlash(err))
		return
	}
	c.Redirect(http.StatusSeeOther, back("/admin/parent-links", notice))
}

func (h *handlers) createParentLink(c *gin.Context) {
	err := app.CreateParentLink(c.Request.Context(), h.DB, actor(c), c.PostForm("parent_id"), c.PostForm("student_id"))
	h.parentLinksResult(c, err, "link")
}

func (h *handlers) deleteParentLink(c *gin.Context) {
	h.parentLinksResult(c, app.DeleteParentLink(c.Request.Context(), h.DB, actor(c), c.Param("eid")), "link-deleted")
}

func (h *handlers) createParentInvite(c *gin.Context) {
	err := app.CreateParentInvite(c.Request.Context(), h.DB, actor(c), c.PostForm("email"), c.PostForm("student_id"))
	h.parentLinksResult(c, err, "invite")
}

func (h *handlers) deleteParentInvite(c *gin.Context) {
	h.parentLinksResult(c, app.DeleteParentInvite(c.Request.Context(), h.DB, actor(c), c.Param("eid")), "invite-deleted")
}

type usersData struct {
	Users  []models.AdminUser
	Roles  []models.Role
	Titles []string
}

func (h *handlers) showUsers(c *gin.Context, status int, f flash) {
	us, err := app.ListUsers(c.Request.Context(), h.DB, actor(c))
	if err != nil {
		h.denied(c, "Потребители", err)
		return
	}
	h.html(c, status, "users.html", "Потребители", f, usersData{Users: us, Roles: models.Roles, Titles: models.TeacherTitles})
}

func (h *handlers) usersPage(c *gin.Context) {
	h.showUsers(c, http.StatusOK, noticeFlash(c))
}

func (h *handlers) updateUser(c *gin.Context) {
	var in app.UserForm
	_ = c.ShouldBind(&in)
	if err := app.UpdateUser(c.Request.Context(), h.DB, actor(c), c.Param("eid"), in, h.Cols); err != nil {
		h.showUsers(c, http.StatusBadRequest, errFlash(err))
		return
	}
	c.Redirect(http.StatusSeeOther, back("/admin/users", "user"))
}

func (h *handlers) sendUserReset(c *gin.Context) {
	email, err := app.SendUserReset(c.Request.Context(), h.DB, h.Auth, actor(c), c.Param("eid"))
	if err != nil {
		h.showUsers(c, http.StatusBadRequest, errFlash(err))
		return
	}
	c.Redirect(http.StatusSeeOther, back("/admin/users", "reset-user", "email", email))
}
