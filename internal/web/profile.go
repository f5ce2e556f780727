package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eliteclass/ediary/internal/app"
	"github.com/eliteclass/ediary/internal/auth"
	"github.com/eliteclass/ediary/internal/models"
)

type profileData struct {
	app.ProfileView
	Titles []string
}

func (h *handlers) showProfile(c *gin.Context, status int, f flash) {
	id := identity(c)
	v, _, err := app.LoadProfile(c.Request.Context(), h.DB, actor(c), id.Email)
	if err != nil {
		h.denied(c, "Профил", err)
		return
	}
	h.html(c, status, "profile.html", "Профил", f, profileData{ProfileView: v, Titles: models.TeacherTitles})
}

func (h *handlers) profilePage(c *gin.Context) {
	h.showProfile(c, http.StatusOK, noticeFlash(c))
}

func (h *handlers) updateProfile(c *gin.Context) {
	var f app.ProfileForm
	_ = c.ShouldBind(&f)
	if err := app.UpdateOwnProfile(c.Request.Context(), h.DB, actor(c), f, h.Cols); err != nil {
		h.showProfile(c, http.StatusBadRequest, errFlash(err))
		return
	}
	c.Redirect(http.StatusSeeOther, back("/profile", "profile"))
}

func (h *handlers) uploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		h.showProfile(c, http.StatusBadRequest, errFlash(app.Problem("Избери файл.")))
		return
	}
	file, err := fh.Open()
	if err != nil {
		h.showProfile(c, http.StatusBadRequest, errFlash(err))
		return
	}
	defer func() { _ = file.Close() }()

	if err := app.SetAvatar(c.Request.Context(), h.DB, h.Store, actor(c), fh.Size, file, h.Cols); err != nil {
		h.showProfile(c, http.StatusBadRequest, errFlash(err))
		return
	}
	c.Redirect(http.StatusSeeOther, back("/profile", "avatar"))
}

func (h *handlers) changeEmail(c *gin.Context) {
	email, err := h.Auth.ChangeEmail(c.Request.Context(), identity(c).AccountID, c.PostForm("email"))
	if err != nil {
		h.showProfile(c, http.StatusBadRequest, flash{Text: authMessage(err), Err: true})
		return
	}
	// в токене старый email, выпускаем новый
	if token, err := h.Tokens.Issue(identity(c).AccountID, email); err == nil {
		h.setSessionCookie(c, token)
	}
	c.Redirect(http.StatusSeeOther, back("/profile", "email"))
}

func (h *handlers) changePassword(c *gin.Context) {
	pw, confirm := c.PostForm("password"), c.PostForm("password_confirm")
	if pw != confirm {
		h.showProfile(c, http.StatusBadRequest, flash{Text: "Паролите не съвпадат.", Err: true})
		return
	}
	if err := h.Auth.ChangePassword(c.Request.Context(), identity(c).AccountID, pw); err != nil {
		h.showProfile(c, http.StatusBadRequest, flash{Text: authMessage(err), Err: true})
		return
	}
	c.Redirect(http.StatusSeeOther, back("/profile", "password"))
}

func authMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrWeakPassword):
		return weakPasswordMsg
	case errors.Is(err, auth.ErrInvalidEmail):
		return "Грешка: невалиден имейл."
	case errors.Is(err, auth.ErrEmailTaken):
		return "Грешка: този имейл вече е регистриран."
	}
	return "Грешка: " + err.Error()
}
