package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eliteclass/ediary/internal/auth"
	"github.com/eliteclass/ediary/internal/metrics"
	"github.com/eliteclass/ediary/internal/session"
)

type loginForm struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type registerForm struct {
	FullName string `form:"full_name" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,strongpwd"`
	Role     string `form:"role" binding:"omitempty,oneof=teacher student parent"`
}

type forgotForm struct {
	Email string `form:"email" binding:"required,email"`
}

type resetForm struct {
	Token    string `form:"token" binding:"required"`
	Password string `form:"password" binding:"required,strongpwd"`
}

const weakPasswordMsg = "Грешка: слаба парола. Използвай главна и малка буква, цифра и символ."

func (h *handlers) loginPage(c *gin.Context) {
	if identity(c).Kind != session.Unauthenticated {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	h.html(c, http.StatusOK, "login.html", "Вход", noticeFlash(c), nil)
}

// login: после входа родителя активируются его приглашения.
func (h *handlers) login(c *gin.Context) {
	var f loginForm
	if err := c.ShouldBind(&f); err != nil {
		h.html(c, http.StatusBadRequest, "login.html", "Вход", flash{Text: "Попълни имейл и парола.", Err: true}, nil)
		return
	}
	acc, err := h.Auth.SignIn(c.Request.Context(), f.Email, f.Password)
	if err != nil {
		msg := "Грешка при вход: " + err.Error()
		if errors.Is(err, auth.ErrInvalidCredentials) {
			msg = "Грешка при вход: грешен имейл или парола."
		}
		h.html(c, http.StatusUnauthorized, "login.html", "Вход", flash{Text: msg, Err: true}, nil)
		return
	}
	token, err := h.Tokens.Issue(acc.ID, acc.Email)
	if err != nil {
		h.html(c, http.StatusInternalServerError, "login.html", "Вход", flash{Text: "Грешка при вход: " + err.Error(), Err: true}, nil)
		return
	}
	h.setSessionCookie(c, token)

	id := h.Guard.Resolve(c.Request.Context(), token)
	n, err := h.Guard.ClaimInvites(c.Request.Context(), id)
	if err != nil {
		h.Log.Warn("claim parent invites", zap.Error(err))
	}
	if n > 0 {
		metrics.InvitesClaimed.Add(float64(n))
		c.Redirect(http.StatusSeeOther, "/?notice=claimed&count="+strconv.Itoa(n))
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *handlers) registerPage(c *gin.Context) {
	h.html(c, http.StatusOK, "register.html", "Регистрация", flash{}, nil)
}

func (h *handlers) register(c *gin.Context) {
	var f registerForm
	if err := c.ShouldBind(&f); err != nil {
		msg := "Попълни всички полета с валидни стойности."
		if _, tag := failedTag(err); tag == "strongpwd" {
			msg = weakPasswordMsg
		}
		h.html(c, http.StatusBadRequest, "register.html", "Регистрация", flash{Text: msg, Err: true}, nil)
		return
	}
	_, err := h.Auth.SignUp(c.Request.Context(), auth.SignUpInput{
		FullName: f.FullName, Email: f.Email, Password: f.Password, Role: f.Role,
	})
	switch {
	case errors.Is(err, auth.ErrWeakPassword):
		h.html(c, http.StatusBadRequest, "register.html", "Регистрация", flash{Text: weakPasswordMsg, Err: true}, nil)
		return
	case errors.Is(err, auth.ErrEmailTaken):
		h.html(c, http.StatusConflict, "register.html", "Регистрация", flash{Text: "Грешка: този имейл вече е регистриран.", Err: true}, nil)
		return
	case err != nil:
		h.html(c, http.StatusInternalServerError, "register.html", "Регистрация", flash{Text: "Грешка: " + err.Error(), Err: true}, nil)
		return
	}
	c.Redirect(http.StatusSeeOther, "/login?notice=registered")
}

func (h *handlers) forgotPage(c *gin.Context) {
	h.html(c, http.StatusOK, "forgot.html", "Забравена парола", flash{}, nil)
}

func (h *handlers) forgot(c *gin.Context) {
	var f forgotForm
	if err := c.ShouldBind(&f); err != nil {
		h.html(c, http.StatusBadRequest, "forgot.html", "Забравена парола", flash{Text: "Въведи валиден имейл.", Err: true}, nil)
		return
	}
	if err := h.Auth.RequestPasswordReset(c.Request.Context(), f.Email); err != nil {
		h.html(c, http.StatusInternalServerError, "forgot.html", "Забравена парола", flash{Text: "Грешка: " + err.Error(), Err: true}, nil)
		return
	}
	c.Redirect(http.StatusSeeOther, "/login?notice=reset-sent")
}

func (h *handlers) resetPage(c *gin.Context) {
	h.html(c, http.StatusOK, "reset.html", "Нова парола", flash{}, c.Query("token"))
}

func (h *handlers) reset(c *gin.Context) {
	var f resetForm
	if err := c.ShouldBind(&f); err != nil {
		msg := "Линкът за смяна на парола е невалиден."
		if field, _ := failedTag(err); field == "Password" {
			msg = "Грешка: паролата не покрива изискванията."
		}
		h.html(c, http.StatusBadRequest, "reset.html", "Нова парола", flash{Text: msg, Err: true}, c.PostForm("token"))
		return
	}
	_, err := h.Auth.ResetPassword(c.Request.Context(), f.Token, f.Password)
	switch {
	case errors.Is(err, auth.ErrWeakPassword):
		h.html(c, http.StatusBadRequest, "reset.html", "Нова парола", flash{Text: "Грешка: паролата не покрива изискванията.", Err: true}, f.Token)
		return
	case errors.Is(err, auth.ErrResetLinkInvalid):
		h.html(c, http.StatusBadRequest, "reset.html", "Нова парола", flash{Text: "Линкът е изтекъл или вече е използван.", Err: true}, "")
		return
	case err != nil:
		h.html(c, http.StatusInternalServerError, "reset.html", "Нова парола", flash{Text: "Грешка: " + err.Error(), Err: true}, f.Token)
		return
	}
	c.Redirect(http.StatusSeeOther, "/login?notice=reset")
}

func (h *handlers) logout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, "/login")
}

// back: адрес возврата с баннером.
func back(path, notice string, extra ...string) string {
	q := url.Values{}
	q.Set("notice", notice)
	for i := 0; i+1 < len(extra); i += 2 {
		q.Set(extra[i], extra[i+1])
	}
	return path + "?" + q.Encode()
}
