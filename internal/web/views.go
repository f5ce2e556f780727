package web

import (
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eliteclass/ediary/internal/app"
	"github.com/eliteclass/ediary/internal/directory"
	"github.com/eliteclass/ediary/internal/metrics"
	"github.com/eliteclass/ediary/internal/models"
	"github.com/eliteclass/ediary/internal/observability"
	"github.com/eliteclass/ediary/internal/render"
	"github.com/eliteclass/ediary/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticDir embed.FS

func staticFS() fs.FS {
	sub, err := fs.Sub(staticDir, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func funcMap() template.FuncMap {
	fm := render.FuncMap()
	fm["option"] = directory.Option
	fm["grade"] = models.GradeText
	fm["str"] = func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	return fm
}

// flash: текст единственной строки статуса страницы.
type flash struct {
	Text string
	Err  bool
}

func okFlash(s string) flash { return flash{Text: s} }

// errFlash: сообщение об ошибке; отказы бэкенда считаются в метриках.
func errFlash(err error) flash {
	var f *app.Failure
	if errors.As(err, &f) {
		metrics.HandlerErrors.WithLabelValues(f.Op).Inc()
		observability.CaptureErr(f)
	}
	return flash{Text: app.Message(err), Err: true}
}

// notices: баннеры после PRG-редиректа (?notice=...).
var notices = map[string]string{
	"registered":     "Успешна регистрация. Сега влез в профила си.",
	"reset":          "Паролата е сменена успешно. Влез с новата парола.",
	"reset-sent":     "Изпратихме линк за смяна на парола. Провери имейла си.",
	"group":          "Групата е създадена.",
	"enrolled":       "Ученикът е добавен в групата.",
	"unenrolled":     "Ученикът е премахнат от групата.",
	"lesson":         "Урокът е добавен.",
	"attendance":     "Присъствията са записани.",
	"grade":          "Оценката е добавена успешно.",
	"homework":       "Домашното е добавено успешно.",
	"uploaded":       "Файлът е качен успешно.",
	"event":          "Събитието е добавено успешно.",
	"event-deleted":  "Събитието е изтрито.",
	"link":           "Връзката е добавена успешно.",
	"link-deleted":   "Връзката е премахната.",
	"invite":         "Поканата е създадена. При регистрация/вход с този имейл връзката ще се активира автоматично.",
	"invite-deleted": "Поканата е премахната.",
	"profile":        "Профилът е обновен успешно.",
	"avatar":         "Снимката е обновена.",
	"email":          "Имейлът е сменен успешно.",
	"password":       "Паролата е сменена успешно.",
	"user":           "Профилът е обновен успешно.",
}

// noticeFlash: баннер из query; claimed несёт количество активированных связей.
func noticeFlash(c *gin.Context) flash {
	key := c.Query("notice")
	switch key {
	case "":
		return flash{}
	case "claimed":
		n, _ := strconv.Atoi(c.Query("count"))
		return okFlash("Активирани връзки с деца: " + strconv.Itoa(n) + ".")
	case "reset-user":
		return okFlash("Изпратен е линк за смяна на парола към " + c.Query("email") + ".")
	}
	return okFlash(notices[key])
}

// page: общие поля всех страниц.
type page struct {
	Title string
	Me    session.Identity
	Flash flash
	Admin bool
	Role  models.Role
	Data  any
}

func (h *handlers) html(c *gin.Context, status int, tmpl, title string, f flash, data any) {
	id := identity(c)
	c.HTML(status, tmpl, page{
		Title: title,
		Me:    id,
		Flash: f,
		Admin: id.Role() == models.Admin,
		Role:  id.Role(),
		Data:  data,
	})
}

// denied: отказ в доступе вместо содержимого страницы.
func (h *handlers) denied(c *gin.Context, title string, err error) {
	h.html(c, http.StatusForbidden, "denied.html", title, errFlash(err), nil)
}
