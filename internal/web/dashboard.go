package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eliteclass/ediary/internal/app"
)

func (h *handlers) dashboard(c *gin.Context) {
	d := app.LoadDashboard(c.Request.Context(), h.DB, actor(c), h.Now(), h.Loc)
	h.html(c, http.StatusOK, "dashboard.html", "Табло", noticeFlash(c), d)
}

func (h *handlers) myHours(c *gin.Context) {
	hours, err := app.MyHours(c.Request.Context(), h.DB, actor(c), h.Now(), h.Loc)
	if err != nil {
		h.denied(c, "Моите часове", err)
		return
	}
	h.html(c, http.StatusOK, "hours.html", "Моите часове", flash{}, hours)
}
