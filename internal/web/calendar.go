package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eliteclass/ediary/internal/access"
	"github.com/eliteclass/ediary/internal/app"
	"github.com/eliteclass/ediary/internal/models"
)

type calendarEvent struct {
	models.SchoolEvent
	CanDelete bool
}

type calendarData struct {
	Window    app.Window
	KPIs      app.CalendarKPIs
	Events    []calendarEvent
	Groups    []models.Group
	CanCreate bool
	CanGlobal bool
}

// queryPtr: nil, если параметра нет; пустая строка сохраняется.
func queryPtr(c *gin.Context, key string) *string {
	if v, ok := c.GetQuery(key); ok {
		return &v
	}
	return nil
}

func (h *handlers) showCalendar(c *gin.Context, status int, f flash) {
	a := actor(c)
	ctx := c.Request.Context()
	now := h.Now()
	w := app.ParseWindow(now, queryPtr(c, "from"), queryPtr(c, "to"), h.Loc)

	data := calendarData{
		Window:    w,
		CanCreate: access.Can(a.Role, access.CreateGroupEvent) || access.Can(a.Role, access.CreateGlobalEvent),
		CanGlobal: access.Can(a.Role, access.CreateGlobalEvent),
	}
	events, err := app.ListEvents(ctx, h.DB, w)
	if err != nil {
		if f.Text == "" {
			f = errFlash(err)
		}
	} else {
		data.KPIs = app.SummarizeEvents(events, now)
		for _, e := range events {
			data.Events = append(data.Events, calendarEvent{SchoolEvent: e, CanDelete: access.CanDeleteEvent(a.Role, a.ID, e)})
		}
	}
	if data.CanCreate {
		gs, err := app.EventGroups(ctx, h.DB, a)
		if err != nil && f.Text == "" {
			f = errFlash(err)
		}
		data.Groups = gs
	}
	h.html(c, status, "calendar.html", "Календар", f, data)
}

func (h *handlers) calendarPage(c *gin.Context) {
	h.showCalendar(c, http.StatusOK, noticeFlash(c))
}

func (h *handlers) createEvent(c *gin.Context) {
	var in app.EventInput
	_ = c.ShouldBind(&in)
	if err := app.CreateEvent(c.Request.Context(), h.DB, actor(c), in, h.Loc); err != nil {
		h.showCalendar(c, http.StatusBadRequest, errFlash(err))
		return
	}
	c.Redirect(http.StatusSeeOther, back("/calendar", "event"))
}

func (h *handlers) deleteEvent(c *gin.Context) {
	if err := app.DeleteEvent(c.Request.Context(), h.DB, actor(c), c.Param("eid")); err != nil {
		h.showCalendar(c, http.StatusBadRequest, errFlash(err))
		return
	}
	c.Redirect(http.StatusSeeOther, back("/calendar", "event-deleted"))
}
