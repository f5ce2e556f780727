package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eliteclass/ediary/internal/ctxutil"
	"github.com/eliteclass/ediary/internal/metrics"
)

func metricsHandler() http.Handler { return metrics.Handler() }

func (h *handlers) healthz(c *gin.Context) {
	ctx, cancel := ctxutil.WithTimeout(c.Request.Context(), 800*time.Millisecond)
	defer cancel()
	t0 := time.Now()
	if err := h.DB.PingContext(ctx); err != nil {
		c.String(http.StatusServiceUnavailable, "db not ok: "+err.Error())
		return
	}
	metrics.ObserveDBPing(time.Since(t0))
	c.String(http.StatusOK, "ok")
}
