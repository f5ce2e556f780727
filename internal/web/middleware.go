package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eliteclass/ediary/internal/app"
	"github.com/eliteclass/ediary/internal/auth"
	"github.com/eliteclass/ediary/internal/ctxutil"
	"github.com/eliteclass/ediary/internal/metrics"
	"github.com/eliteclass/ediary/internal/observability"
	"github.com/eliteclass/ediary/internal/session"
)

const identityKey = "identity"

// accessLog: журнал запросов в zap вместо логгера gin.
func accessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		d := time.Since(start)
		metrics.ObserveRequest(route, c.Request.Method, strconv.Itoa(status), d)
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("took", d),
		}
		if uid, ok := ctxutil.UserID(c.Request.Context()); ok {
			fields = append(fields, zap.String("user", uid.String()))
		}
		if role, ok := ctxutil.Role(c.Request.Context()); ok {
			fields = append(fields, zap.String("role", role))
		}
		log.Info("http", fields...)
	}
}

func recoverer(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				observability.CapturePanic(c.FullPath(), r)
				log.Error("panic", zap.Any("panic", r), zap.String("path", c.Request.URL.Path))
				c.AbortWithStatus(http.StatusInternalServerError)
				_, _ = c.Writer.WriteString("Възникна неочаквана грешка. Опитай отново.")
			}
		}()
		c.Next()
	}
}

// withSession разбирает cookie; результат всегда лежит в контексте.
func (h *handlers) withSession(c *gin.Context) {
	token, _ := c.Cookie(auth.CookieName)
	id := h.Guard.Resolve(c.Request.Context(), token)
	c.Set(identityKey, id)
	if id.Kind != session.Unauthenticated {
		ctx := ctxutil.WithUserID(c.Request.Context(), id.AccountID)
		ctx = ctxutil.WithRole(ctx, string(id.Role()))
		c.Request = c.Request.WithContext(ctx)
	}
	c.Next()
}

func requireSession(c *gin.Context) {
	if identity(c).Kind == session.Unauthenticated {
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
		return
	}
	c.Next()
}

func identity(c *gin.Context) session.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(session.Identity); ok {
			return id
		}
	}
	return session.Identity{Kind: session.Unauthenticated}
}

// actor: роль берётся только из профиля; при LookupFailed прав нет.
func actor(c *gin.Context) app.Actor {
	id := identity(c)
	return app.Actor{ID: id.Profile.ID, Role: id.Role()}
}

func (h *handlers) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, token, int(auth.SessionTTL.Seconds()), "/", "", h.Secure, true)
}

func (h *handlers) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, "", -1, "/", "", h.Secure, true)
}
