// Package web: HTTP-слой: gin-роутер, страницы и файлы.
package web

import (
	"context"
	"database/sql"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eliteclass/ediary/internal/app"
	"github.com/eliteclass/ediary/internal/auth"
	"github.com/eliteclass/ediary/internal/ctxutil"
	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/render"
	"github.com/eliteclass/ediary/internal/session"
	"github.com/eliteclass/ediary/internal/storage"
)

// Deps: всё, что нужно обработчикам.
type Deps struct {
	DB        *sql.DB
	Auth      *auth.Service
	Tokens    *auth.Tokens
	Guard     *session.Guard
	Store     *storage.Store
	Homeworks *app.Homeworks
	Cols      db.ProfileColumns
	Log       *zap.Logger
	Loc       *time.Location
	// Secure: cookie только по https.
	Secure bool
	Now    func() time.Time
}

type handlers struct {
	*Deps
}

func NewRouter(d *Deps) *gin.Engine {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Loc == nil {
		d.Loc = render.Location()
	}
	registerValidators()

	r := gin.New()
	r.Use(recoverer(d.Log), accessLog(d.Log))
	r.SetHTMLTemplate(template.Must(template.New("").Funcs(funcMap()).ParseFS(templatesFS, "templates/*.html")))
	r.StaticFS("/static", http.FS(staticFS()))

	h := &handlers{Deps: d}
	r.GET("/healthz", h.healthz)
	r.GET("/metrics", gin.WrapH(metricsHandler()))
	r.GET("/files/:bucket/*key", h.signedFile)
	r.GET("/public/avatars/*key", h.publicAvatar)

	r.Use(h.withSession)
	r.GET("/login", h.loginPage)
	r.POST("/login", h.login)
	r.GET("/register", h.registerPage)
	r.POST("/register", h.register)
	r.GET("/forgot-password", h.forgotPage)
	r.POST("/forgot-password", h.forgot)
	r.GET("/reset-password", h.resetPage)
	r.POST("/reset-password", h.reset)
	r.POST("/logout", h.logout)

	in := r.Group("/", requireSession)
	in.GET("/", h.dashboard)

	in.GET("/profile", h.profilePage)
	in.POST("/profile", h.updateProfile)
	in.POST("/profile/avatar", h.uploadAvatar)
	in.POST("/profile/email", h.changeEmail)
	in.POST("/profile/password", h.changePassword)

	in.GET("/groups", h.groupsPage)
	in.POST("/groups", h.createGroup)
	g := in.Group("/groups/:id")
	g.GET("", h.groupPage)
	g.POST("/enroll", h.enroll)
	g.POST("/enrollments/:eid/delete", h.removeEnrollment)
	g.POST("/lessons", h.createLesson)
	g.POST("/attendance", h.saveAttendance)
	g.POST("/grades", h.createGrade)
	g.POST("/homeworks", h.createHomework)
	g.POST("/submissions", h.submitHomework)
	g.GET("/export", h.exportGroup)

	in.GET("/calendar", h.calendarPage)
	in.POST("/calendar/events", h.createEvent)
	in.POST("/calendar/events/:eid/delete", h.deleteEvent)

	in.GET("/my-hours", h.myHours)

	adm := in.Group("/admin")
	adm.GET("/parent-links", h.parentLinksPage)
	adm.POST("/parent-links", h.createParentLink)
	adm.POST("/parent-links/:eid/delete", h.deleteParentLink)
	adm.POST("/parent-invites", h.createParentInvite)
	adm.POST("/parent-invites/:eid/delete", h.deleteParentInvite)
	adm.GET("/users", h.usersPage)
	adm.POST("/users/:eid", h.updateUser)
	adm.POST("/users/:eid/reset", h.sendUserReset)

	return r
}

type Server struct {
	srv  *http.Server
	done chan struct{}
}

// Start слушает addr до отмены ctx, затем останавливается с таймаутом.
func Start(ctx context.Context, addr string, handler http.Handler, log *zap.Logger) *Server {
	s := &Server{
		srv:  &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second},
		done: make(chan struct{}),
	}
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shCtx, cancel := ctxutil.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shCtx); err != nil {
			log.Warn("http shutdown", zap.Error(err))
		}
		close(s.done)
	}()
	log.Info("http server started", zap.String("addr", addr))
	return s
}

// Wait: до завершения Shutdown после отмены контекста.
func (s *Server) Wait() { <-s.done }
