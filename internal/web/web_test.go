package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/eliteclass/ediary/internal/app"
	"github.com/eliteclass/ediary/internal/auth"
	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/metrics"
	"github.com/eliteclass/ediary/internal/models"
	"github.com/eliteclass/ediary/internal/session"
	"github.com/eliteclass/ediary/internal/storage"
)

func init() { gin.SetMode(gin.TestMode) }

// memStore: сессии без базы.
type memStore struct {
	accounts map[uuid.UUID]*db.Account
	profiles map[uuid.UUID]*models.Profile
}

func (m *memStore) Account(_ context.Context, id uuid.UUID) (*db.Account, error) {
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return nil, db.ErrNotFound
}
func (m *memStore) Profile(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	if p, ok := m.profiles[id]; ok {
		return p, nil
	}
	return nil, db.ErrNotFound
}
func (m *memStore) CreateProfile(context.Context, uuid.UUID, string, models.Role) error { return nil }
func (m *memStore) SetProfileName(context.Context, uuid.UUID, string) error { return nil }
func (m *memStore) ClaimInvites(context.Context, uuid.UUID) (int, error) { return 0, nil }

type testEnv struct {
	router *gin.Engine
	tokens *auth.Tokens
	store  *storage.Store
	users  *memStore
	logs   *observer.ObservedLogs
	root   string
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	store, err := storage.New(root, "file-secret", "http://example.test")
	if err != nil {
		t.Fatal(err)
	}
	tokens := auth.NewTokens("session-secret")
	users := &memStore{accounts: map[uuid.UUID]*db.Account{}, profiles: map[uuid.UUID]*models.Profile{}}
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)
	r := NewRouter(&Deps{
		Tokens: tokens,
		Guard:  &session.Guard{Tokens: tokens, Store: users, Log: log},
		Store:  store,
		Log:    log,
	})
	return &testEnv{router: r, tokens: tokens, store: store, users: users, logs: logs, root: root}
}

// login: cookie для пользователя с ролью role.
func (e *testEnv) login(t *testing.T, role models.Role) *http.Cookie {
	t.Helper()
	id := uuid.New()
	name := "Тест"
	e.users.accounts[id] = &db.Account{ID: id, Email: string(role) + "@example.com"}
	e.users.profiles[id] = &models.Profile{ID: id, Role: role, FullName: &name}
	tok, err := e.tokens.Issue(id, string(role)+"@example.com")
	if err != nil {
		t.Fatal(err)
	}
	return &http.Cookie{Name: auth.CookieName, Value: tok}
}

func (e *testEnv) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestRequireSession_Redirects(t *testing.T) {
	e := newEnv(t)
	for _, p := range []string{"/", "/groups", "/calendar", "/admin/users"} {
		w := e.do(httptest.NewRequest(http.MethodGet, p, nil))
		if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
			t.Errorf("%s: code %d, location %q", p, w.Code, w.Header().Get("Location"))
		}
	}
	// мусорный токен: тоже гость
	w := e.do(httptest.NewRequest(http.MethodGet, "/", nil), &http.Cookie{Name: auth.CookieName, Value: "junk"})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("junk cookie: code %d", w.Code)
	}
}

func TestLoginPage_EscapesNotice(t *testing.T) {
	e := newEnv(t)
	q := url.Values{"notice": {"reset-user"}, "email": {`<script>alert(1)</script>`}}
	w := e.do(httptest.NewRequest(http.MethodGet, "/login?"+q.Encode(), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("code %d", w.Code)
	}
	body := w.Body.String()
	if strings.Contains(body, "<script>alert") {
		t.Fatal("notice rendered unescaped")
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Fatalf("escaped text missing: %s", body)
	}
}

func TestLoginPage_AuthenticatedRedirects(t *testing.T) {
	e := newEnv(t)
	w := e.do(httptest.NewRequest(http.MethodGet, "/login", nil), e.login(t, models.Student))
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/" {
		t.Fatalf("code %d, location %q", w.Code, w.Header().Get("Location"))
	}
}

func TestRegister_WeakPassword(t *testing.T) {
	e := newEnv(t)
	form := url.Values{"full_name": {"Ана"}, "email": {"ana@example.com"}, "password": {"abcdefgh"}, "role": {"student"}}
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := e.do(req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "слаба парола") {
		t.Fatalf("weak password message missing: %s", w.Body.String())
	}
}

func TestMyHours_StudentDenied(t *testing.T) {
	e := newEnv(t)
	w := e.do(httptest.NewRequest(http.MethodGet, "/my-hours", nil), e.login(t, models.Student))
	if w.Code != http.StatusForbidden {
		t.Fatalf("code %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Нямаш достъп до тази страница.") {
		t.Fatalf("denial missing: %s", w.Body.String())
	}
}

func TestParentPages_NonAdminDenied(t *testing.T) {
	e := newEnv(t)
	cookie := e.login(t, models.Teacher)
	for _, p := range []string{"/admin/parent-links", "/admin/users"} {
		w := e.do(httptest.NewRequest(http.MethodGet, p, nil), cookie)
		if w.Code != http.StatusForbidden {
			t.Errorf("%s: code %d", p, w.Code)
		}
	}
}

func TestSignedFile(t *testing.T) {
	e := newEnv(t)
	key := "s1/h1/1-notes.txt"
	if err := e.store.Put(storage.BucketHomework, key, strings.NewReader("hello"), 1024); err != nil {
		t.Fatal(err)
	}
	signed := e.store.SignedURL(storage.BucketHomework, key, storage.SignedURLTTL)
	path := strings.TrimPrefix(signed, "http://example.test")

	w := e.do(httptest.NewRequest(http.MethodGet, path, nil))
	if w.Code != http.StatusOK || w.Body.String() != "hello" {
		t.Fatalf("signed: code %d, body %q", w.Code, w.Body.String())
	}

	w = e.do(httptest.NewRequest(http.MethodGet, "/files/"+storage.BucketHomework+"/"+key, nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("unsigned: code %d", w.Code)
	}
}

func TestPublicAvatar(t *testing.T) {
	e := newEnv(t)
	dir := filepath.Join(e.root, storage.BucketAvatars, "u1")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "1.jpg"), []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	if w := e.do(httptest.NewRequest(http.MethodGet, "/public/avatars/u1/1.jpg", nil)); w.Code != http.StatusOK {
		t.Fatalf("avatar: code %d", w.Code)
	}
	if w := e.do(httptest.NewRequest(http.MethodGet, "/public/avatars/u1/none.jpg", nil)); w.Code != http.StatusNotFound {
		t.Fatalf("missing avatar: code %d", w.Code)
	}
}

func TestBack(t *testing.T) {
	if got := back("/groups/x", "lesson", "lessonId", "42"); got != "/groups/x?lessonId=42&notice=lesson" {
		t.Fatalf("back = %q", got)
	}
}

func TestAccessLog_CarriesIdentity(t *testing.T) {
	e := newEnv(t)
	e.do(httptest.NewRequest(http.MethodGet, "/my-hours", nil), e.login(t, models.Student))
	e.do(httptest.NewRequest(http.MethodGet, "/login", nil))

	entries := e.logs.FilterMessage("http").All()
	if len(entries) != 2 {
		t.Fatalf("ожидали 2 записи, получили %d", len(entries))
	}
	m := entries[0].ContextMap()
	if m["route"] != "/my-hours" || m["role"] != string(models.Student) || m["user"] == nil {
		t.Fatalf("поля записи: %v", m)
	}
	if _, ok := entries[1].ContextMap()["user"]; ok {
		t.Fatal("у гостя не должно быть user")
	}
}

// captureSentry: события уходят в срез вместо сети.
func captureSentry(t *testing.T) *[]*sentry.Event {
	t.Helper()
	var events []*sentry.Event
	err := sentry.Init(sentry.ClientOptions{
		Dsn:        "https://public@sentry.example.com/1",
		SampleRate: 1.0,
		BeforeSend: func(ev *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			events = append(events, ev)
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = sentry.Init(sentry.ClientOptions{}) })
	return &events
}

func TestErrFlash_ReportsFailures(t *testing.T) {
	events := captureSentry(t)
	before := testutil.ToFloat64(metrics.HandlerErrors.WithLabelValues("запис"))

	f := errFlash(&app.Failure{Op: "запис", Err: errors.New("db down")})
	if !f.Err || !strings.Contains(f.Text, "db down") {
		t.Fatalf("flash = %+v", f)
	}
	errFlash(app.Problem("Въведи име."))

	if got := testutil.ToFloat64(metrics.HandlerErrors.WithLabelValues("запис")) - before; got != 1 {
		t.Fatalf("handler errors delta = %v", got)
	}
	if len(*events) != 1 {
		t.Fatalf("ожидали одно событие в Sentry, получили %d", len(*events))
	}
	found := false
	for _, ex := range (*events)[0].Exception {
		found = found || strings.Contains(ex.Value, "db down")
	}
	if !found {
		t.Fatalf("событие без исходной ошибки: %+v", (*events)[0].Exception)
	}
}
