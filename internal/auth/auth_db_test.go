//go:build testutil
// +build testutil

package auth_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/eliteclass/ediary/internal/auth"
	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/mail"
	"github.com/eliteclass/ediary/internal/testutil/testdb"
)

type captureMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (c *captureMailer) Send(_ context.Context, m mail.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, m)
	return nil
}

// tokenFrom достаёт токен из ссылки в тексте письма.
func tokenFrom(t *testing.T, m mail.Message) string {
	t.Helper()
	i := strings.Index(m.Text, "http")
	if i < 0 {
		t.Fatalf("no link in %q", m.Text)
	}
	u, err := url.Parse(strings.TrimSpace(m.Text[i:]))
	if err != nil {
		t.Fatal(err)
	}
	return u.Query().Get("token")
}

func TestSignUpSignInReset(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(h.Close)
	ctx := context.Background()

	mailer := &captureMailer{}
	svc := auth.NewService(h.DB, mailer, "http://localhost:8080", zap.NewNop())
	svc.Cost = bcrypt.MinCost

	id, err := svc.SignUp(ctx, auth.SignUpInput{FullName: "Ана", Email: " Ana@Example.com ", Password: "Secret1!", Role: "admin"})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	acc, err := db.GetAccountByID(ctx, h.DB, id)
	if err != nil {
		t.Fatal(err)
	}
	if acc.Email != "ana@example.com" || acc.MetaRole != "student" {
		t.Fatalf("account = %+v", acc)
	}

	if _, err := svc.SignUp(ctx, auth.SignUpInput{Email: "ana@example.com", Password: "Secret1!"}); !errors.Is(err, auth.ErrEmailTaken) {
		t.Fatalf("duplicate: err = %v", err)
	}
	if _, err := svc.SignIn(ctx, "ANA@example.com", "wrong"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("wrong password: err = %v", err)
	}
	if _, err := svc.SignIn(ctx, "ANA@example.com", "Secret1!"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	if err := svc.RequestPasswordReset(ctx, "nobody@example.com"); err != nil || len(mailer.sent) != 0 {
		t.Fatalf("unknown email: err = %v, sent = %d", err, len(mailer.sent))
	}
	if err := svc.RequestPasswordReset(ctx, "ana@example.com"); err != nil {
		t.Fatal(err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].To != "ana@example.com" {
		t.Fatalf("sent = %+v", mailer.sent)
	}
	token := tokenFrom(t, mailer.sent[0])

	if _, err := svc.ResetPassword(ctx, token, "weak"); !errors.Is(err, auth.ErrWeakPassword) {
		t.Fatalf("weak reset: err = %v", err)
	}
	got, err := svc.ResetPassword(ctx, token, "Newpass2?")
	if err != nil || got != id {
		t.Fatalf("ResetPassword: id = %v, err = %v", got, err)
	}
	// токен одноразовый
	if _, err := svc.ResetPassword(ctx, token, "Another3#"); !errors.Is(err, auth.ErrResetLinkInvalid) {
		t.Fatalf("reused token: err = %v", err)
	}
	if _, err := svc.SignIn(ctx, "ana@example.com", "Newpass2?"); err != nil {
		t.Fatalf("SignIn after reset: %v", err)
	}
}
