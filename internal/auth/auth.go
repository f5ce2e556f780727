// Package auth: учётные записи: регистрация, вход, смена пароля и email,
// восстановление пароля по ссылке из письма.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/mail"
	"github.com/eliteclass/ediary/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("weak password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrResetLinkInvalid   = errors.New("reset link invalid or expired")
)

const resetTTL = time.Hour

type Service struct {
	DB      *sql.DB
	Mailer  mail.Sender
	BaseURL string
	Log     *zap.Logger
	// Cost: стоимость bcrypt; в тестах уменьшается.
	Cost int
}

func NewService(database *sql.DB, mailer mail.Sender, baseURL string, log *zap.Logger) *Service {
	return &Service{DB: database, Mailer: mailer, BaseURL: baseURL, Log: log, Cost: bcrypt.DefaultCost}
}

type SignUpInput struct {
	FullName string
	Email    string
	Password string
	Role     string
}

// SignUp создаёт аккаунт. Имя и роль сохраняются как метаданные, профиль
// появится при первом входе.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (uuid.UUID, error) {
	email := NormalizeEmail(in.Email)
	if !strings.Contains(email, "@") {
		return uuid.Nil, ErrInvalidEmail
	}
	if !StrongPassword(in.Password) {
		return uuid.Nil, ErrWeakPassword
	}
	hash, err := hashPassword(in.Password, s.Cost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("hash password: %w", err)
	}
	role := models.NormalizeSignupRole(strings.TrimSpace(in.Role))
	id, err := db.CreateAccount(ctx, s.DB, email, hash, strings.TrimSpace(in.FullName), string(role))
	if db.IsUniqueViolation(err) {
		return uuid.Nil, ErrEmailTaken
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("create account: %w", err)
	}
	return id, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*db.Account, error) {
	acc, err := db.GetAccountByEmail(ctx, s.DB, NormalizeEmail(email))
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if !checkPassword(acc.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return acc, nil
}

// RequestPasswordReset отправляет ссылку восстановления. Неизвестный email
// не считается ошибкой, чтобы не раскрывать список аккаунтов.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	acc, err := db.GetAccountByEmail(ctx, s.DB, NormalizeEmail(email))
	if errors.Is(err, db.ErrNotFound) {
		s.Log.Info("password reset for unknown email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("get account: %w", err)
	}
	return s.SendResetLink(ctx, acc.ID, acc.Email)
}

// SendResetLink: тоже используется из админки пользователей.
func (s *Service) SendResetLink(ctx context.Context, accountID uuid.UUID, email string) error {
	token, err := newResetToken()
	if err != nil {
		return err
	}
	if err := db.CreatePasswordReset(ctx, s.DB, hashToken(token), accountID, time.Now().Add(resetTTL)); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	link := s.BaseURL + "/reset-password?token=" + url.QueryEscape(token)
	msg := mail.Message{
		To:      email,
		Subject: "Elite Class: смяна на парола",
		Text:    "За да зададете нова парола, отворете връзката (валидна 1 час):\n" + link,
		HTML:    `<p>За да зададете нова парола, отворете <a href="` + link + `">тази връзка</a> (валидна 1 час).</p>`,
	}
	if err := s.Mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// ResetPassword: новый пароль по одноразовому токену из письма.
func (s *Service) ResetPassword(ctx context.Context, token, password string) (uuid.UUID, error) {
	if !StrongPassword(password) {
		return uuid.Nil, ErrWeakPassword
	}
	if strings.TrimSpace(token) == "" {
		return uuid.Nil, ErrResetLinkInvalid
	}
	id, err := db.ConsumePasswordReset(ctx, s.DB, hashToken(token))
	if errors.Is(err, db.ErrNotFound) {
		return uuid.Nil, ErrResetLinkInvalid
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("consume reset token: %w", err)
	}
	if err := s.setPassword(ctx, id, password); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// ChangePassword: смена пароля в активной сессии.
func (s *Service) ChangePassword(ctx context.Context, accountID uuid.UUID, password string) error {
	if !StrongPassword(password) {
		return ErrWeakPassword
	}
	return s.setPassword(ctx, accountID, password)
}

func (s *Service) setPassword(ctx context.Context, id uuid.UUID, password string) error {
	hash, err := hashPassword(password, s.Cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := db.UpdatePasswordHash(ctx, s.DB, id, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// ChangeEmail возвращает новый нормализованный email.
func (s *Service) ChangeEmail(ctx context.Context, accountID uuid.UUID, email string) (string, error) {
	email = NormalizeEmail(email)
	if !strings.Contains(email, "@") {
		return "", ErrInvalidEmail
	}
	err := db.UpdateEmail(ctx, s.DB, accountID, email)
	if db.IsUniqueViolation(err) {
		return "", ErrEmailTaken
	}
	if err != nil {
		return "", fmt.Errorf("update email: %w", err)
	}
	return email, nil
}

func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// в БД хранится только sha256 токена
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
