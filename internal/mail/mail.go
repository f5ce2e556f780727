// Package mail отправляет служебные письма: в dev пишет их в лог,
// в prod отправляет через SendGrid.
package mail

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

// Console: печать письма в лог вместо отправки.
type Console struct {
	Log *zap.Logger
}

func (c Console) Send(_ context.Context, m Message) error {
	c.Log.Info("mail (console)",
		zap.String("to", m.To),
		zap.String("subject", m.Subject),
		zap.String("text", m.Text),
	)
	return nil
}

type SendGrid struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

func NewSendGrid(apiKey, from string) *SendGrid {
	return &SendGrid{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail("Elite Class", from),
	}
}

func (s *SendGrid) Send(ctx context.Context, m Message) error {
	msg := sgmail.NewSingleEmail(s.from, m.Subject, sgmail.NewEmail("", m.To), m.Text, m.HTML)
	res, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

// New выбирает отправителя: без ключа SendGrid письма идут в лог.
func New(apiKey, from string, log *zap.Logger) Sender {
	if apiKey == "" {
		return Console{Log: log}
	}
	return NewSendGrid(apiKey, from)
}
