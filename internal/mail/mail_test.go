package mail

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConsoleWritesToLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := New("", "no-reply@example.com", zap.New(core))

	if err := s.Send(context.Background(), Message{To: "a@x.com", Subject: "Hi", Text: "body"}); err != nil {
		t.Fatal(err)
	}
	entries := logs.FilterField(zap.String("to", "a@x.com")).All()
	if len(entries) != 1 {
		t.Fatalf("ожидали одну запись, получили %d", len(entries))
	}
}

func TestNewPicksSendGridWithKey(t *testing.T) {
	if _, ok := New("key", "no-reply@example.com", zap.NewNop()).(*SendGrid); !ok {
		t.Fatal("с ключом должен выбираться SendGrid")
	}
}
