package jobs

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRun_RecoversPanic(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := New(context.Background(), zap.New(core))

	before := testutil.ToFloat64(jobErrors.WithLabelValues("boom"))
	r.run("boom", func(context.Context) error { panic("kaput") })

	if got := testutil.ToFloat64(jobErrors.WithLabelValues("boom")) - before; got != 1 {
		t.Fatalf("errors delta = %v, want 1", got)
	}
	if logs.FilterMessage("job panic").Len() != 1 {
		t.Fatalf("panic not logged: %v", logs.All())
	}
}

func TestRun_CountsErrors(t *testing.T) {
	r := New(context.Background(), nil)

	runs := testutil.ToFloat64(jobRuns.WithLabelValues("flaky"))
	errs := testutil.ToFloat64(jobErrors.WithLabelValues("flaky"))
	r.run("flaky", func(context.Context) error { return errors.New("db down") })
	r.run("flaky", func(context.Context) error { return nil })

	if got := testutil.ToFloat64(jobRuns.WithLabelValues("flaky")) - runs; got != 2 {
		t.Fatalf("runs delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(jobErrors.WithLabelValues("flaky")) - errs; got != 1 {
		t.Fatalf("errors delta = %v, want 1", got)
	}
}

func TestRun_ReportsErrorsToSentry(t *testing.T) {
	var events []*sentry.Event
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:        "https://public@sentry.example.com/1",
		SampleRate: 1.0,
		BeforeSend: func(ev *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			events = append(events, ev)
			return nil
		},
	}); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = sentry.Init(sentry.ClientOptions{}) }()

	r := New(context.Background(), nil)
	r.run("purge", func(context.Context) error { return errors.New("db down") })
	r.run("purge", func(context.Context) error { return nil })

	if len(events) != 1 {
		t.Fatalf("ожидали одно событие, получили %d", len(events))
	}
	found := false
	for _, ex := range events[0].Exception {
		found = found || strings.Contains(ex.Value, "job purge")
	}
	if !found {
		t.Fatalf("в событии нет имени задачи: %+v", events[0].Exception)
	}
}
