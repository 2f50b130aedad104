package config_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/qibergames/vercel-action/pkg/cli/config"
	"github.com/qibergames/vercel-action/pkg/domain/types"
)

// mockTransport keeps captured events in memory
type mockTransport struct {
	mu     sync.Mutex
	events []*sentry.Event
}

func (m *mockTransport) Configure(options sentry.ClientOptions) {}

func (m *mockTransport) SendEvent(event *sentry.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *mockTransport) Flush(timeout time.Duration) bool { return true }

func (m *mockTransport) FlushWithContext(ctx context.Context) bool { return true }

func (m *mockTransport) Close() {}

func TestSentry_Disabled(t *testing.T) {
	cfg := config.Sentry{}
	gt.False(t, cfg.Enabled())
	gt.NoError(t, cfg.Configure(context.Background()))

	// no client is configured, Capture must return without sending
	cfg.Capture(context.Background(), errors.New("boom"))
}

func TestSentry_Capture(t *testing.T) {
	transport := &mockTransport{}
	cfg := config.Sentry{
		DSN:       "https://public@sentry.example.com/1",
		Env:       "test",
		Transport: transport,
	}
	gt.True(t, cfg.Enabled())
	gt.NoError(t, cfg.Configure(context.Background()))
	t.Cleanup(func() { sentry.CurrentHub().BindClient(nil) })

	err := goerr.New("failed to assign alias",
		goerr.V("alias", "preview.example.com"),
		goerr.V("deployment_id", "dpl_1"),
		goerr.T(types.ErrTagAlias),
	)
	cfg.Capture(context.Background(), err)

	gt.A(t, transport.events).Length(1)
	event := transport.events[0]
	gt.Value(t, event.Environment).Equal("test")

	values, ok := event.Contexts["goerr"]
	gt.True(t, ok)
	gt.Value(t, values["alias"]).Equal(any("preview.example.com"))
	gt.Value(t, values["deployment_id"]).Equal(any("dpl_1"))
}

func TestSentry_Capture_PlainError(t *testing.T) {
	transport := &mockTransport{}
	cfg := config.Sentry{
		DSN:       "https://public@sentry.example.com/1",
		Transport: transport,
	}
	gt.NoError(t, cfg.Configure(context.Background()))
	t.Cleanup(func() { sentry.CurrentHub().BindClient(nil) })

	cfg.Capture(context.Background(), errors.New("boom"))

	gt.A(t, transport.events).Length(1)
	_, ok := transport.events[0].Contexts["goerr"]
	gt.False(t, ok)
}
