package logmonitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Kargones/logmonitor/internal/pkg/alerting"
	"github.com/Kargones/logmonitor/internal/pkg/logging"

	"github.com/stretchr/testify/require"
)

var errDeliveryFailed = errors.New("delivery failed")

var fixedTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

// fakeChat запоминает посты и отказывает для каналов из fail.
type fakeChat struct {
	mu    sync.Mutex
	posts []alerting.Post
	fail  map[string]bool
	panic bool
	// reshape подменяет пост перед отправкой, как это делает обработка длинных сообщений.
	reshape func(alerting.Post) alerting.Post
}

func (f *fakeChat) SendPost(_ context.Context, post alerting.Post) (alerting.Post, *alerting.PostResponse, error) {
	if f.panic {
		panic("chat exploded")
	}
	if f.reshape != nil {
		post = f.reshape(post)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = append(f.posts, post)
	if f.fail[post.ChannelID] {
		return post, nil, errDeliveryFailed
	}
	return post, &alerting.PostResponse{ID: "post-" + post.ChannelID, ChannelID: post.ChannelID, StatusCode: 201}, nil
}

func (f *fakeChat) targets() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.posts))
	for _, p := range f.posts {
		out = append(out, p.ChannelID)
	}
	return out
}

// fakeMail запоминает письма и отказывает для адресов из fail.
type fakeMail struct {
	mu         sync.Mutex
	recipients []string
	last       alerting.EmailNotification
	fail       map[string]bool
}

func (f *fakeMail) Send(_ context.Context, recipient string, n alerting.EmailNotification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recipients = append(f.recipients, recipient)
	f.last = n
	if f.fail[recipient] {
		return errDeliveryFailed
	}
	return nil
}

// signalRecorder собирает сигналы шины.
type signalRecorder struct {
	mu      sync.Mutex
	signals []Signal
}

func (r *signalRecorder) OnSignal(_ context.Context, s Signal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signals = append(r.signals, s)
}

func (r *signalRecorder) count(kind SignalKind, channel string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.signals {
		if s.Kind == kind && s.Channel == channel {
			n++
		}
	}
	return n
}

func (r *signalRecorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.signals)
}

// testConfig — включённый мониторинг, Mattermost с каналом по умолчанию, email выключен.
func testConfig() alerting.Config {
	cfg := alerting.DefaultConfig()
	cfg.Enabled = true
	cfg.Environments = "production"
	cfg.Mattermost.URL = "https://mm.example.com"
	cfg.Mattermost.Token = "token"
	cfg.Mattermost.ChannelID = "default-id"
	cfg.Email.Enabled = false
	return cfg
}

// withEmail включает email канал с двумя получателями.
func withEmail(cfg alerting.Config, sendAsBackup bool) alerting.Config {
	cfg.Email.Enabled = true
	cfg.Email.SendAsBackup = sendAsBackup
	cfg.Email.Recipients = "ops@example.com, dev@example.com"
	cfg.Email.SMTPHost = "localhost"
	cfg.Email.From = "monitor@example.com"
	return cfg
}

type testRouter struct {
	*Router
	chat    *fakeChat
	mail    *fakeMail
	signals *signalRecorder
}

func newTestRouter(t *testing.T, cfg alerting.Config) *testRouter {
	t.Helper()
	chat := &fakeChat{fail: map[string]bool{}}
	mail := &fakeMail{fail: map[string]bool{}}
	rec := &signalRecorder{}

	r, err := New(cfg, Settings{AppName: "Test App", Environment: "production"}, logging.NewNopLogger(),
		WithChatSender(chat),
		WithMailSender(mail),
		WithClock(func() time.Time { return fixedTime }),
	)
	require.NoError(t, err)
	r.Bus().Subscribe(rec)
	return &testRouter{Router: r, chat: chat, mail: mail, signals: rec}
}

func errorEvent(ctx map[string]any) LogEvent {
	return LogEvent{Level: "error", Message: "Database connection lost", Context: ctx}
}
