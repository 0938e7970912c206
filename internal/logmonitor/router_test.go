package logmonitor

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/Kargones/logmonitor/internal/pkg/alerting"
	"github.com/Kargones/logmonitor/internal/pkg/apperrors"
	"github.com/Kargones/logmonitor/internal/pkg/logging"
	"github.com/Kargones/logmonitor/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_NonErrorWithoutAlertIsSilent(t *testing.T) {
	r := newTestRouter(t, withEmail(testConfig(), false))

	report := r.Handle(context.Background(), LogEvent{Level: "warning", Message: "disk 80%"})

	assert.False(t, report.Processed)
	assert.Equal(t, DropLevel, report.DropReason)
	assert.Empty(t, r.chat.posts)
	assert.Empty(t, r.mail.recipients)
	assert.Zero(t, r.signals.len())
}

func TestRouter_ErrorGoesToDefaultChannel(t *testing.T) {
	r := newTestRouter(t, testConfig())

	report := r.Handle(context.Background(), errorEvent(nil))

	assert.True(t, report.Processed)
	assert.Equal(t, []string{"default-id"}, r.chat.targets())
	assert.Equal(t, 1, r.signals.count(SignalSent, alerting.ChannelMattermost))
	assert.Zero(t, report.Failed())
}

func TestRouter_AlertOverridesLevel(t *testing.T) {
	r := newTestRouter(t, testConfig())

	r.Handle(context.Background(), LogEvent{
		Level:   "info",
		Message: "manual alert",
		Context: map[string]any{"llm": map[string]any{"alert": true}},
	})

	assert.Equal(t, []string{"default-id"}, r.chat.targets())
}

func TestRouter_ChannelOverrides(t *testing.T) {
	cfg := testConfig()
	cfg.Mattermost.AdditionalChannels = alerting.ChannelGroups{
		"payments": {"payments-id"},
		"alias1":   {"shared-id"},
		"alias2":   {"shared-id"},
	}

	tests := []struct {
		name    string
		channel any
		want    []string
	}{
		{name: "алиасы одного канала", channel: []any{"alias1", "alias2"}, want: []string{"shared-id"}},
		{name: "default и payments", channel: []any{"default", "payments"}, want: []string{"default-id", "payments-id"}},
		{name: "неизвестный канал", channel: "nonexistent", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, cfg)

			report := r.Handle(context.Background(), errorEvent(map[string]any{
				"llm": map[string]any{"channel": tt.channel},
			}))

			assert.ElementsMatch(t, tt.want, r.chat.targets())
			assert.ElementsMatch(t, tt.want, report.Targets)
			assert.Equal(t, len(tt.want), r.signals.count(SignalSending, alerting.ChannelMattermost))
		})
	}
}

func TestRouter_Priority(t *testing.T) {
	r := newTestRouter(t, testConfig())

	r.Handle(context.Background(), errorEvent(map[string]any{"llm": map[string]any{"priority": "urgent"}}))
	r.Handle(context.Background(), errorEvent(map[string]any{"llm": map[string]any{"priority": "bogus"}}))

	require.Len(t, r.chat.posts, 2)
	require.NotNil(t, r.chat.posts[0].Metadata)
	assert.Equal(t, alerting.PriorityUrgent, r.chat.posts[0].Metadata.Priority.Priority)
	assert.Nil(t, r.chat.posts[1].Metadata)
}

func TestRouter_MetadataNeverDelivered(t *testing.T) {
	r := newTestRouter(t, withEmail(testConfig(), false))

	r.Handle(context.Background(), errorEvent(map[string]any{
		"order_id": "A-17",
		"llm":      map[string]any{"priority": "urgent", "channel": "default"},
	}))

	require.Len(t, r.chat.posts, 1)
	msg := r.chat.posts[0].Message
	assert.Contains(t, msg, "**Test App - New error notification** (14.03.2026 09:26:53)")
	assert.Contains(t, msg, `"order_id": "A-17"`)
	assert.NotContains(t, msg, "llm")

	assert.Equal(t, map[string]any{"order_id": "A-17"}, r.mail.last.Context)
	assert.Equal(t, "Test App", r.mail.last.AppName)
	assert.Equal(t, "production", r.mail.last.Environment)
}

func TestRouter_NonFiniteContextIsDelivered(t *testing.T) {
	r := newTestRouter(t, withEmail(testConfig(), false))

	report := r.Handle(context.Background(), errorEvent(map[string]any{"ratio": math.NaN(), "host": "db-1"}))

	assert.Zero(t, report.Failed())
	require.Len(t, r.chat.posts, 1)
	msg := r.chat.posts[0].Message
	assert.Contains(t, msg, "**Test App - New error notification** (14.03.2026 09:26:53)")
	assert.Contains(t, msg, `"ratio": "NaN"`)
	assert.Contains(t, msg, `"host": "db-1"`)
	assert.Equal(t, map[string]any{"ratio": "NaN", "host": "db-1"}, r.mail.last.Context)
}

func TestRouter_BackupPolicy(t *testing.T) {
	tests := []struct {
		name         string
		sendAsBackup bool
		chatFails    bool
		wantEmails   int
	}{
		{name: "резерв и сбой чата", sendAsBackup: true, chatFails: true, wantEmails: 2},
		{name: "резерв и успех чата", sendAsBackup: true, chatFails: false, wantEmails: 0},
		{name: "всегда при успехе чата", sendAsBackup: false, chatFails: false, wantEmails: 2},
		{name: "всегда при сбое чата", sendAsBackup: false, chatFails: true, wantEmails: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, withEmail(testConfig(), tt.sendAsBackup))
			r.chat.fail["default-id"] = tt.chatFails

			report := r.Handle(context.Background(), errorEvent(nil))

			assert.Len(t, r.mail.recipients, tt.wantEmails)
			assert.Equal(t, tt.wantEmails > 0, report.EmailSent)
			assert.Equal(t, tt.wantEmails, r.signals.count(SignalSending, alerting.ChannelEmail))
		})
	}
}

func TestRouter_PartialChannelFailureTriggersBackup(t *testing.T) {
	cfg := withEmail(testConfig(), true)
	cfg.Mattermost.AdditionalChannels = alerting.ChannelGroups{"ops": {"ops-id"}}
	r := newTestRouter(t, cfg)
	r.chat.fail["ops-id"] = true

	report := r.Handle(context.Background(), errorEvent(map[string]any{
		"llm": map[string]any{"channel": []any{"default", "ops"}},
	}))

	assert.ElementsMatch(t, []string{"default-id", "ops-id"}, r.chat.targets())
	assert.Equal(t, []string{"ops@example.com", "dev@example.com"}, r.mail.recipients)
	assert.Equal(t, 1, report.Failed())
}

func TestRouter_EmailRecipientFailureIsIsolated(t *testing.T) {
	r := newTestRouter(t, withEmail(testConfig(), false))
	r.mail.fail["ops@example.com"] = true

	report := r.Handle(context.Background(), errorEvent(nil))

	assert.Equal(t, []string{"ops@example.com", "dev@example.com"}, r.mail.recipients)
	assert.Equal(t, 1, r.signals.count(SignalFailed, alerting.ChannelEmail))
	assert.Equal(t, 1, r.signals.count(SignalSent, alerting.ChannelEmail))
	assert.Equal(t, 1, report.Failed())
}

func TestRouter_MattermostDisabledSendsEmailOnly(t *testing.T) {
	cfg := withEmail(testConfig(), true)
	cfg.Mattermost.Enabled = false
	r := newTestRouter(t, cfg)

	r.Handle(context.Background(), errorEvent(nil))

	assert.Empty(t, r.chat.posts)
	assert.Len(t, r.mail.recipients, 2)
}

func TestRouter_NoTargetsIsNotAFailure(t *testing.T) {
	r := newTestRouter(t, withEmail(testConfig(), true))

	report := r.Handle(context.Background(), errorEvent(map[string]any{
		"llm": map[string]any{"channel": "nonexistent"},
	}))

	assert.True(t, report.Processed)
	assert.Empty(t, r.chat.posts)
	assert.Empty(t, r.mail.recipients)
	assert.Zero(t, r.signals.count(SignalSending, alerting.ChannelMattermost))
}

func TestRouter_DisabledOrWrongEnvironment(t *testing.T) {
	disabled := testConfig()
	disabled.Enabled = false
	r := newTestRouter(t, disabled)
	assert.Equal(t, DropDisabled, r.Handle(context.Background(), errorEvent(nil)).DropReason)
	assert.Empty(t, r.chat.posts)

	staging := testConfig()
	staging.Environments = "staging"
	r = newTestRouter(t, staging)
	assert.Equal(t, DropEnvironment, r.Handle(context.Background(), errorEvent(nil)).DropReason)
	assert.Empty(t, r.chat.posts)
}

func TestRouter_RecoversFromPanics(t *testing.T) {
	r := newTestRouter(t, testConfig())
	r.chat.panic = true

	assert.NotPanics(t, func() {
		r.Handle(context.Background(), errorEvent(nil))
	})
}

func TestRouter_RecordsEventMetrics(t *testing.T) {
	collector, err := metrics.NewPrometheusCollector(metrics.Config{
		Enabled: true, ListenAddr: ":0", JobName: "test", Timeout: time.Second, InstanceLabel: "test",
	}, logging.NewNopLogger())
	require.NoError(t, err)

	r, err := New(testConfig(), Settings{AppName: "Test App", Environment: "production"}, logging.NewNopLogger(),
		WithChatSender(&fakeChat{}),
		WithMetrics(collector),
	)
	require.NoError(t, err)
	r.Bus().Subscribe(NewMetricsListener(collector))

	r.Handle(context.Background(), errorEvent(nil))
	r.Handle(context.Background(), LogEvent{Level: "info"})

	series, err := testutil.GatherAndCount(collector.Registry(), "logmonitor_events_total", "logmonitor_notifications_total")
	require.NoError(t, err)
	assert.Equal(t, 3, series)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Mattermost.Token = ""

	_, err := New(cfg, Settings{Environment: "production"}, logging.NewNopLogger())

	require.Error(t, err)
	assert.ErrorIs(t, err, alerting.ErrMattermostTokenRequired)
	assert.Equal(t, apperrors.ErrConfigValidate, apperrors.CodeOf(err, ""))
}

func TestNew_DisabledSkipsValidation(t *testing.T) {
	cfg := alerting.DefaultConfig()
	cfg.Enabled = false

	_, err := New(cfg, Settings{}, logging.NewNopLogger())
	assert.NoError(t, err)
}

func TestNew_BuildsRealTransports(t *testing.T) {
	r, err := New(withEmail(testConfig(), true), Settings{Environment: "production"}, logging.NewNopLogger())
	require.NoError(t, err)

	assert.IsType(t, &alerting.MattermostClient{}, r.chat)
	assert.IsType(t, &alerting.EmailSender{}, r.mail)
}
