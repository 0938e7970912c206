package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Kargones/logmonitor/internal/constants"
	"github.com/Kargones/logmonitor/internal/pkg/alerting"
	"github.com/Kargones/logmonitor/internal/pkg/apperrors"
	"github.com/Kargones/logmonitor/internal/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logmonitor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "logmonitor", cfg.App.Name)
	assert.Equal(t, "production", cfg.App.Environment)
	assert.False(t, cfg.Monitor.Enabled)
	assert.Equal(t, "production", cfg.Monitor.Environments)
	assert.True(t, cfg.Monitor.Mattermost.Enabled)
	assert.True(t, cfg.Monitor.Email.SendAsBackup)
	assert.Equal(t, 3, cfg.Monitor.Mattermost.RetryTimes)
	assert.Equal(t, 16383, cfg.Monitor.Mattermost.MaxPostLength)
	assert.Equal(t, logging.LevelInfo, cfg.Logging.Level)
	assert.True(t, cfg.Logging.Compress)
	assert.Equal(t, constants.Version, cfg.Tracing.Version)
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
app:
  name: billing
  environment: staging
monitor:
  enabled: true
  environments: "staging, production"
  mattermost:
    enabled: true
    url: https://chat.example.com
    token: secret
    channelId: ch-default
    additionalChannels:
      ops: ch-ops
      dev: ch-dev
    retryDelay: 250ms
  email:
    enabled: false
logging:
  level: debug
  format: json
  compress: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "billing", cfg.App.Name)
	assert.Equal(t, "staging", cfg.App.Environment)
	assert.True(t, cfg.Monitor.AllowsEnvironment("staging"))
	assert.Equal(t, alerting.ChannelGroup{"ch-ops"}, cfg.Monitor.Mattermost.AdditionalChannels["ops"])
	assert.Equal(t, 250*time.Millisecond, cfg.Monitor.Mattermost.RetryDelay)
	assert.Equal(t, 3, cfg.Monitor.Mattermost.RetryTimes, "незаданное поле сохраняет значение по умолчанию")
	assert.Equal(t, logging.FormatJSON, cfg.Logging.Format)
	assert.False(t, cfg.Logging.Compress)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, `
app:
  environment: staging
monitor:
  enabled: false
`)
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_MONITOR_ENABLED", "true")
	t.Setenv("LOG_MONITOR_MATTERMOST_URL", "https://chat.example.com")
	t.Setenv("LOG_MONITOR_MATTERMOST_TOKEN", "secret")
	t.Setenv("LOG_MONITOR_MATTERMOST_CHANNEL_ID", "ch-default")
	t.Setenv("LOG_MONITOR_MATTERMOST_ADDITIONAL_CHANNELS", "ops:ch-ops")
	t.Setenv("LOG_MONITOR_EMAIL_ENABLED", "false")
	t.Setenv("LOG_MONITOR_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Environment)
	assert.True(t, cfg.Monitor.Enabled)
	assert.Equal(t, alerting.ChannelGroup{"ch-ops"}, cfg.Monitor.Mattermost.AdditionalChannels["ops"])
	assert.Equal(t, logging.LevelWarn, cfg.Logging.Level)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		code string
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.yaml") },
			code: apperrors.ErrConfigLoad,
		},
		{
			name: "broken yaml",
			path: func(t *testing.T) string { return writeConfig(t, "monitor: [unclosed") },
			code: apperrors.ErrConfigParse,
		},
		{
			name: "enabled monitor without mattermost url",
			path: func(t *testing.T) string {
				return writeConfig(t, "monitor:\n  enabled: true\n  email:\n    enabled: false\n")
			},
			code: apperrors.ErrConfigValidate,
		},
		{
			name: "unknown log level",
			path: func(t *testing.T) string { return writeConfig(t, "logging:\n  level: loud\n") },
			code: apperrors.ErrConfigValidate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.path(t))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Equal(t, tt.code, apperrors.CodeOf(err, ""))
			assert.Equal(t, tt.code == apperrors.ErrConfigValidate, IsValidationError(err))
		})
	}
}

func TestValidate_PrefixesSection(t *testing.T) {
	cfg := Default()
	cfg.Metrics.Enabled = true

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics: ")
}

func TestResolvePath(t *testing.T) {
	t.Setenv(constants.EnvConfigPath, "/etc/logmonitor.yaml")

	assert.Equal(t, "/tmp/flag.yaml", ResolvePath("/tmp/flag.yaml"))
	assert.Equal(t, "/etc/logmonitor.yaml", ResolvePath(""))
}

func TestLoggingConfig_ToLogging(t *testing.T) {
	l := DefaultLoggingConfig()
	l.Output = logging.OutputFile
	l.FilePath = "/tmp/lm.log"

	got := l.ToLogging()
	assert.Equal(t, logging.OutputFile, got.Output)
	assert.Equal(t, "/tmp/lm.log", got.FilePath)
	assert.Equal(t, logging.DefaultMaxSize, got.MaxSize)
	assert.True(t, got.Compress)
}
