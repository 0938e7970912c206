package main

import (
	"time"

	"github.com/Kargones/logmonitor/internal/config"
	"github.com/Kargones/logmonitor/internal/pkg/alerting"
	"github.com/Kargones/logmonitor/internal/pkg/output"
	"github.com/Kargones/logmonitor/internal/pkg/urlutil"

	"github.com/spf13/cobra"
)

// configView — конфигурация без секретов для вывода validate.
type configView struct {
	AppName        string          `json:"app_name"`
	Environment    string          `json:"environment"`
	MonitorEnabled bool            `json:"monitor_enabled"`
	Environments   []string        `json:"environments"`
	Mattermost     *mattermostView `json:"mattermost,omitempty"`
	Email          *emailView      `json:"email,omitempty"`
	Metrics        bool            `json:"metrics_enabled"`
	Tracing        bool            `json:"tracing_enabled"`
	Audit          bool            `json:"audit_enabled"`
}

type mattermostView struct {
	URL           string   `json:"url"`
	Token         string   `json:"token"`
	ChannelID     string   `json:"channel_id"`
	Groups        []string `json:"groups,omitempty"`
	RetryTimes    int      `json:"retry_times"`
	MaxPostLength int      `json:"max_post_length"`
}

type emailView struct {
	Recipients   int    `json:"recipients"`
	SMTPHost     string `json:"smtp_host"`
	SMTPPort     int    `json:"smtp_port"`
	From         string `json:"from"`
	SendAsBackup bool   `json:"send_as_backup"`
	UseTLS       bool   `json:"use_tls"`
}

func (c *cli) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the configuration",
		Long: `validate загружает конфигурацию, проверяет её и собирает все
компоненты, не отправляя уведомлений. Секреты в выводе маскируются.
Ошибка конфигурации завершает команду с кодом 5.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.validate()
		},
	}
}

func (c *cli) validate() error {
	const command = "validate"
	start := time.Now()

	app, err := c.bootstrap()
	if err != nil {
		return c.bootstrapFailure(command, err, start)
	}
	defer c.shutdown(app)

	result := output.NewResult(command, newConfigView(app.Config), app.TraceID, start)
	return c.succeed(app, result)
}

func newConfigView(cfg *config.Config) configView {
	mon := cfg.Monitor
	view := configView{
		AppName:        cfg.App.Name,
		Environment:    cfg.App.Environment,
		MonitorEnabled: mon.Enabled,
		Environments:   mon.EnvironmentList(),
		Metrics:        cfg.Metrics.Enabled,
		Tracing:        cfg.Tracing.Enabled,
		Audit:          cfg.Audit.Enabled,
	}
	if mon.Enabled && mon.Mattermost.Enabled {
		view.Mattermost = newMattermostView(mon.Mattermost)
	}
	if mon.Enabled && mon.Email.Enabled {
		view.Email = &emailView{
			Recipients:   len(mon.Email.RecipientList()),
			SMTPHost:     mon.Email.SMTPHost,
			SMTPPort:     mon.Email.SMTPPort,
			From:         mon.Email.From,
			SendAsBackup: mon.Email.SendAsBackup,
			UseTLS:       mon.Email.UseTLS,
		}
	}
	return view
}

func newMattermostView(mm alerting.MattermostConfig) *mattermostView {
	return &mattermostView{
		URL:           urlutil.MaskURL(mm.URL),
		Token:         urlutil.MaskSecret(mm.Token),
		ChannelID:     mm.ChannelID,
		Groups:        mm.AdditionalChannels.Names(),
		RetryTimes:    mm.RetryTimes,
		MaxPostLength: mm.MaxPostLength,
	}
}
