package alerting

import (
	"net/mail"
	"time"
)

// Значения по умолчанию для email канала.
const (
	// DefaultSMTPPort — порт SMTP по умолчанию (StartTLS).
	DefaultSMTPPort = 587

	// SMTPPortImplicitTLS — порт SMTP с implicit TLS.
	SMTPPortImplicitTLS = 465

	// DefaultSMTPTimeout — таймаут SMTP операций по умолчанию.
	DefaultSMTPTimeout = 30 * time.Second
)

// EmailConfig содержит настройки email канала.
type EmailConfig struct {
	// Enabled — включён ли email канал.
	Enabled bool `yaml:"enabled" env:"LOG_MONITOR_EMAIL_ENABLED"`

	// Recipients — получатели через запятую.
	Recipients string `yaml:"recipients" env:"LOG_MONITOR_EMAIL_RECIPIENTS"`

	// SendAsBackup — при true письмо уходит только если хотя бы одна отправка
	// в Mattermost завершилась ошибкой. При false письмо уходит всегда.
	SendAsBackup bool `yaml:"sendAsBackup" env:"LOG_MONITOR_EMAIL_SEND_AS_BACKUP"`

	// SMTPHost — адрес SMTP сервера.
	SMTPHost string `yaml:"smtpHost" env:"LOG_MONITOR_SMTP_HOST"`

	// SMTPPort — порт SMTP сервера (25, 465, 587).
	SMTPPort int `yaml:"smtpPort" env:"LOG_MONITOR_SMTP_PORT" env-default:"587"`

	// SMTPUser — пользователь для SMTP авторизации.
	SMTPUser string `yaml:"smtpUser" env:"LOG_MONITOR_SMTP_USER"`

	// SMTPPassword — пароль для SMTP авторизации.
	SMTPPassword string `yaml:"smtpPassword" env:"LOG_MONITOR_SMTP_PASSWORD"`

	// From — адрес отправителя.
	From string `yaml:"from" env:"LOG_MONITOR_EMAIL_FROM"`

	// UseTLS — StartTLS для 587, implicit TLS для 465.
	UseTLS bool `yaml:"useTLS" env:"LOG_MONITOR_SMTP_TLS"`

	// Timeout — таймаут SMTP операций.
	Timeout time.Duration `yaml:"timeout" env:"LOG_MONITOR_SMTP_TIMEOUT" env-default:"30s"`
}

// DefaultEmailConfig возвращает настройки email канала по умолчанию.
func DefaultEmailConfig() EmailConfig {
	return EmailConfig{
		Enabled:      true,
		SendAsBackup: true,
		SMTPPort:     DefaultSMTPPort,
		UseTLS:       true,
		Timeout:      DefaultSMTPTimeout,
	}
}

// RecipientList возвращает разобранный список получателей.
func (e *EmailConfig) RecipientList() []string {
	return SplitList(e.Recipients)
}

// Validate проверяет получателей и параметры SMTP включённого канала.
func (e *EmailConfig) Validate() error {
	if !e.Enabled {
		return nil
	}

	recipients := e.RecipientList()
	if len(recipients) == 0 {
		return ErrRecipientsRequired
	}
	for _, r := range recipients {
		if err := validateAddress(r); err != nil {
			return err
		}
	}

	if e.SMTPHost == "" {
		return ErrSMTPHostRequired
	}
	if e.From == "" {
		return ErrFromRequired
	}
	return validateAddress(e.From)
}

// validateAddress принимает только «голый» адрес вида user@host.
// Управляющие символы запрещены: через них внедряются SMTP заголовки.
func validateAddress(address string) error {
	if containsInvalidEmailHeaderChars(address) {
		return addressError(address)
	}
	parsed, err := mail.ParseAddress(address)
	if err != nil || parsed.Address != address {
		return addressError(address)
	}
	return nil
}

// containsInvalidEmailHeaderChars проверяет наличие управляющих символов
// (0x00-0x1f, 0x7f), включая HTAB.
func containsInvalidEmailHeaderChars(s string) bool {
	for _, r := range s {
		if r <= 0x1f || r == 0x7f {
			return true
		}
	}
	return false
}
