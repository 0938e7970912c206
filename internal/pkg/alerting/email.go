package alerting

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/Kargones/logmonitor/internal/constants"
	"github.com/Kargones/logmonitor/internal/pkg/logging"

	"github.com/wneessen/go-mail"
)

//go:embed templates/notification.html templates/notification.txt
var templatesFS embed.FS

// TimestampLayout — формат времени события в письмах и постах.
const TimestampLayout = "02.01.2006 15:04:05"

// MailSender определяет интерфейс отправки готовых писем.
// Реализуется *mail.Client; в тестах подменяется через SetSender.
type MailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// EmailNotification — данные одного письма.
type EmailNotification struct {
	Level       string
	Message     string
	Context     map[string]any
	AppName     string
	Environment string
	Time        time.Time
}

// emailTemplateData содержит данные для шаблонов письма.
type emailTemplateData struct {
	LevelUpper  string
	LevelClass  string
	Message     string
	ContextJSON string
	AppName     string
	Environment string
	Timestamp   string
	PackageName string
	PackageURL  string
}

// EmailSender отправляет уведомления через SMTP (go-mail).
// Каждый получатель получает отдельное письмо.
type EmailSender struct {
	config   EmailConfig
	logger   logging.Logger
	sender   MailSender
	htmlTmpl *htmltemplate.Template
	textTmpl *texttemplate.Template
}

// NewEmailSender создаёт EmailSender. Возвращает ошибку, если шаблоны
// не разбираются или go-mail не принимает параметры SMTP.
func NewEmailSender(config EmailConfig, logger logging.Logger) (*EmailSender, error) {
	htmlTmpl, err := htmltemplate.ParseFS(templatesFS, "templates/notification.html")
	if err != nil {
		return nil, fmt.Errorf("alerting: invalid html template: %w", err)
	}
	textTmpl, err := texttemplate.ParseFS(templatesFS, "templates/notification.txt")
	if err != nil {
		return nil, fmt.Errorf("alerting: invalid text template: %w", err)
	}

	client, err := newMailClient(config, logger)
	if err != nil {
		return nil, err
	}

	return &EmailSender{
		config:   config,
		logger:   logger,
		sender:   client,
		htmlTmpl: htmlTmpl,
		textTmpl: textTmpl,
	}, nil
}

// newMailClient настраивает SMTP клиент go-mail: implicit TLS для 465,
// обязательный STARTTLS для остальных портов, PLAIN авторизация при наличии учётных данных.
func newMailClient(config EmailConfig, logger logging.Logger) (*mail.Client, error) {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultSMTPTimeout
	}
	port := config.SMTPPort
	if port == 0 {
		port = DefaultSMTPPort
	}

	opts := []mail.Option{
		mail.WithTimeout(timeout),
		mail.WithPort(port),
	}

	switch {
	case config.UseTLS && port == SMTPPortImplicitTLS:
		opts = append(opts, mail.WithSSL())
	case config.UseTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		logger.Warn("SMTP без шифрования", "smtp_host", config.SMTPHost, "smtp_port", port)
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if config.SMTPUser != "" && config.SMTPPassword != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(config.SMTPUser),
			mail.WithPassword(config.SMTPPassword),
		)
	} else if config.SMTPUser != "" || config.SMTPPassword != "" {
		logger.Warn("неполные SMTP credentials: указан только пользователь или только пароль, авторизация пропущена",
			"smtp_host", config.SMTPHost,
			"has_user", config.SMTPUser != "",
			"has_password", config.SMTPPassword != "",
		)
	}

	client, err := mail.NewClient(config.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("alerting: failed to create mail client: %w", err)
	}
	return client, nil
}

// SetSender устанавливает кастомный MailSender (для тестирования).
func (e *EmailSender) SetSender(sender MailSender) {
	e.sender = sender
}

// Subject возвращает тему письма: имя пакета и уровень в верхнем регистре.
func Subject(level string) string {
	return constants.PackageName + " - " + strings.ToUpper(level)
}

// Send отправляет одно письмо одному получателю.
func (e *EmailSender) Send(ctx context.Context, recipient string, n EmailNotification) error {
	msg, err := e.BuildMessage(recipient, n)
	if err != nil {
		return err
	}

	timeout := e.config.Timeout
	if timeout <= 0 {
		timeout = DefaultSMTPTimeout
	}
	sendCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := e.sender.DialAndSendWithContext(sendCtx, msg); err != nil {
		return fmt.Errorf("%w: %w", ErrSMTPSend, err)
	}
	return nil
}

// BuildMessage собирает письмо: текстовая часть и HTML альтернатива.
func (e *EmailSender) BuildMessage(recipient string, n EmailNotification) (*mail.Msg, error) {
	data := newEmailTemplateData(n)

	var text, html bytes.Buffer
	if err := e.textTmpl.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("failed to render text body: %w", err)
	}
	if err := e.htmlTmpl.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to render html body: %w", err)
	}

	m := mail.NewMsg()
	if err := m.From(e.config.From); err != nil {
		return nil, fmt.Errorf("failed to set From address: %w", err)
	}
	if err := m.To(recipient); err != nil {
		return nil, fmt.Errorf("failed to set To address: %w", err)
	}
	m.Subject(Subject(n.Level))
	m.SetBodyString(mail.TypeTextPlain, text.String())
	m.AddAlternativeString(mail.TypeTextHTML, html.String())
	return m, nil
}

// newEmailTemplateData готовит данные шаблонов. Контекст, который не
// кодируется в JSON, выводится через fmt, чтобы письмо ушло в любом случае.
func newEmailTemplateData(n EmailNotification) emailTemplateData {
	data := emailTemplateData{
		LevelUpper:  strings.ToUpper(n.Level),
		LevelClass:  strings.ToLower(n.Level),
		Message:     n.Message,
		AppName:     n.AppName,
		Environment: n.Environment,
		PackageName: constants.PackageName,
		PackageURL:  constants.PackageURL,
	}
	if !n.Time.IsZero() {
		data.Timestamp = n.Time.Format(TimestampLayout)
	}
	if len(n.Context) > 0 {
		raw, err := json.MarshalIndent(JSONSafe(n.Context), "", "    ")
		if err != nil {
			data.ContextJSON = dumpContext(n.Context)
		} else {
			data.ContextJSON = string(raw)
		}
	}
	return data
}
