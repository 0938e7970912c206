package logmonitor

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/Kargones/logmonitor/internal/pkg/alerting"
)

//go:embed templates/message.md.tmpl
var defaultMessageTemplate string

// messageData — данные шаблона поста.
type messageData struct {
	AppName     string
	Level       string
	Timestamp   string
	Message     string
	ContextJSON string
}

// Composer собирает markdown текст поста для чата.
type Composer struct {
	appName string
	tmpl    *template.Template
}

// NewComposer разбирает шаблон из файла templatePath или встроенный,
// если путь пуст. Ошибка разбора — ошибка конфигурации.
func NewComposer(appName, templatePath string) (*Composer, error) {
	text := defaultMessageTemplate
	if templatePath != "" {
		raw, err := os.ReadFile(templatePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read message template: %w", err)
		}
		text = string(raw)
	}

	tmpl, err := template.New("message").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse message template: %w", err)
	}
	return &Composer{appName: appName, tmpl: tmpl}, nil
}

// Compose возвращает текст поста: заголовок с именем приложения, уровнем
// и временем, само сообщение и, если контекст не пуст, блок JSON.
// Контекст, который не кодируется в JSON, выводится через fmt.
// deliveryContext должен быть уже очищен от служебного ключа.
func (c *Composer) Compose(level, message string, deliveryContext map[string]any, at time.Time) (string, error) {
	data := messageData{
		AppName:   c.appName,
		Level:     strings.ToLower(level),
		Timestamp: at.Format(alerting.TimestampLayout),
		Message:   message,
	}

	if len(deliveryContext) > 0 {
		encoded, err := prettyJSON(alerting.JSONSafe(deliveryContext))
		if err != nil {
			encoded = fmt.Sprintf("%+v", deliveryContext)
		}
		data.ContextJSON = encoded
	}

	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render message: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// prettyJSON кодирует контекст с отступом в 4 пробела без HTML экранирования.
// Ключи карт encoding/json сортирует сам.
func prettyJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to encode context: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
