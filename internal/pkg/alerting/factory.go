package alerting

import (
	"fmt"

	"github.com/Kargones/logmonitor/internal/pkg/logging"
)

// Transports — транспорты включённых каналов. Поле nil, если канал выключен.
type Transports struct {
	Mattermost *MattermostClient
	Email      *EmailSender
}

// NewTransports проверяет конфигурацию и создаёт транспорты включённых каналов.
// При выключенном мониторинге возвращает пустой набор без проверок.
//
// Пример использования:
//
//	cfg := alerting.DefaultConfig()
//	cfg.Enabled = true
//	cfg.Mattermost.URL = "https://mm.example.com"
//	cfg.Mattermost.Token = token
//	cfg.Mattermost.ChannelID = "abc123"
//	cfg.Email.Enabled = false
//	transports, err := alerting.NewTransports(cfg, logger)
func NewTransports(config Config, logger logging.Logger) (Transports, error) {
	var t Transports
	if !config.Enabled {
		return t, nil
	}

	if err := config.Validate(); err != nil {
		return t, err
	}

	if config.Mattermost.Enabled {
		t.Mattermost = NewMattermostClient(config.Mattermost, logger)
	}

	if config.Email.Enabled {
		sender, err := NewEmailSender(config.Email, logger)
		if err != nil {
			return t, fmt.Errorf("создание email sender: %w", err)
		}
		t.Email = sender
	}

	if t.Mattermost == nil && t.Email == nil {
		logger.Warn("мониторинг включён, но нет включённых каналов: уведомления не будут отправляться")
	}
	return t, nil
}
