package metrics

import (
	"net/url"
	"time"
)

// Config содержит настройки сбора и отправки Prometheus метрик.
type Config struct {
	// Enabled — включены ли метрики (по умолчанию false).
	Enabled bool `yaml:"enabled" env:"LOG_MONITOR_METRICS_ENABLED"`

	// PushgatewayURL — URL Prometheus Pushgateway, например "http://pushgateway:9091".
	PushgatewayURL string `yaml:"pushgatewayUrl" env:"LOG_MONITOR_METRICS_PUSHGATEWAY_URL"`

	// JobName — имя job для группировки метрик.
	JobName string `yaml:"jobName" env:"LOG_MONITOR_METRICS_JOB_NAME" env-default:"logmonitor"`

	// Timeout — таймаут HTTP запросов к Pushgateway.
	Timeout time.Duration `yaml:"timeout" env:"LOG_MONITOR_METRICS_TIMEOUT" env-default:"10s"`

	// InstanceLabel — переопределение instance label. Пусто — hostname.
	InstanceLabel string `yaml:"instanceLabel" env:"LOG_MONITOR_METRICS_INSTANCE"`

	// ListenAddr — адрес HTTP сервера /metrics в режиме run. Пусто — сервер не поднимается.
	ListenAddr string `yaml:"listenAddr" env:"LOG_MONITOR_METRICS_LISTEN_ADDR"`
}

// Validate проверяет корректность конфигурации.
// Включённым метрикам нужен хотя бы один получатель: Pushgateway или /metrics.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.PushgatewayURL == "" && c.ListenAddr == "" {
		return ErrPushgatewayURLRequired
	}

	if c.PushgatewayURL != "" {
		u, err := url.Parse(c.PushgatewayURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return ErrPushgatewayURLInvalid
		}
	}

	if c.JobName == "" {
		return ErrJobNameRequired
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	return nil
}

// DefaultConfig возвращает конфигурацию по умолчанию.
func DefaultConfig() Config {
	return Config{
		Enabled: false,
		JobName: "logmonitor",
		Timeout: 10 * time.Second,
	}
}
