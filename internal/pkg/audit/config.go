package audit

import (
	"errors"
	"time"
)

// Ошибки валидации конфигурации аудита.
var (
	// ErrRedisAddrRequired — не указан адрес Redis.
	ErrRedisAddrRequired = errors.New("audit: redis address is required when audit is enabled")

	// ErrChannelRequired — не указан канал Pub/Sub.
	ErrChannelRequired = errors.New("audit: pub/sub channel is required when audit is enabled")

	// ErrInvalidTimeout — невалидный таймаут публикации.
	ErrInvalidTimeout = errors.New("audit: timeout must be positive")
)

// DefaultChannel — канал Pub/Sub по умолчанию.
const DefaultChannel = "logmonitor:notifications"

// Config содержит настройки публикации сигналов доставки в Redis.
type Config struct {
	// Enabled — включён ли аудит (по умолчанию false).
	Enabled bool `yaml:"enabled" env:"LOG_MONITOR_AUDIT_ENABLED"`

	// RedisAddr — адрес Redis в формате host:port.
	RedisAddr string `yaml:"redisAddr" env:"LOG_MONITOR_AUDIT_REDIS_ADDR" env-default:"localhost:6379"`

	// RedisPassword — пароль Redis.
	RedisPassword string `yaml:"redisPassword" env:"LOG_MONITOR_AUDIT_REDIS_PASSWORD"`

	// RedisDB — номер базы Redis.
	RedisDB int `yaml:"redisDb" env:"LOG_MONITOR_AUDIT_REDIS_DB"`

	// Channel — канал Pub/Sub для записей аудита.
	Channel string `yaml:"channel" env:"LOG_MONITOR_AUDIT_CHANNEL" env-default:"logmonitor:notifications"`

	// Timeout — таймаут одной публикации.
	Timeout time.Duration `yaml:"timeout" env:"LOG_MONITOR_AUDIT_TIMEOUT" env-default:"2s"`
}

// DefaultConfig возвращает конфигурацию по умолчанию (аудит выключен).
func DefaultConfig() Config {
	return Config{
		RedisAddr: "localhost:6379",
		Channel:   DefaultChannel,
		Timeout:   2 * time.Second,
	}
}

// Validate проверяет конфигурацию включённого аудита.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.RedisAddr == "" {
		return ErrRedisAddrRequired
	}
	if c.Channel == "" {
		return ErrChannelRequired
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}
