// Package audit публикует сигналы доставки уведомлений в Redis Pub/Sub.
//
// Внешний сборщик подписывается на канал и получает JSON запись на
// каждый сигнал Sending, Sent и Failed. Публикация не влияет на исход
// доставки: ошибки Redis только логируются.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Kargones/logmonitor/internal/logmonitor"
	"github.com/Kargones/logmonitor/internal/pkg/logging"

	"github.com/redis/go-redis/v9"
)

// Publisher — часть клиента Redis, нужная для публикации.
// Реализуется *redis.Client.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Record — запись аудита одного сигнала.
type Record struct {
	Signal     string    `json:"signal"`
	Channel    string    `json:"channel"`
	Target     string    `json:"target"`
	Level      string    `json:"level"`
	Message    string    `json:"message"`
	TraceID    string    `json:"trace_id,omitempty"`
	Time       time.Time `json:"time"`
	DurationMs int64     `json:"duration_ms,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// NewRecord собирает запись из сигнала.
func NewRecord(s logmonitor.Signal) Record {
	r := Record{
		Signal:  s.Kind.String(),
		Channel: s.Channel,
		Target:  s.Target,
		Level:   s.Event.Level,
		Message: s.Event.Message,
		TraceID: s.TraceID,
		Time:    s.Time,
	}
	if s.Kind != logmonitor.SignalSending {
		r.DurationMs = s.Duration.Milliseconds()
	}
	if s.Err != nil {
		r.Error = s.Err.Error()
	}
	return r
}

// Listener публикует сигналы шины в Redis.
type Listener struct {
	publisher Publisher
	channel   string
	timeout   time.Duration
	logger    logging.Logger
}

// NewListener создаёт подписчика для шины сигналов.
func NewListener(publisher Publisher, cfg Config, logger logging.Logger) *Listener {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}
	channel := cfg.Channel
	if channel == "" {
		channel = DefaultChannel
	}
	return &Listener{publisher: publisher, channel: channel, timeout: timeout, logger: logger}
}

// OnSignal публикует запись аудита. Реализует logmonitor.Listener.
func (l *Listener) OnSignal(ctx context.Context, s logmonitor.Signal) {
	payload, err := json.Marshal(NewRecord(s))
	if err != nil {
		l.logger.Warn("не удалось сериализовать запись аудита", "error", err.Error())
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
	defer cancel()

	if err := l.publisher.Publish(pubCtx, l.channel, payload).Err(); err != nil {
		l.logger.Warn("не удалось опубликовать запись аудита",
			"channel", l.channel,
			"signal", s.Kind.String(),
			"error", err.Error(),
		)
	}
}

// NewRedisClient создаёт клиент Redis и проверяет соединение.
// Недоступный Redis не считается ошибкой запуска: аудит вторичен,
// проблема логируется, публикации будут логировать свои ошибки.
func NewRedisClient(cfg Config, logger logging.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis для аудита недоступен",
			"addr", cfg.RedisAddr,
			"error", err.Error(),
		)
	} else {
		logger.Info("аудит доставки подключён к Redis", "addr", cfg.RedisAddr, "channel", cfg.Channel)
	}
	return client
}

var _ logmonitor.Listener = (*Listener)(nil)
