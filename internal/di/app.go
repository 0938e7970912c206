package di

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kargones/logmonitor/internal/config"
	"github.com/Kargones/logmonitor/internal/logmonitor"
	"github.com/Kargones/logmonitor/internal/pkg/logging"
	"github.com/Kargones/logmonitor/internal/pkg/metrics"
	"github.com/Kargones/logmonitor/internal/pkg/output"

	"github.com/redis/go-redis/v9"
)

// ErrNilConfig возвращается InitializeApp при nil Config.
var ErrNilConfig = errors.New("di: config is nil")

// App содержит инициализированные зависимости приложения.
// Создаётся через Wire DI в InitializeApp().
//
// При добавлении новой зависимости:
// 1. Добавить поле в App
// 2. Создать провайдер в providers.go
// 3. Добавить провайдер в ProviderSet в wire.go
// 4. Перегенерировать wire_gen.go: go generate ./internal/di/...
type App struct {
	// Config — загруженная конфигурация. Передаётся извне.
	Config *config.Config

	// Logger — диагностический лог logmonitor. Не проходит через Hook.
	Logger logging.Logger

	// OutputWriter форматирует результаты команд по LOG_MONITOR_OUTPUT_FORMAT.
	OutputWriter output.Writer

	// TraceID — идентификатор запуска для корреляции логов CLI.
	TraceID string

	// MetricsCollector подписан на шину сигналов Router.
	// При выключенных метриках — NopCollector.
	MetricsCollector metrics.Collector

	// TracerShutdown завершает OTel TracerProvider.
	TracerShutdown func(context.Context) error

	// AuditClient — клиент Redis для аудита доставки; nil, если аудит выключен.
	AuditClient *redis.Client

	// Router маршрутизирует события журнала в каналы уведомлений.
	Router *logmonitor.Router

	// Hook — slog.Handler хоста, пересылающий записи в Router.
	Hook *logmonitor.SlogHandler
}

// Close дожидается асинхронных отправок Hook, отправляет метрики в
// Pushgateway, завершает трейсинг и закрывает Redis. Ошибки объединяются.
func (a *App) Close(ctx context.Context) error {
	if a.Hook != nil {
		a.Hook.Wait()
	}

	var errs []error
	if a.MetricsCollector != nil {
		if err := a.MetricsCollector.Push(ctx); err != nil {
			errs = append(errs, fmt.Errorf("push metrics: %w", err))
		}
	}
	if a.TracerShutdown != nil {
		if err := a.TracerShutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracing: %w", err))
		}
	}
	if a.AuditClient != nil {
		if err := a.AuditClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	return errors.Join(errs...)
}
