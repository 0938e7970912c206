package di

import (
	"context"
	"log/slog"
	"os"

	"github.com/Kargones/logmonitor/internal/config"
	"github.com/Kargones/logmonitor/internal/constants"
	"github.com/Kargones/logmonitor/internal/logmonitor"
	"github.com/Kargones/logmonitor/internal/pkg/audit"
	"github.com/Kargones/logmonitor/internal/pkg/logging"
	"github.com/Kargones/logmonitor/internal/pkg/metrics"
	"github.com/Kargones/logmonitor/internal/pkg/output"
	"github.com/Kargones/logmonitor/internal/pkg/tracing"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger создаёт диагностический Logger по секции logging.
func ProvideLogger(cfg *config.Config) logging.Logger {
	return logging.NewLogger(cfg.Logging.ToLogging())
}

// ProvideOutputWriter создаёт Writer по LOG_MONITOR_OUTPUT_FORMAT.
// Формат читается из окружения, а не из Config: его удобно менять
// на один вызов без правки файла конфигурации.
func ProvideOutputWriter() output.Writer {
	format := os.Getenv(constants.EnvOutputFormat)
	if format == "" {
		format = output.FormatText
	}
	return output.NewWriter(format)
}

// ProvideTraceID генерирует trace_id запуска (32 hex символа).
func ProvideTraceID() string {
	return tracing.GenerateTraceID()
}

// ProvideMetricsCollector создаёт Collector по секции metrics.
// При ошибке создания возвращает NopCollector и логирует ошибку.
func ProvideMetricsCollector(cfg *config.Config, logger logging.Logger) metrics.Collector {
	collector, err := metrics.NewCollector(cfg.Metrics, logger)
	if err != nil {
		logger.Error("ошибка создания MetricsCollector, используется NopCollector",
			slog.String("error", err.Error()),
		)
		return metrics.NewNopCollector()
	}
	return collector
}

// ProvideTracerProvider инициализирует OTel TracerProvider и возвращает
// функцию его завершения. При ошибке используется nop provider.
func ProvideTracerProvider(cfg *config.Config, logger logging.Logger) func(context.Context) error {
	tracingCfg := cfg.Tracing
	tracingCfg.Version = constants.Version

	shutdown, err := tracing.NewTracerProvider(tracingCfg, logger)
	if err != nil {
		logger.Error("ошибка инициализации tracing, используется nop provider",
			slog.String("error", err.Error()),
		)
		return tracing.NewNopTracerProvider()
	}
	return shutdown
}

// ProvideAuditClient создаёт клиент Redis для аудита.
// Возвращает nil, если аудит выключен.
func ProvideAuditClient(cfg *config.Config, logger logging.Logger) *redis.Client {
	if !cfg.Audit.Enabled {
		return nil
	}
	return audit.NewRedisClient(cfg.Audit, logger)
}

// ProvideRouter создаёт Router и подписывает на его шину наблюдателей:
// лог, метрики и, если есть клиент Redis, аудит.
// Ошибка конфигурации мониторинга возвращается как есть (*apperrors.AppError).
func ProvideRouter(
	cfg *config.Config,
	logger logging.Logger,
	collector metrics.Collector,
	auditClient *redis.Client,
) (*logmonitor.Router, error) {
	settings := logmonitor.Settings{
		AppName:     cfg.App.Name,
		Environment: cfg.App.Environment,
	}
	router, err := logmonitor.New(cfg.Monitor, settings, logger, logmonitor.WithMetrics(collector))
	if err != nil {
		return nil, err
	}

	bus := router.Bus()
	bus.Subscribe(logmonitor.NewLogListener(logger))
	bus.Subscribe(logmonitor.NewMetricsListener(collector))
	if auditClient != nil {
		bus.Subscribe(audit.NewListener(auditClient, cfg.Audit, logger))
	}
	return router, nil
}

// ProvideSlogHook создаёт slog.Handler хоста: записи пишутся в stderr
// в формате секции logging и пересылаются в Router.
func ProvideSlogHook(cfg *config.Config, router *logmonitor.Router) *logmonitor.SlogHandler {
	next := logging.NewHandler(cfg.Logging.ToLogging(), os.Stderr)
	return logmonitor.NewSlogHandler(next, router)
}
