package logmonitor

import (
	"context"
	"fmt"
	"time"

	"github.com/Kargones/logmonitor/internal/pkg/alerting"
	"github.com/Kargones/logmonitor/internal/pkg/apperrors"
	"github.com/Kargones/logmonitor/internal/pkg/logging"
	"github.com/Kargones/logmonitor/internal/pkg/metrics"
	"github.com/Kargones/logmonitor/internal/pkg/tracing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// tracerName — имя инструментирующей библиотеки для span-ов роутера.
const tracerName = "github.com/Kargones/logmonitor/internal/logmonitor"

// Settings — сведения о приложении-хосте.
type Settings struct {
	// AppName попадает в заголовок поста и в письма.
	AppName string
	// Environment сравнивается со списком разрешённых окружений.
	Environment string
}

// Option настраивает Router.
type Option func(*Router)

// WithChatSender подменяет транспорт Mattermost.
func WithChatSender(s ChatSender) Option {
	return func(r *Router) { r.chat = s }
}

// WithMailSender подменяет транспорт email.
func WithMailSender(s MailSender) Option {
	return func(r *Router) { r.mail = s }
}

// WithBus задаёт шину сигналов. По умолчанию создаётся пустая.
func WithBus(b *Bus) Option {
	return func(r *Router) { r.bus = b }
}

// WithMetrics задаёт Collector для учёта событий.
func WithMetrics(c metrics.Collector) Option {
	return func(r *Router) { r.metrics = c }
}

// WithClock задаёт источник времени для событий без метки времени.
func WithClock(now func() time.Time) Option {
	return func(r *Router) { r.now = now }
}

// Router — точка входа для событий журнала.
type Router struct {
	config   alerting.Config
	settings Settings
	logger   logging.Logger
	tracer   trace.Tracer
	now      func() time.Time

	filter     *EventFilter
	composer   *Composer
	dispatcher *Dispatcher
	bus        *Bus
	metrics    metrics.Collector
	chat       ChatSender
	mail       MailSender
}

// New проверяет конфигурацию и собирает Router.
// Ошибка конфигурации возвращается как *apperrors.AppError с кодом
// CONFIG.VALIDATION_FAILED и делает запуск невозможным.
func New(cfg alerting.Config, settings Settings, logger logging.Logger, opts ...Option) (*Router, error) {
	transports, err := alerting.NewTransports(cfg, logger)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigValidate, "некорректная конфигурация мониторинга", err)
	}

	r := &Router{
		config:   cfg,
		settings: settings,
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.bus == nil {
		r.bus = NewBus(logger)
	}
	if r.metrics == nil {
		r.metrics = metrics.NewNopCollector()
	}
	if r.chat == nil && transports.Mattermost != nil {
		r.chat = transports.Mattermost
	}
	if r.mail == nil && transports.Email != nil {
		r.mail = transports.Email
	}

	composer, err := NewComposer(settings.AppName, cfg.Mattermost.MessageTemplate)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigValidate, "некорректный шаблон сообщения", err)
	}
	r.composer = composer

	r.filter = NewEventFilter(cfg, settings.Environment)
	r.dispatcher = NewDispatcher(r.chat, r.mail, r.bus, logger, r.tracer)
	return r, nil
}

// Bus возвращает шину сигналов для подписки наблюдателей.
func (r *Router) Bus() *Bus {
	return r.bus
}

// Enabled сообщает, включён ли мониторинг глобально.
func (r *Router) Enabled() bool {
	return r.config.Enabled
}

// Handle обрабатывает одно событие: фильтрует, доставляет в чат и по
// политике резервирования в email. Ничего не возвращает вызывающему в
// виде ошибки и не паникует: сбои логируются, отчёт нужен только CLI и тестам.
func (r *Router) Handle(ctx context.Context, event LogEvent) (report Report) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("паника при обработке события журнала",
				"panic", fmt.Sprint(rec),
				"level", event.Level,
			)
		}
	}()

	if event.Time.IsZero() {
		event.Time = r.now()
	}

	md := ExtractMetadata(event.Context)
	if reason := r.filter.Decide(event, md); reason != "" {
		r.metrics.RecordEvent(reason)
		report.DropReason = reason
		return report
	}
	r.metrics.RecordEvent(metrics.EventAccepted)
	report.Processed = true

	ctx, traceID := tracing.EnsureTraceID(ctx)
	ctx, span := r.tracer.Start(ctx, "logmonitor.handle",
		trace.WithAttributes(
			attribute.String("level", event.Level),
			attribute.Bool("alert", md.Alert),
		))
	defer span.End()

	logger := r.logger.With("trace_id", traceID)
	delivery := FilterContext(event.Context)
	priority, _ := ExtractPriority(md)

	if r.config.Mattermost.Enabled {
		report.Targets = ResolveTargets(md, r.config.Mattermost)
		if len(report.Targets) == 0 {
			logger.Debug("нет каналов Mattermost для события", "channels", md.Channels)
		} else {
			body, err := r.composer.Compose(event.Level, event.Message, delivery, event.Time)
			if err != nil {
				logger.Warn("не удалось собрать текст поста, отправляется исходное сообщение", "error", err.Error())
				body = event.Message
			}
			report.Outcomes = r.dispatcher.SendToChannels(ctx, event, report.Targets, body, priority)
		}
	}

	if r.config.Email.Enabled && ShouldSendEmail(r.config.Email.SendAsBackup, r.config.Mattermost.Enabled, report.Outcomes) {
		report.EmailSent = true
		n := alerting.EmailNotification{
			Level:       event.Level,
			Message:     event.Message,
			Context:     delivery,
			AppName:     r.settings.AppName,
			Environment: r.settings.Environment,
			Time:        event.Time,
		}
		emails := r.dispatcher.SendEmails(ctx, event, r.config.Email.RecipientList(), n)
		report.Outcomes = append(report.Outcomes, emails...)
	}

	span.SetAttributes(
		attribute.Int("targets", len(report.Targets)),
		attribute.Int("failed", report.Failed()),
	)
	return report
}
