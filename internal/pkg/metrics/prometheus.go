package metrics

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Kargones/logmonitor/internal/pkg/logging"
	"github.com/Kargones/logmonitor/internal/pkg/urlutil"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

// namespace — префикс всех метрик.
const namespace = "logmonitor"

// PrometheusCollector реализует Collector поверх собственного registry.
type PrometheusCollector struct {
	config   Config
	logger   logging.Logger
	registry *prometheus.Registry

	events           *prometheus.CounterVec
	notifications    *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec

	instance string
}

// NewPrometheusCollector создаёт PrometheusCollector и регистрирует метрики:
//   - logmonitor_events_total{result}
//   - logmonitor_notifications_total{channel,status}
//   - logmonitor_dispatch_duration_seconds{channel,status}
func NewPrometheusCollector(config Config, logger logging.Logger) (*PrometheusCollector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	instance := config.InstanceLabel
	if instance == "" {
		hostname, err := os.Hostname()
		if err != nil {
			logger.Warn("не удалось получить hostname для metrics instance label, используется 'unknown'",
				"error", err.Error())
			hostname = "unknown"
		}
		instance = hostname
	}

	events := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Log events seen by the router, by filter result",
		},
		[]string{"result"},
	)

	notifications := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification deliveries by channel and status",
		},
		[]string{"channel", "status"},
	)

	// Корзины от быстрого поста (10ms) до исчерпанных повторов загрузки файла.
	dispatchDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Duration of a single delivery including retries",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120},
		},
		[]string{"channel", "status"},
	)

	registry := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{events, notifications, dispatchDuration} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("ошибка регистрации метрики: %w", err)
		}
	}

	return &PrometheusCollector{
		config:           config,
		logger:           logger,
		registry:         registry,
		events:           events,
		notifications:    notifications,
		dispatchDuration: dispatchDuration,
		instance:         instance,
	}, nil
}

// maxLabelLength ограничивает длину значения label.
const maxLabelLength = 128

// sanitizeLabel заменяет управляющие символы и обрезает значение по рунам.
func sanitizeLabel(value string) string {
	clean := strings.Map(func(r rune) rune {
		if r < 0x20 {
			return '_'
		}
		return r
	}, value)

	if runes := []rune(clean); len(runes) > maxLabelLength {
		return string(runes[:maxLabelLength])
	}
	return clean
}

// RecordEvent учитывает событие журнала.
func (c *PrometheusCollector) RecordEvent(result string) {
	c.events.WithLabelValues(sanitizeLabel(result)).Inc()
}

// RecordNotification учитывает одну доставку.
func (c *PrometheusCollector) RecordNotification(channel, status string, duration time.Duration) {
	channel = sanitizeLabel(channel)
	status = sanitizeLabel(status)
	c.notifications.WithLabelValues(channel, status).Inc()
	c.dispatchDuration.WithLabelValues(channel, status).Observe(duration.Seconds())
}

// Handler возвращает обработчик /metrics для собственного registry.
func (c *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Push отправляет метрики в Pushgateway. Всегда возвращает nil.
func (c *PrometheusCollector) Push(ctx context.Context) error {
	if c.config.PushgatewayURL == "" {
		c.logger.Debug("metrics: pushgateway URL not configured, skipping push")
		return nil
	}

	if ctx.Err() != nil {
		c.logger.Debug("metrics push отменён")
		return nil
	}

	pusher := push.New(c.config.PushgatewayURL, c.config.JobName).
		Gatherer(c.registry).
		Grouping("instance", c.instance)

	pushCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	if err := pusher.PushContext(pushCtx); err != nil {
		c.logger.Error("ошибка отправки метрик в Pushgateway",
			"error", err.Error(),
			"url", urlutil.MaskURL(c.config.PushgatewayURL),
			"job", c.config.JobName,
		)
		return nil
	}

	c.logger.Info("метрики отправлены в Pushgateway",
		"url", urlutil.MaskURL(c.config.PushgatewayURL),
		"job", c.config.JobName,
		"instance", c.instance,
	)
	return nil
}

// Registry возвращает внутренний registry (для тестов).
func (c *PrometheusCollector) Registry() *prometheus.Registry {
	return c.registry
}
