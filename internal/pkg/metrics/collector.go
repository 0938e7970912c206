// Package metrics собирает Prometheus метрики доставки уведомлений.
//
// Collector скрывает реализацию: PrometheusCollector при включённых
// метриках и NopCollector при выключенных. Метрики отдаются двумя
// путями: push в Pushgateway при завершении процесса и /metrics для
// долгоживущего режима.
package metrics

import (
	"context"
	"net/http"
	"time"
)

// Результаты обработки события для logmonitor_events_total.
const (
	EventAccepted = "accepted"
)

// Статусы доставки для logmonitor_notifications_total.
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Collector определяет интерфейс сбора метрик.
type Collector interface {
	// RecordEvent учитывает событие журнала: принято или причина отказа.
	RecordEvent(result string)

	// RecordNotification учитывает одну доставку в канал.
	RecordNotification(channel, status string, duration time.Duration)

	// Push отправляет метрики в Pushgateway. Ошибки логируются внутри,
	// результат всегда nil: сбой метрик не влияет на работу.
	Push(ctx context.Context) error

	// Handler возвращает HTTP обработчик /metrics.
	Handler() http.Handler
}
