package metrics

import (
	"context"
	"net/http"
	"time"
)

// NopCollector — no-op реализация Collector.
type NopCollector struct{}

// NewNopCollector создаёт NopCollector.
func NewNopCollector() *NopCollector {
	return &NopCollector{}
}

// RecordEvent — no-op.
func (c *NopCollector) RecordEvent(string) {}

// RecordNotification — no-op.
func (c *NopCollector) RecordNotification(string, string, time.Duration) {}

// Push — no-op, всегда возвращает nil.
func (c *NopCollector) Push(context.Context) error {
	return nil
}

// Handler отвечает 404: метрики выключены.
func (c *NopCollector) Handler() http.Handler {
	return http.NotFoundHandler()
}
