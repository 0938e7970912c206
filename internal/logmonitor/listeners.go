package logmonitor

import (
	"context"

	"github.com/Kargones/logmonitor/internal/pkg/logging"
	"github.com/Kargones/logmonitor/internal/pkg/metrics"
)

// NewLogListener пишет каждый сигнал в диагностический лог.
// Sending и Sent идут на уровне debug, Failed уже залогирован
// диспетчером на уровне error.
func NewLogListener(logger logging.Logger) Listener {
	return ListenerFunc(func(_ context.Context, s Signal) {
		if s.Kind == SignalFailed {
			return
		}
		logger.Debug("сигнал доставки",
			"signal", s.Kind.String(),
			"channel", s.Channel,
			"target", s.Target,
			"level", s.Event.Level,
			"trace_id", s.TraceID,
		)
	})
}

// NewMetricsListener учитывает завершённые доставки в Collector.
func NewMetricsListener(collector metrics.Collector) Listener {
	return ListenerFunc(func(_ context.Context, s Signal) {
		switch s.Kind {
		case SignalSent:
			collector.RecordNotification(s.Channel, metrics.StatusSent, s.Duration)
		case SignalFailed:
			collector.RecordNotification(s.Channel, metrics.StatusFailed, s.Duration)
		}
	})
}
