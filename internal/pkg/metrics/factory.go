package metrics

import "github.com/Kargones/logmonitor/internal/pkg/logging"

// NewCollector создаёт Collector на основе конфигурации:
// NopCollector для выключенных метрик, PrometheusCollector для включённых.
func NewCollector(config Config, logger logging.Logger) (Collector, error) {
	if !config.Enabled {
		return NewNopCollector(), nil
	}
	return NewPrometheusCollector(config, logger)
}
