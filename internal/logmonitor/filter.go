package logmonitor

import "github.com/Kargones/logmonitor/internal/pkg/alerting"

// Причины отказа в обработке события.
const (
	DropDisabled    = "disabled"
	DropEnvironment = "environment"
	DropLevel       = "level"
)

// EventFilter решает, заслуживает ли событие уведомления.
type EventFilter struct {
	enabled     bool
	environment string
	allowed     []string
}

// NewEventFilter создаёт фильтр для текущего окружения приложения.
func NewEventFilter(cfg alerting.Config, environment string) *EventFilter {
	return &EventFilter{
		enabled:     cfg.Enabled,
		environment: environment,
		allowed:     cfg.EnvironmentList(),
	}
}

// ShouldProcess возвращает true, если событие нужно доставить.
func (f *EventFilter) ShouldProcess(event LogEvent, md RoutingMetadata) bool {
	return f.Decide(event, md) == ""
}

// Decide возвращает причину отказа или пустую строку, если событие принято.
// Проверки идут по порядку: выключатель, окружение, уровень или флаг alert.
func (f *EventFilter) Decide(event LogEvent, md RoutingMetadata) string {
	if !f.enabled {
		return DropDisabled
	}
	if !f.environmentAllowed() {
		return DropEnvironment
	}
	if fold(event.Level) == LevelError || md.Alert {
		return ""
	}
	return DropLevel
}

func (f *EventFilter) environmentAllowed() bool {
	for _, env := range f.allowed {
		if env == f.environment {
			return true
		}
	}
	return false
}
