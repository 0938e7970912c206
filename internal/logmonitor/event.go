// Package logmonitor маршрутизирует записи журнала в каналы уведомлений.
//
// Для каждой записи Router решает, нужно ли уведомление, извлекает из
// контекста служебные параметры маршрутизации (ключ "llm"), определяет
// набор каналов Mattermost, параллельно доставляет пост в каждый из них
// и по политике резервирования отправляет письма. Ошибки доставки
// логируются и публикуются в Bus, но никогда не возвращаются в точку
// логирования.
package logmonitor

import "time"

// MetadataKey — ключ контекста со служебными параметрами маршрутизации.
// Никогда не попадает в уведомления.
const MetadataKey = "llm"

// LevelError — уровень, который уведомляет всегда.
const LevelError = "error"

// LogEvent — запись журнала, поступившая от хоста. Не изменяется роутером.
type LogEvent struct {
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
	Time    time.Time      `json:"time,omitempty"`
}

// RoutingMetadata — параметры маршрутизации из context["llm"].
type RoutingMetadata struct {
	// Alert — принудительно уведомлять независимо от уровня.
	Alert bool
	// Priority — сырое значение приоритета, проверяется в ExtractPriority.
	Priority string
	// Channels — имена каналов или групп. nil означает «канал по умолчанию».
	Channels []string
}

// DeliveryOutcome — результат одной попытки доставки в один адрес.
type DeliveryOutcome struct {
	Channel   string
	Target    string
	Succeeded bool
	Err       error
	Response  any
	Duration  time.Duration
}

// Report — итог обработки одного события. Используется CLI и тестами;
// хост, вызывающий Handle из логгера, может его игнорировать.
type Report struct {
	// Processed — событие прошло фильтр.
	Processed bool `json:"processed"`
	// DropReason — причина отказа, если Processed=false.
	DropReason string `json:"drop_reason,omitempty"`
	// Targets — каналы Mattermost после разрешения и дедупликации.
	Targets []string `json:"targets,omitempty"`
	// EmailSent — сработала ли отправка писем.
	EmailSent bool `json:"email_sent"`
	// Outcomes — результаты по каждому адресу.
	Outcomes []DeliveryOutcome `json:"-"`
}

// Failed возвращает число неуспешных доставок.
func (r Report) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.Succeeded {
			n++
		}
	}
	return n
}

// anyFailed сообщает, есть ли среди результатов хотя бы одна ошибка.
func anyFailed(outcomes []DeliveryOutcome) bool {
	for _, o := range outcomes {
		if !o.Succeeded {
			return true
		}
	}
	return false
}

// channelOutcomes отбирает результаты одного канала.
func channelOutcomes(outcomes []DeliveryOutcome, channel string) []DeliveryOutcome {
	var out []DeliveryOutcome
	for _, o := range outcomes {
		if o.Channel == channel {
			out = append(out, o)
		}
	}
	return out
}
