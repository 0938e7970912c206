// Package alerting содержит транспорты доставки уведомлений (Mattermost, email)
// и снимок их конфигурации с валидацией при старте.
//
// Пакет ничего не знает о лог-событиях и маршрутизации: он принимает уже
// сформированный текст и конкретный адрес доставки. Решения о том, кому и
// когда отправлять, принимает internal/logmonitor.
package alerting

import "strings"

// Имена каналов доставки.
const (
	// ChannelMattermost — имя чат-канала (Mattermost-совместимый сервер).
	ChannelMattermost = "mattermost"
	// ChannelEmail — имя email канала.
	ChannelEmail = "email"
)

// Priority — приоритет поста в Mattermost.
type Priority string

// Допустимые приоритеты. Любое другое значение отбрасывается.
const (
	PriorityUrgent    Priority = "urgent"
	PriorityImportant Priority = "important"
)

// Valid сообщает, входит ли приоритет в список допустимых.
func (p Priority) Valid() bool {
	return p == PriorityUrgent || p == PriorityImportant
}

// SplitList разбирает список через запятую: элементы обрезаются,
// пустые отбрасываются. Используется для environments и recipients.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
