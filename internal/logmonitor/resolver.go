package logmonitor

import (
	"strings"

	"github.com/Kargones/logmonitor/internal/pkg/alerting"
)

// DefaultChannel — ключевое слово канала по умолчанию в метаданных события.
const DefaultChannel = "default"

// ResolveTargets превращает имена из метаданных в упорядоченный список
// идентификаторов каналов без повторов.
//
// Без имён используется канал по умолчанию. "default" разворачивается
// в канал по умолчанию, имя группы в её идентификаторы. Неизвестные
// имена пропускаются. Порядок первого появления сохраняется.
func ResolveTargets(md RoutingMetadata, cfg alerting.MattermostConfig) []string {
	names := md.Channels
	if len(names) == 0 {
		names = []string{DefaultChannel}
	}

	seen := make(map[string]struct{})
	targets := make([]string, 0, len(names))
	add := func(id string) {
		id = strings.TrimSpace(id)
		if id == "" {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		targets = append(targets, id)
	}

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == DefaultChannel {
			add(cfg.ChannelID)
			continue
		}
		if group, ok := cfg.AdditionalChannels[name]; ok {
			for _, id := range group {
				add(id)
			}
		}
	}
	return targets
}
