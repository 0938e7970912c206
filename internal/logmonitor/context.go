package logmonitor

import (
	"fmt"
	"strings"

	"github.com/Kargones/logmonitor/internal/pkg/alerting"

	"golang.org/x/text/cases"
)

// ExtractMetadata читает параметры маршрутизации из context["llm"].
// Значения неожиданного типа игнорируются: плохие метаданные не должны
// мешать доставке.
func ExtractMetadata(ctx map[string]any) RoutingMetadata {
	var md RoutingMetadata
	raw, ok := ctx[MetadataKey]
	if !ok || raw == nil {
		return md
	}

	values := asStringMap(raw)
	if values == nil {
		return md
	}

	md.Alert = truthy(values["alert"])
	if p, ok := values["priority"].(string); ok {
		md.Priority = p
	}
	md.Channels = channelNames(values["channel"])
	return md
}

// ExtractPriority возвращает допустимый приоритет без учёта регистра.
// Второе значение false, если приоритет не задан или не входит в список.
func ExtractPriority(md RoutingMetadata) (alerting.Priority, bool) {
	if md.Priority == "" {
		return "", false
	}
	p := alerting.Priority(fold(strings.TrimSpace(md.Priority)))
	if !p.Valid() {
		return "", false
	}
	return p, true
}

// FilterContext возвращает копию контекста без служебного ключа.
// Значения приводятся через alerting.JSONSafe, поэтому NaN и
// бесконечности попадают в пост и письмо строками. Исходная карта
// не изменяется.
func FilterContext(ctx map[string]any) map[string]any {
	out := make(map[string]any, len(ctx))
	for k, v := range ctx {
		if k == MetadataKey {
			continue
		}
		out[k] = alerting.JSONSafe(v)
	}
	return out
}

func asStringMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out
	default:
		return nil
	}
}

// truthy трактует как истину bool true, строки "true"/"1"/"yes" и ненулевые числа.
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch fold(strings.TrimSpace(t)) {
		case "true", "1", "yes", "on":
			return true
		}
		return false
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	default:
		return false
	}
}

// channelNames нормализует поле channel: строка, список строк или nil.
// Пустой список трактуется как отсутствие поля.
func channelNames(v any) []string {
	var names []string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		names = []string{t}
	case []string:
		names = append(names, t...)
	case []any:
		for _, item := range t {
			switch s := item.(type) {
			case string:
				names = append(names, s)
			case fmt.Stringer:
				names = append(names, s.String())
			}
		}
	default:
		return nil
	}
	if len(names) == 0 {
		return nil
	}
	return names
}

// fold приводит строку к форме для сравнения без учёта регистра.
// cases.Caser хранит состояние, поэтому создаётся на каждый вызов.
func fold(s string) string {
	return cases.Fold().String(s)
}
