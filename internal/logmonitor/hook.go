package logmonitor

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Kargones/logmonitor/internal/pkg/alerting"
)

// SlogHandler — slog.Handler, который передаёт записи в Router и
// в следующий обработчик цепочки. Доставка выполняется в отдельной
// горутине, чтобы вызов логгера не ждал сети. Wait дожидается всех
// начатых доставок.
//
// Логгер самого Router не должен писать через этот обработчик,
// иначе ошибки доставки порождают новые события.
type SlogHandler struct {
	next   slog.Handler
	router *Router
	attrs  []slog.Attr
	groups []string
	wg     *sync.WaitGroup
}

// NewSlogHandler оборачивает next. next может быть nil: тогда записи
// идут только в роутер.
func NewSlogHandler(next slog.Handler, router *Router) *SlogHandler {
	return &SlogHandler{next: next, router: router, wg: &sync.WaitGroup{}}
}

// Enabled пропускает запись, если её ждёт следующий обработчик или
// мониторинг включён: событие с alert может прийти на любом уровне.
func (h *SlogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.router.Enabled() {
		return true
	}
	return h.next != nil && h.next.Enabled(ctx, level)
}

// Handle передаёт запись дальше по цепочке и в роутер.
func (h *SlogHandler) Handle(ctx context.Context, record slog.Record) error {
	var err error
	if h.next != nil && h.next.Enabled(ctx, record.Level) {
		err = h.next.Handle(ctx, record)
	}

	if h.router.Enabled() {
		event := h.eventFromRecord(record)
		detached := context.WithoutCancel(ctx)
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			h.router.Handle(detached, event)
		}()
	}
	return err
}

// WithAttrs возвращает обработчик с дополнительными атрибутами.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), h.qualify(attrs)...)
	if h.next != nil {
		clone.next = h.next.WithAttrs(attrs)
	}
	return &clone
}

// WithGroup возвращает обработчик, вкладывающий последующие атрибуты в группу.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	if h.next != nil {
		clone.next = h.next.WithGroup(name)
	}
	return &clone
}

// Wait блокируется до завершения всех начатых доставок.
func (h *SlogHandler) Wait() {
	h.wg.Wait()
}

// qualify вкладывает атрибуты в текущие группы.
func (h *SlogHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if len(h.groups) == 0 {
		return attrs
	}
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	wrapped := slog.Group(h.groups[len(h.groups)-1], args...)
	for i := len(h.groups) - 2; i >= 0; i-- {
		wrapped = slog.Group(h.groups[i], wrapped)
	}
	return []slog.Attr{wrapped}
}

func (h *SlogHandler) eventFromRecord(record slog.Record) LogEvent {
	ctx := make(map[string]any)
	for _, a := range h.attrs {
		putAttr(ctx, a)
	}

	var recordAttrs []slog.Attr
	record.Attrs(func(a slog.Attr) bool {
		recordAttrs = append(recordAttrs, a)
		return true
	})
	for _, a := range h.qualify(recordAttrs) {
		putAttr(ctx, a)
	}

	return LogEvent{
		Level:   levelName(record.Level),
		Message: record.Message,
		Context: ctx,
		Time:    record.Time,
	}
}

// putAttr кладёт атрибут в карту; группы становятся вложенными картами.
func putAttr(dst map[string]any, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() != slog.KindGroup {
		if a.Key == "" {
			return
		}
		if err, ok := v.Any().(error); ok {
			dst[a.Key] = err.Error()
			return
		}
		dst[a.Key] = alerting.JSONSafe(v.Any())
		return
	}

	target := dst
	if a.Key != "" {
		nested, ok := dst[a.Key].(map[string]any)
		if !ok {
			nested = make(map[string]any)
			dst[a.Key] = nested
		}
		target = nested
	}
	for _, ga := range v.Group() {
		putAttr(target, ga)
	}
}

// levelName переводит уровень slog в имя уровня события.
func levelName(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return LevelError
	case l >= slog.LevelWarn:
		return "warning"
	case l >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}

var _ slog.Handler = (*SlogHandler)(nil)
