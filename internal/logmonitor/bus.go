package logmonitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Kargones/logmonitor/internal/pkg/logging"
)

// SignalKind — стадия жизненного цикла доставки.
type SignalKind int

// Стадии доставки.
const (
	SignalSending SignalKind = iota
	SignalSent
	SignalFailed
)

func (k SignalKind) String() string {
	switch k {
	case SignalSending:
		return "sending"
	case SignalSent:
		return "sent"
	case SignalFailed:
		return "failed"
	default:
		return fmt.Sprintf("signal(%d)", int(k))
	}
}

// Signal — уведомление наблюдателей о доставке в один адрес.
type Signal struct {
	Kind    SignalKind
	Channel string
	Target  string
	Event   LogEvent
	TraceID string
	Time    time.Time

	// Payload — данные отправки: пост для Mattermost, письмо для email.
	// В Sent и Failed пост Mattermost уже после замены длинного текста
	// сводкой с вложением или обрезанным текстом.
	Payload any
	// Response — ответ сервера для SignalSent.
	Response any
	// Err — причина неудачи для SignalFailed.
	Err error
	// Duration — длительность доставки вместе с повторами.
	Duration time.Duration
}

// Listener получает сигналы доставки.
type Listener interface {
	OnSignal(ctx context.Context, s Signal)
}

// ListenerFunc позволяет использовать функцию как Listener.
type ListenerFunc func(ctx context.Context, s Signal)

// OnSignal вызывает f.
func (f ListenerFunc) OnSignal(ctx context.Context, s Signal) {
	f(ctx, s)
}

// Bus рассылает сигналы подписчикам синхронно, в порядке подписки.
// Паника подписчика перехватывается и логируется, на доставку она не влияет.
type Bus struct {
	mu        sync.RWMutex
	listeners []Listener
	logger    logging.Logger
}

// NewBus создаёт пустую шину.
func NewBus(logger logging.Logger) *Bus {
	return &Bus{logger: logger}
}

// Subscribe добавляет подписчика. Безопасен для конкурентного вызова.
func (b *Bus) Subscribe(l Listener) {
	if l == nil {
		return
	}
	b.mu.Lock()
	b.listeners = append(b.listeners, l)
	b.mu.Unlock()
}

// Publish рассылает сигнал всем подписчикам.
func (b *Bus) Publish(ctx context.Context, s Signal) {
	if s.Time.IsZero() {
		s.Time = time.Now()
	}

	b.mu.RLock()
	listeners := make([]Listener, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.RUnlock()

	for _, l := range listeners {
		b.notify(ctx, l, s)
	}
}

func (b *Bus) notify(ctx context.Context, l Listener, s Signal) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("паника в подписчике сигналов доставки",
				"panic", fmt.Sprint(r),
				"signal", s.Kind.String(),
				"channel", s.Channel,
			)
		}
	}()
	l.OnSignal(ctx, s)
}
