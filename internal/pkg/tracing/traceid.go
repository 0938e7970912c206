// Package tracing отвечает за trace ID и OpenTelemetry TracerProvider.
//
// Trace ID — 32-символьная hex строка (16 байт), совместимая с W3C Trace
// Context. Один ID сопровождает событие журнала от приёма до последней
// попытки доставки: попадает в строки диагностического лога, в сигналы
// и в span-ы OTel.
package tracing

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"
)

// fallbackCounter обеспечивает уникальность fallback ID.
var fallbackCounter atomic.Uint64

// GenerateTraceID генерирует уникальный trace ID через crypto/rand.
// При ошибке crypto/rand возвращает ID из timestamp и счётчика.
func GenerateTraceID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fallbackTraceID()
	}
	return hex.EncodeToString(b)
}

// fallbackTraceID собирает 32 hex символа: 16 из timestamp и 16 из счётчика.
func fallbackTraceID() string {
	counter := fallbackCounter.Add(1)
	timestamp := uint64(time.Now().UnixNano())
	return fmt.Sprintf("%016x%016x", timestamp, counter)
}
