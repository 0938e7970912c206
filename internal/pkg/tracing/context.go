package tracing

import "context"

// traceIDKey — ключ trace ID в context.
type traceIDKey struct{}

// WithTraceID возвращает context с trace ID. Существующее значение перезаписывается.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, id)
}

// TraceIDFromContext извлекает trace ID из context.
// Возвращает пустую строку, если trace ID не установлен или context == nil.
//
// Пример:
//
//	if id := tracing.TraceIDFromContext(ctx); id != "" {
//	    logger = logger.With("trace_id", id)
//	}
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}

// EnsureTraceID возвращает context с trace ID и сам ID.
// Если ID уже есть в context, он сохраняется; иначе генерируется новый
// и связывается с OTel span context.
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	if id := TraceIDFromContext(ctx); id != "" {
		return ctx, id
	}
	id := GenerateTraceID()
	ctx = WithTraceID(ctx, id)
	return ContextWithOTelTraceID(ctx, id), id
}
