package tracing

import (
	"context"
	"testing"
	"time"

	"github.com/Kargones/logmonitor/internal/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// Тесты модифицируют глобальный TracerProvider, t.Parallel() не используется.

func TestNewTracerProvider_Disabled(t *testing.T) {
	shutdown, err := NewTracerProvider(Config{Enabled: false}, logging.NewNopLogger())
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
	assert.NoError(t, shutdown(context.Background()))
}

func TestNewTracerProvider_InvalidConfig(t *testing.T) {
	cfg := Config{Enabled: true, ServiceName: "logmonitor", Timeout: time.Second}
	_, err := NewTracerProvider(cfg, logging.NewNopLogger())
	assert.ErrorIs(t, err, ErrTracingEndpointRequired)
}

func TestNewTracerProvider_Enabled(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	cfg := Config{
		Enabled:      true,
		Endpoint:     "http://127.0.0.1:4318",
		ServiceName:  "logmonitor",
		Version:      "test",
		Environment:  "test",
		Insecure:     true,
		Timeout:      100 * time.Millisecond,
		SamplingRate: 1.0,
	}
	shutdown, err := NewTracerProvider(cfg, logging.NewNopLogger())
	require.NoError(t, err)

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = shutdown(ctx) //nolint:errcheck // экспорт в недоступный endpoint
}

func TestContextWithOTelTraceID_SpanInheritsTraceID(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(newSampler(1.0)),
	)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	id := GenerateTraceID()
	ctx := ContextWithOTelTraceID(context.Background(), id)
	_, span := tp.Tracer("test").Start(ctx, "logmonitor.handle")
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, id, spans[0].SpanContext.TraceID().String())
}

func TestContextWithOTelTraceID_InvalidHex(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, ContextWithOTelTraceID(ctx, "not-hex"))
}

func TestSampler_ZeroRateDropsRemoteParent(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(newSampler(0)),
	)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx := ContextWithOTelTraceID(context.Background(), GenerateTraceID())
	_, span := tp.Tracer("test").Start(ctx, "logmonitor.handle")
	span.End()

	assert.Empty(t, exporter.GetSpans())
}
