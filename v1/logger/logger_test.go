package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(tracing bool) (*LoggerClient, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewFromZap(zap.New(core), tracing), logs
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel(Debug))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(Info))
	assert.Equal(t, zapcore.WarnLevel, parseLevel(Warning))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel(Error))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestInfoIncludesFieldsAndError(t *testing.T) {
	log, logs := newObservedLogger(false)

	log.Error("insert failed", errors.New("boom"), map[string]interface{}{"index": "docs"})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "insert failed", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "docs", fields["index"])
	assert.Equal(t, "boom", fields["error"])
}

func TestWithContextAddsTraceIDs(t *testing.T) {
	log, logs := newObservedLogger(true)

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	log.InfoWithContext(ctx, "traced", nil)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
}

func TestWithContextSkipsTraceIDsWhenDisabled(t *testing.T) {
	log, logs := newObservedLogger(false)

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	log.WarnWithContext(ctx, "untraced", nil)

	require.Equal(t, 1, logs.Len())
	_, ok := logs.All()[0].ContextMap()["trace_id"]
	assert.False(t, ok)
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("ZAP_LOGGER_LEVEL", "debug")
	t.Setenv("LOGGER_SERVICE_NAME", "")
	t.Setenv("LOGGER_ENABLE_TRACING", "true")

	cfg := NewConfigFromEnv()

	assert.Equal(t, Debug, cfg.Level)
	assert.Equal(t, "cfvectorize", cfg.ServiceName)
	assert.True(t, cfg.EnableTracing)
}
