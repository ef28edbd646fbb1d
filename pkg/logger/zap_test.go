package logger_test

import (
	"context"
	"testing"

	"github.com/Gunvolt24/wc_order_export/pkg/ctxmeta"
	"github.com/Gunvolt24/wc_order_export/pkg/logger"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_AddsContextFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := logger.NewFromZap(zap.New(core))

	ctx := ctxmeta.WithRequestID(context.Background(), "req-7")
	ctx = ctxmeta.WithSubject(ctx, "admin")
	l.Infof(ctx, "export %s done", "orders-export.csv")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("ожидали 1 запись, got %d", len(entries))
	}
	e := entries[0]
	if e.Message != "export orders-export.csv done" {
		t.Fatalf("message = %q", e.Message)
	}
	fields := e.ContextMap()
	if fields["request_id"] != "req-7" || fields["subject"] != "admin" {
		t.Fatalf("поля контекста не добавлены: %v", fields)
	}
}

func TestZapLogger_NoContextFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := logger.NewFromZap(zap.New(core))

	l.Warnf(context.Background(), "plain")
	l.Errorf(context.Background(), "boom: %v", "x")

	if logs.Len() != 2 {
		t.Fatalf("ожидали 2 записи, got %d", logs.Len())
	}
	if len(logs.All()[0].Context) != 0 {
		t.Fatalf("без метаданных поля не добавляются: %v", logs.All()[0].Context)
	}
}

func TestZapLogger_TraceFieldsAndDebugLevel(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := logger.NewFromZap(zap.New(core))

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	ctx, span := tp.Tracer("test").Start(context.Background(), "preview")
	defer span.End()

	l.Debugf(ctx, "probe path=%s", "/ping")
	l.Warnf(ctx, "publish failed")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("debug ниже уровня Info не должен попасть в лог, got %d записей", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["trace_id"] != span.SpanContext().TraceID().String() {
		t.Fatalf("trace_id = %v", fields["trace_id"])
	}
	if _, ok := fields["span_id"]; !ok {
		t.Fatalf("нет span_id: %v", fields)
	}
}

func TestNewZapLogger_Level(t *testing.T) {
	if _, _, err := logger.NewZapLogger(true, "verbose"); err == nil {
		t.Fatalf("неизвестный уровень должен давать ошибку")
	}

	l, cleanup, err := logger.NewZapLogger(true, "warn")
	if err != nil {
		t.Fatalf("NewZapLogger: %v", err)
	}
	defer func() { _ = cleanup() }()
	if l.Base().Core().Enabled(zap.InfoLevel) {
		t.Fatalf("при уровне warn info-записи отключены")
	}
}
