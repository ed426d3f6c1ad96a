package logger_test

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Gunvolt24/kconsumer/pkg/ctxmeta"
	"github.com/Gunvolt24/kconsumer/pkg/logger"
)

func TestZapLogger_ContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := logger.New(zap.New(core))

	ctx := ctxmeta.WithRequestID(context.Background(), "req-1")
	ctx = ctxmeta.WithConsumerID(ctx, "kc-1")
	l.Infof(ctx, "hello %s", "world")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("want 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Message != "hello world" {
		t.Fatalf("message=%q", e.Message)
	}
	fields := e.ContextMap()
	if fields["request_id"] != "req-1" || fields["consumer_id"] != "kc-1" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestZapLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := logger.New(zap.New(core))

	l.Warnf(context.Background(), "w")
	l.Errorf(context.Background(), "e")

	if got := logs.FilterLevelExact(zapcore.WarnLevel).Len(); got != 1 {
		t.Fatalf("warn entries=%d", got)
	}
	if got := logs.FilterLevelExact(zapcore.ErrorLevel).Len(); got != 1 {
		t.Fatalf("error entries=%d", got)
	}
	if len(logs.All()[0].ContextMap()) != 0 {
		t.Fatalf("background ctx must add no fields")
	}
}
