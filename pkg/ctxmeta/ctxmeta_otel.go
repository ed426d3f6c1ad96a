package ctxmeta

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// TraceIDFromContext — trace_id активного спана.
func TraceIDFromContext(ctx context.Context) (string, bool) {
	if sc := spanContext(ctx); sc.IsValid() {
		return sc.TraceID().String(), true
	}
	return "", false
}

// SpanIDFromContext — span_id активного спана.
func SpanIDFromContext(ctx context.Context) (string, bool) {
	if sc := spanContext(ctx); sc.IsValid() {
		return sc.SpanID().String(), true
	}
	return "", false
}

// Fields — все известные метаданные ctx парами ключ/значение для структурных логов.
// Отсутствующие значения пропускаются; порядок фиксирован.
func Fields(ctx context.Context) []any {
	var kv []any
	if v, ok := RequestIDFromContext(ctx); ok {
		kv = append(kv, string(KeyRequestID), v)
	}
	if v, ok := ConsumerIDFromContext(ctx); ok {
		kv = append(kv, string(KeyConsumerID), v)
	}
	if v, ok := TraceIDFromContext(ctx); ok {
		kv = append(kv, "trace_id", v)
	}
	return kv
}

func spanContext(ctx context.Context) trace.SpanContext {
	if ctx == nil {
		return trace.SpanContext{}
	}
	return trace.SpanContextFromContext(ctx)
}
