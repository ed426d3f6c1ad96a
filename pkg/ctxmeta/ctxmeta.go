// Пакет ctxmeta — нейтральный слой для работы с метаданными, которые прокидываются
// через context.Context (request_id, consumer_id, trace_id).
// HTTP-слой, консьюмер и логгер зависят от небольшого общего пакета, но не друг от друга.
package ctxmeta

import "context"

type ctxKey string

const (
	// Ключи контекста (собственный тип — чтобы избежать коллизий).
	KeyRequestID  ctxKey = "request_id"
	KeyConsumerID ctxKey = "consumer_id"
)

// WithRequestID кладёт request_id в контекст (если пусто — ничего не делает).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withString(ctx, KeyRequestID, requestID)
}

// RequestIDFromContext достаёт request_id из контекста.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, KeyRequestID)
}

// WithConsumerID помечает контекст идентификатором клиента консьюмера (client id).
func WithConsumerID(ctx context.Context, consumerID string) context.Context {
	return withString(ctx, KeyConsumerID, consumerID)
}

// ConsumerIDFromContext достаёт consumer_id из контекста.
func ConsumerIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, KeyConsumerID)
}

func withString(ctx context.Context, key ctxKey, v string) context.Context {
	if ctx == nil || v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func stringFrom(ctx context.Context, key ctxKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
