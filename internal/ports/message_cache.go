package ports

import (
	"context"

	"github.com/Gunvolt24/kconsumer/internal/domain"
)

// MessageCache — кэш недавно сохранённых сообщений.
// Требования к реализации: потокобезопасность; доступ по ключу не хуже O(1); возврат копий.
type MessageCache interface {
	// Get — (msg, true) при попадании, (nil, false) при промахе/истечении.
	Get(ctx context.Context, ref domain.MessageRef) (*domain.Message, bool)

	// Set — сохранить/обновить сообщения в кэше.
	Set(ctx context.Context, msgs ...domain.Message) error
}
