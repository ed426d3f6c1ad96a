package ports

import (
	"context"

	"github.com/Gunvolt24/kconsumer/internal/domain"
)

// MessageReadService — чтение сохранённых сообщений для транспортного слоя.
type MessageReadService interface {
	GetMessage(ctx context.Context, ref domain.MessageRef) (*domain.Message, error)
	CountMessages(ctx context.Context, topic string) (int64, error)
}
