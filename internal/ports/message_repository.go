package ports

import (
	"context"

	"github.com/Gunvolt24/kconsumer/internal/domain"
)

// MessageRepository — хранилище прочитанных сообщений.
type MessageRepository interface {
	SaveBatch(ctx context.Context, batch []domain.Message) error
	GetByOffset(ctx context.Context, topic string, partition int32, offset int64) (*domain.Message, error)
	CountByTopic(ctx context.Context, topic string) (int64, error)
}
