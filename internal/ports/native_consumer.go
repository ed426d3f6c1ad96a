package ports

import (
	"context"
	"time"

	"github.com/Gunvolt24/kconsumer/internal/domain"
)

// NativeConsumer — контракт над нативным клиентом Kafka.
// Реализации не обязаны быть потокобезопасными: все вызовы идут из одного актора.
type NativeConsumer interface {
	// Subscribe — заменяет текущую подписку списком топиков.
	Subscribe(topics []string) error
	// Assignment — партиции, назначенные консьюмеру группой на текущий момент.
	Assignment() []domain.TopicPartition
	// Pause/Resume — управление выборкой по партициям.
	Pause(partitions []domain.TopicPartition)
	Resume(partitions []domain.TopicPartition)
	// Poll — блокирующий опрос, ограниченный timeout.
	Poll(ctx context.Context, timeout time.Duration) (domain.PollResult, error)
	// Close — освобождает клиента (выход из группы, закрытие соединений).
	Close(ctx context.Context) error
}
