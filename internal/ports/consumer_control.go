package ports

import (
	"context"

	"github.com/Gunvolt24/kconsumer/internal/domain"
)

// ConsumerControl — то, что транспортный слой может делать с консьюмером.
type ConsumerControl interface {
	Subscribe(topics ...string) error
	Assignment(ctx context.Context) ([]domain.TopicPartition, error)
	State() domain.LifecycleState
}
