package ports

import "context"

// MessageConsumer — фоновый потребитель сообщений, которого запускает приложение.
type MessageConsumer interface {
	Run(ctx context.Context) error
	Close() error
}
