package consumer

import "github.com/Gunvolt24/kconsumer/internal/domain"

// Request — запрос к актору. Набор вариантов закрыт: реализации только в этом пакете.
type Request interface {
	kind() string
}

const (
	kindSubscribe  = "subscribe"
	kindAssignment = "assignment"
	kindFetch      = "fetch"
	kindPoll       = "poll"
	kindShutdown   = "shutdown"
)

// subscribeRequest — подписка без ответа.
type subscribeRequest struct {
	topics []string
}

// assignmentRequest — текущее назначение партиций.
type assignmentRequest struct {
	reply *promise[[]domain.TopicPartition]
}

// fetchRequest — очередная пачка сообщений одной партиции.
type fetchRequest struct {
	partition domain.TopicPartition
	reply     *promise[[]domain.Message]
}

// pollRequest — тик планировщика: один цикл poll.
type pollRequest struct{}

// shutdownRequest — просьба к актору остановиться.
type shutdownRequest struct{}

func (subscribeRequest) kind() string  { return kindSubscribe }
func (assignmentRequest) kind() string { return kindAssignment }
func (fetchRequest) kind() string      { return kindFetch }
func (pollRequest) kind() string       { return kindPoll }
func (shutdownRequest) kind() string   { return kindShutdown }
