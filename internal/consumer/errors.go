package consumer

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSubscribed — запрос назначения до первой успешной подписки.
	ErrNotSubscribed = errors.New("consumer is not subscribed")
	// ErrNotStarted — операция требует запущенного консьюмера.
	ErrNotStarted = errors.New("consumer is not started")
	// ErrAlreadyStarted — повторный Start.
	ErrAlreadyStarted = errors.New("consumer is already started")
	// ErrCloseTimeout — нативный консьюмер не закрылся за CloseTimeout.
	ErrCloseTimeout = errors.New("native consumer close timed out")
)

// PanicError — паника внутри обработчика запроса, превращённая в ошибку юнита.
type PanicError struct {
	Request string
	Value   any
	Stack   []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("actor panicked on %s request: %v", e.Request, e.Value)
}
