package consumer

import (
	"context"
	"sync"
)

// promise — одноразовая ячейка результата: пишется один раз, читается сколько угодно.
type promise[T any] struct {
	once sync.Once
	done chan struct{}
	val  T
	err  error
}

func newPromise[T any]() *promise[T] {
	return &promise[T]{done: make(chan struct{})}
}

// complete — успешное значение; false, если promise уже завершён.
func (p *promise[T]) complete(v T) bool { return p.settle(v, nil) }

// fail — завершение ошибкой; false, если promise уже завершён.
func (p *promise[T]) fail(err error) bool {
	var zero T
	return p.settle(zero, err)
}

func (p *promise[T]) settle(v T, err error) bool {
	settled := false
	p.once.Do(func() {
		p.val, p.err = v, err
		close(p.done)
		settled = true
	})
	return settled
}

// Done — закрывается при завершении.
func (p *promise[T]) Done() <-chan struct{} { return p.done }

// result — значение завершённого promise; до завершения возвращает нулевое значение.
func (p *promise[T]) result() (T, error) {
	select {
	case <-p.done:
		return p.val, p.err
	default:
		var zero T
		return zero, nil
	}
}

// await — ждёт завершения или отмены контекста.
func (p *promise[T]) await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.val, p.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
