package consumer

import (
	"context"
	"errors"
)

// Fiber — запущенный фоновый юнит: можно дождаться (Join) или отменить (Cancel).
type Fiber struct {
	done   chan struct{}
	err    error
	cancel context.CancelFunc
}

// startFiber — запускает run в отдельной горутине с собственной отменой.
func startFiber(parent context.Context, run func(context.Context) error) *Fiber {
	ctx, cancel := context.WithCancel(parent)
	f := &Fiber{done: make(chan struct{}), cancel: cancel}
	go func() {
		defer cancel()
		f.err = run(ctx)
		close(f.done)
	}()
	return f
}

// Done — закрывается, когда юнит завершился.
func (f *Fiber) Done() <-chan struct{} { return f.done }

// Err — результат юнита; nil, пока он работает.
func (f *Fiber) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}

// Join — ждёт завершения юнита или отмены ctx.
func (f *Fiber) Join(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel — просит юнит завершиться досрочно.
func (f *Fiber) Cancel() { f.cancel() }

// gracefulStop — Shutdown в очередь запросов: актор сам опустит флаг на своём ходу.
func (c *Consumer) gracefulStop() {
	c.shutdownRequested.Store(true)
	c.requests.Enqueue(shutdownRequest{})
}

// forceStop — опускаем флаг напрямую, минуя актор.
func (c *Consumer) forceStop() {
	c.shutdownRequested.Store(true)
	c.state.Stop()
}

// runUnits — актор и планировщик с взаимной компенсацией; возвращается, когда оба юнита завершились.
// Нативный консьюмер здесь не закрывается.
func (c *Consumer) runUnits(ctx context.Context, runActor, runScheduler func(context.Context) error) error {
	actorFiber := startFiber(ctx, runActor)
	schedFiber := startFiber(ctx, runScheduler)

	select {
	case <-actorFiber.Done():
		c.gracefulStop()
		if err := actorFiber.Err(); err != nil {
			c.log.Errorf(ctx, "consumer actor stopped: %v", err)
			c.forceStop()
		}
	case <-schedFiber.Done():
		if err := schedFiber.Err(); err != nil && !errors.Is(err, context.Canceled) {
			c.log.Errorf(ctx, "poll scheduler stopped: %v", err)
		}
		c.forceStop()
	}

	<-actorFiber.Done()
	<-schedFiber.Done()
	c.gracefulStop()

	return joinUnitErrors(actorFiber.Err(), schedFiber.Err())
}

// closeAfter — ждёт units (Cancel общего юнита отменяет и их), затем закрывает нативный консьюмер.
func (c *Consumer) closeAfter(ctx context.Context, units *Fiber) error {
	select {
	case <-units.Done():
	case <-ctx.Done():
		units.Cancel()
		<-units.Done()
	}

	closeErr := c.handle.close(ctx)
	if closeErr != nil {
		c.log.Errorf(ctx, "native consumer close: %v", closeErr)
	} else {
		c.log.Infof(ctx, "native consumer closed")
	}
	return joinUnitErrors(units.Err(), closeErr)
}

// joinUnitErrors — отмена не считается сбоем: если кроме отмены ничего нет, возвращаем context.Canceled,
// иначе errors.Join настоящих сбоев.
func joinUnitErrors(errs ...error) error {
	var failures []error
	canceled := false
	for _, err := range errs {
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
			canceled = true
		default:
			failures = append(failures, err)
		}
	}
	if len(failures) > 0 {
		return errors.Join(failures...)
	}
	if canceled {
		return context.Canceled
	}
	return nil
}
