package consumer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Gunvolt24/kconsumer/internal/ports"
)

// errHandleClosed — дескриптор уже закрыт.
var errHandleClosed = errors.New("native consumer handle is closed")

// exclusiveHandle — единственный владелец нативного консьюмера.
// Одновременно дескриптором пользуется не больше одного держателя, остальные ждут.
type exclusiveHandle struct {
	native       ports.NativeConsumer
	sem          chan struct{}
	closeTimeout time.Duration

	closeOnce sync.Once
	closed    chan struct{}
	closeErr  error
}

func newExclusiveHandle(native ports.NativeConsumer, closeTimeout time.Duration) *exclusiveHandle {
	return &exclusiveHandle{
		native:       native,
		sem:          make(chan struct{}, 1),
		closeTimeout: closeTimeout,
		closed:       make(chan struct{}),
	}
}

// acquire — эксклюзивный доступ; release идемпотентен.
func (h *exclusiveHandle) acquire(ctx context.Context) (ports.NativeConsumer, func(), error) {
	select {
	case <-h.closed:
		return nil, nil, errHandleClosed
	default:
	}

	select {
	case h.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}

	// Закрытие могло завершиться, пока мы ждали.
	select {
	case <-h.closed:
		<-h.sem
		return nil, nil, errHandleClosed
	default:
	}

	var once sync.Once
	return h.native, func() { once.Do(func() { <-h.sem }) }, nil
}

// use — выполняет fn под эксклюзивным доступом.
func (h *exclusiveHandle) use(ctx context.Context, fn func(ports.NativeConsumer) error) error {
	native, release, err := h.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return fn(native)
}

// close — закрывает нативный консьюмер ровно один раз.
// Close выполняется в отдельной горутине; если он не уложился в closeTimeout,
// возвращаем ErrCloseTimeout и не ждём его. Дескриптор остаётся занятым до фактического закрытия.
func (h *exclusiveHandle) close(ctx context.Context) error {
	h.closeOnce.Do(func() {
		h.closeErr = h.doClose(context.WithoutCancel(ctx))
	})
	return h.closeErr
}

func (h *exclusiveHandle) doClose(ctx context.Context) error {
	native, release, err := h.acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire native consumer: %w", err)
	}
	close(h.closed)

	closeCtx, cancel := context.WithTimeout(ctx, h.closeTimeout)
	done := make(chan error, 1)
	go func() {
		defer release()
		defer cancel()
		done <- native.Close(closeCtx)
	}()

	timer := time.NewTimer(h.closeTimeout)
	defer timer.Stop()

	select {
	case err := <-done:
		switch {
		case err == nil:
			return nil
		case errors.Is(closeCtx.Err(), context.DeadlineExceeded):
			// Close сам упёрся в дедлайн closeCtx.
			return fmt.Errorf("%w after %s: %w", ErrCloseTimeout, h.closeTimeout, err)
		default:
			return fmt.Errorf("close native consumer: %w", err)
		}
	case <-timer.C:
		return fmt.Errorf("%w after %s", ErrCloseTimeout, h.closeTimeout)
	}
}
