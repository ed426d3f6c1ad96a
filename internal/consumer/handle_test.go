package consumer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Gunvolt24/kconsumer/internal/ports"
)

func TestExclusiveHandle_SingleHolder(t *testing.T) {
	h := newExclusiveHandle(newFakeNative(), time.Second)

	var (
		inUse   atomic.Int32
		maxSeen atomic.Int32
		wg      sync.WaitGroup
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := h.use(context.Background(), func(ports.NativeConsumer) error {
				n := inUse.Add(1)
				for {
					m := maxSeen.Load()
					if n <= m || maxSeen.CompareAndSwap(m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				inUse.Add(-1)
				return nil
			})
			if err != nil {
				t.Errorf("use: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := maxSeen.Load(); got != 1 {
		t.Fatalf("at most one holder expected, saw %d", got)
	}
}

func TestExclusiveHandle_SecondAcquireWaits(t *testing.T) {
	h := newExclusiveHandle(newFakeNative(), time.Second)

	_, release, err := h.acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	acquired := make(chan struct{})
	go func() {
		_, rel, err := h.acquire(context.Background())
		if err != nil {
			t.Errorf("second acquire: %v", err)
			return
		}
		close(acquired)
		rel()
	}()

	select {
	case <-acquired:
		t.Fatalf("second acquire must wait for release")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	release() // идемпотентно
	waitDone(t, acquired, time.Second, "second acquire")
}

func TestExclusiveHandle_AcquireCancelled(t *testing.T) {
	h := newExclusiveHandle(newFakeNative(), time.Second)
	_, release, _ := h.acquire(context.Background())
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, _, err := h.acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want DeadlineExceeded, got %v", err)
	}
}

func TestExclusiveHandle_CloseOnce(t *testing.T) {
	native := newFakeNative()
	h := newExclusiveHandle(native, time.Second)

	if err := h.close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := h.close(context.Background()); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if _, _, n := native.counts(); n != 1 {
		t.Fatalf("native Close must run once, got %d", n)
	}

	if _, _, err := h.acquire(context.Background()); !errors.Is(err, errHandleClosed) {
		t.Fatalf("acquire after close: want errHandleClosed, got %v", err)
	}
}

func TestExclusiveHandle_CloseTimeout(t *testing.T) {
	native := newFakeNative()
	native.closeDelay = time.Second
	h := newExclusiveHandle(native, 30*time.Millisecond)

	start := time.Now()
	err := h.close(context.Background())
	if !errors.Is(err, ErrCloseTimeout) {
		t.Fatalf("want ErrCloseTimeout, got %v", err)
	}
	if el := time.Since(start); el > 500*time.Millisecond {
		t.Fatalf("close must not wait for the slow native close, took %s", el)
	}
}

func TestExclusiveHandle_CloseWaitsForHolder(t *testing.T) {
	native := newFakeNative()
	h := newExclusiveHandle(native, time.Second)

	_, release, _ := h.acquire(context.Background())
	closed := make(chan struct{})
	go func() {
		_ = h.close(context.Background())
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatalf("close must wait for the current holder")
	case <-time.After(50 * time.Millisecond):
	}
	release()
	waitDone(t, closed, time.Second, "close")
}
