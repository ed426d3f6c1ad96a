package consumer

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPromise_SettlesOnce(t *testing.T) {
	p := newPromise[int]()

	if !p.complete(1) {
		t.Fatalf("first complete must settle")
	}
	if p.complete(2) {
		t.Fatalf("second complete must be a no-op")
	}
	if p.fail(errors.New("late")) {
		t.Fatalf("fail after complete must be a no-op")
	}

	v, err := p.result()
	if err != nil || v != 1 {
		t.Fatalf("unexpected result: v=%d err=%v", v, err)
	}
}

func TestPromise_Fail(t *testing.T) {
	boom := errors.New("boom")
	p := newPromise[string]()
	p.fail(boom)

	waitDone(t, p.Done(), time.Second, "promise")
	if _, err := p.result(); !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
}

func TestPromise_AwaitRespectsContext(t *testing.T) {
	p := newPromise[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := p.await(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want DeadlineExceeded, got %v", err)
	}

	// Завершение из другой горутины будит ожидающего.
	go p.complete(7)
	v, err := p.await(context.Background())
	if err != nil || v != 7 {
		t.Fatalf("unexpected await: v=%d err=%v", v, err)
	}
}

func TestPromise_ResultBeforeSettle(t *testing.T) {
	p := newPromise[[]int]()
	v, err := p.result()
	if v != nil || err != nil {
		t.Fatalf("unsettled promise must return zero value, got %v %v", v, err)
	}
}
