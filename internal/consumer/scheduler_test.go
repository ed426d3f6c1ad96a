package consumer

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPollScheduler_TicksThrottledByQueue(t *testing.T) {
	polls := newPollQueue()
	st := newRunState()
	s := newPollScheduler(polls, st, time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- s.run(context.Background()) }()

	// Никто не разбирает очередь: принят ровно один тик, второй ждёт.
	time.Sleep(50 * time.Millisecond)
	if got := s.Ticks(); got != 1 {
		t.Fatalf("want exactly 1 tick while queue is full, got %d", got)
	}

	<-polls
	deadline := time.Now().Add(time.Second)
	for s.Ticks() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := s.Ticks(); got != 2 {
		t.Fatalf("want 2 ticks after one drain, got %d", got)
	}

	st.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("want nil on stop, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("scheduler did not stop")
	}
}

func TestPollScheduler_Cancel(t *testing.T) {
	polls := newPollQueue()
	s := newPollScheduler(polls, newRunState(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.run(ctx) }()

	// Первый тик уходит сразу, дальше планировщик спит час.
	<-polls
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("want context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("scheduler ignored cancel")
	}
}

func TestPollScheduler_NotRunning(t *testing.T) {
	st := newRunState()
	st.Stop()
	s := newPollScheduler(newPollQueue(), st, time.Millisecond)

	if err := s.run(context.Background()); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if s.Ticks() != 0 {
		t.Fatalf("no ticks expected after stop")
	}
}
