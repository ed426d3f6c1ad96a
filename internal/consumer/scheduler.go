package consumer

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Gunvolt24/kconsumer/pkg/metrics"
)

// pollScheduler — фоновый юнит, который кладёт тик poll в очередь ёмкостью 1 и спит interval.
// Полная очередь блокирует планировщик, так что тики не копятся быстрее, чем их разбирает актор.
type pollScheduler struct {
	polls    chan<- Request
	state    *runState
	interval time.Duration
	ticks    atomic.Int64
}

func newPollScheduler(polls chan<- Request, state *runState, interval time.Duration) *pollScheduler {
	return &pollScheduler{polls: polls, state: state, interval: interval}
}

// run — nil после остановки флага, ctx.Err() при отмене.
func (s *pollScheduler) run(ctx context.Context) error {
	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for s.state.Running() {
		select {
		case s.polls <- pollRequest{}:
			s.ticks.Add(1)
			metrics.ConsumerPollTicks.Inc()
		case <-s.state.Stopped():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}

		timer.Reset(s.interval)
		select {
		case <-timer.C:
		case <-s.state.Stopped():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Ticks — сколько тиков принято очередью.
func (s *pollScheduler) Ticks() int64 { return s.ticks.Load() }
