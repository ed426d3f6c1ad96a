package consumer

import (
	"context"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/Gunvolt24/kconsumer/pkg/metrics"
)

// handlerFunc — обработчик одного запроса; ошибка фатальна для юнита.
type handlerFunc func(ctx context.Context, r Request) error

// actorRunner — единственная горутина, через которую идут все операции с нативным консьюмером.
// Явные запросы всегда забираются раньше тиков poll.
type actorRunner struct {
	requests *requestQueue
	polls    <-chan Request
	state    *runState
	handle   handlerFunc
}

func newActorRunner(requests *requestQueue, polls <-chan Request, state *runState, handle handlerFunc) *actorRunner {
	return &actorRunner{requests: requests, polls: polls, state: state, handle: handle}
}

// run — nil после остановки флага, ctx.Err() при отмене, ошибка обработчика (или паника) — как есть.
func (r *actorRunner) run(ctx context.Context) error {
	for r.state.Running() {
		req, ok := r.requests.TryDequeue()
		if !ok {
			select {
			case req = <-r.polls:
			case <-r.requests.Ready():
				continue
			case <-r.state.Stopped():
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := r.dispatch(ctx, req); err != nil {
			return err
		}
		runtime.Gosched()
	}
	return nil
}

// dispatch — вызывает обработчик, превращая панику в *PanicError.
func (r *actorRunner) dispatch(ctx context.Context, req Request) (err error) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			err = &PanicError{Request: req.kind(), Value: rec, Stack: debug.Stack()}
		}
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.ConsumerRequests.WithLabelValues(req.kind(), outcome).Inc()
		metrics.ConsumerRequestDuration.WithLabelValues(req.kind()).Observe(time.Since(start).Seconds())
	}()
	return r.handle(ctx, req)
}
