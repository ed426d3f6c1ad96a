package consumer

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/Gunvolt24/kconsumer/internal/domain"
	"github.com/Gunvolt24/kconsumer/internal/ports"
)

// логгер-заглушка
type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

var _ ports.NativeConsumer = (*fakeNative)(nil)

// fakeNative — нативный консьюмер в памяти: назначение выдаётся при подписке,
// записи отдаются только по незапаузенным партициям.
type fakeNative struct {
	mu sync.Mutex

	assignOnSubscribe []domain.TopicPartition
	assignment        []domain.TopicPartition
	pending           map[domain.TopicPartition][]domain.Message
	paused            map[domain.TopicPartition]bool

	subscribeErr error
	pollErr      error
	closeDelay   time.Duration

	subscribeCalls int
	pollCalls      int
	closeCalls     int
}

func newFakeNative(tps ...domain.TopicPartition) *fakeNative {
	return &fakeNative{
		assignOnSubscribe: tps,
		pending:           make(map[domain.TopicPartition][]domain.Message),
		paused:            make(map[domain.TopicPartition]bool),
	}
}

// push — записи, которые отдаст следующий poll.
func (f *fakeNative) push(tp domain.TopicPartition, msgs ...domain.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending[tp] = append(f.pending[tp], msgs...)
}

func (f *fakeNative) Subscribe(_ []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribeCalls++
	if f.subscribeErr != nil {
		return f.subscribeErr
	}
	f.assignment = slices.Clone(f.assignOnSubscribe)
	return nil
}

func (f *fakeNative) Assignment() []domain.TopicPartition {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.assignment)
}

func (f *fakeNative) Pause(tps []domain.TopicPartition) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tp := range tps {
		f.paused[tp] = true
	}
}

func (f *fakeNative) Resume(tps []domain.TopicPartition) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tp := range tps {
		delete(f.paused, tp)
	}
}

func (f *fakeNative) Poll(ctx context.Context, timeout time.Duration) (domain.PollResult, error) {
	res, ok, err := f.take()
	if err != nil || ok {
		return res, err
	}

	// Нечего отдавать: ведём себя как настоящий poll и ждём timeout.
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
	return domain.PollResult{}, nil
}

func (f *fakeNative) take() (domain.PollResult, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pollCalls++
	if f.pollErr != nil {
		return domain.PollResult{}, false, f.pollErr
	}

	res := domain.PollResult{Records: make(map[domain.TopicPartition][]domain.Message)}
	for tp, msgs := range f.pending {
		if f.paused[tp] || len(msgs) == 0 {
			continue
		}
		res.Records[tp] = msgs
		delete(f.pending, tp)
	}
	return res, len(res.Records) > 0, nil
}

func (f *fakeNative) Close(ctx context.Context) error {
	f.mu.Lock()
	f.closeCalls++
	delay := f.closeDelay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (f *fakeNative) counts() (subscribe, poll, closeN int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subscribeCalls, f.pollCalls, f.closeCalls
}

// messages — n сообщений партиции tp с оффсетами от 0.
func messages(tp domain.TopicPartition, n int) []domain.Message {
	out := make([]domain.Message, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Message{
			Topic:     tp.Topic,
			Partition: tp.Partition,
			Offset:    int64(i),
			Value:     []byte{byte('a' + i)},
		})
	}
	return out
}

// waitDone — ждём закрытия канала не дольше d.
func waitDone(t *testing.T, ch <-chan struct{}, d time.Duration, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(d):
		t.Fatalf("timeout waiting for %s", what)
	}
}

// nextRequest — ждём очередной запрос в очереди не дольше d.
func nextRequest(t *testing.T, q *requestQueue, d time.Duration) Request {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if r, ok := q.TryDequeue(); ok {
			return r
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("no request within %s", d)
	return nil
}

// blockingFiber — юнит, который живёт до Cancel.
func blockingFiber() *Fiber {
	return startFiber(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
}
