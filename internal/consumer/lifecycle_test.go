package consumer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gunvolt24/kconsumer/internal/domain"
)

func TestFiber_JoinAndErr(t *testing.T) {
	boom := errors.New("boom")
	release := make(chan struct{})
	f := startFiber(context.Background(), func(context.Context) error {
		<-release
		return boom
	})

	if err := f.Err(); err != nil {
		t.Fatalf("running fiber must report nil, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := f.Join(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want DeadlineExceeded, got %v", err)
	}

	close(release)
	if err := f.Join(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	if err := f.Err(); !errors.Is(err, boom) {
		t.Fatalf("Err after done: want boom, got %v", err)
	}
}

func TestFiber_Cancel(t *testing.T) {
	f := startFiber(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	f.Cancel()
	waitDone(t, f.Done(), time.Second, "cancelled fiber")
	if !errors.Is(f.Err(), context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", f.Err())
	}
}

func TestJoinUnitErrors(t *testing.T) {
	boom := errors.New("boom")
	closeErr := errors.New("close")

	tests := []struct {
		name string
		errs []error
		want []error
		none bool
	}{
		{name: "all nil", errs: []error{nil, nil, nil}, none: true},
		{name: "pure cancel", errs: []error{context.Canceled, context.Canceled, nil}, want: []error{context.Canceled}},
		{name: "failure wins over cancel", errs: []error{boom, context.Canceled, nil}, want: []error{boom}},
		{name: "unit and close failures", errs: []error{boom, nil, closeErr}, want: []error{boom, closeErr}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := joinUnitErrors(tt.errs...)
			if tt.none {
				if err != nil {
					t.Fatalf("want nil, got %v", err)
				}
				return
			}
			for _, w := range tt.want {
				if !errors.Is(err, w) {
					t.Fatalf("want %v in %v", w, err)
				}
			}
			if len(tt.want) == 1 && tt.want[0] == boom && errors.Is(err, context.Canceled) {
				t.Fatalf("cancellation must be dropped when a unit failed: %v", err)
			}
		})
	}
}

func TestLifecycle_SchedulerFailureStopsActor(t *testing.T) {
	native := newFakeNative()
	c := New(native, testCfg, nopLogger{})

	boom := errors.New("ticker broken")
	c.mu.Lock()
	c.start(context.Background(), c.runner.run, func(context.Context) error {
		time.Sleep(testCfg.PollInterval)
		return boom
	})
	lc, units := c.fiber, c.units
	c.mu.Unlock()

	// Актор жив, пока планировщик не упал.
	if c.State() != domain.StateRunning {
		t.Fatalf("want running before scheduler failure, got %s", c.State())
	}

	waitDone(t, units.Done(), time.Second, "actor and scheduler to stop")
	if c.state.Running() {
		t.Fatalf("running flag must be cleared after scheduler failure")
	}
	if err := units.Err(); !errors.Is(err, boom) {
		t.Fatalf("units: want scheduler error, got %v", err)
	}

	if err := lc.Join(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("lifecycle: want scheduler error, got %v", err)
	}
	if _, _, closes := native.counts(); closes != 1 {
		t.Fatalf("native consumer must be closed after scheduler failure, got %d", closes)
	}
}
