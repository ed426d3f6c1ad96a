// Package consumer — потокобезопасный фасад над блокирующим poll-консьюмером.
//
// Все операции с нативным консьюмером идут через одну горутину-актор; фоновый планировщик
// подкладывает тики poll, а явные запросы (подписка, назначение, fetch, остановка)
// всегда обрабатываются раньше тиков.
package consumer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/Gunvolt24/kconsumer/internal/domain"
	"github.com/Gunvolt24/kconsumer/internal/ports"
	"github.com/Gunvolt24/kconsumer/pkg/validate"
)

// Проверка, что Consumer удовлетворяет порту управления для транспортного слоя.
var _ ports.ConsumerControl = (*Consumer)(nil)

const tracerName = "github.com/Gunvolt24/kconsumer/internal/consumer"

// Consumer — фасад: подписка, назначение, потоки сообщений, жизненный цикл.
type Consumer struct {
	cfg    Config
	log    ports.Logger
	tracer trace.Tracer

	handle    *exclusiveHandle
	requests  *requestQueue
	polls     chan Request
	state     *runState
	runner    *actorRunner
	scheduler *pollScheduler

	mu                sync.Mutex
	fiber             *Fiber // юниты + закрытие нативного консьюмера
	units             *Fiber // только актор и планировщик
	shutdownRequested atomic.Bool
}

// Option — необязательная настройка Consumer.
type Option func(*Consumer)

// WithTracer — свой tracer для спанов poll (по умолчанию глобальный otel).
func WithTracer(t trace.Tracer) Option {
	return func(c *Consumer) { c.tracer = t }
}

// New — собирает фасад над native. Фоновые юниты не запускаются до Start.
func New(native ports.NativeConsumer, cfg Config, log ports.Logger, opts ...Option) *Consumer {
	cfg = cfg.withDefaults()
	c := &Consumer{
		cfg:      cfg,
		log:      log,
		tracer:   otel.Tracer(tracerName),
		handle:   newExclusiveHandle(native, cfg.CloseTimeout),
		requests: newRequestQueue(),
		polls:    newPollQueue(),
		state:    newRunState(),
	}
	for _, opt := range opts {
		opt(c)
	}

	a := newActor(c.handle, c.state, cfg, log, c.tracer)
	c.runner = newActorRunner(c.requests, c.polls, c.state, a.handle)
	c.scheduler = newPollScheduler(c.polls, c.state, cfg.PollInterval)
	return c
}

// Start — запускает актор и планировщик; возвращает общий юнит жизненного цикла.
// Отмена ctx отменяет оба фоновых юнита.
func (c *Consumer) Start(ctx context.Context) (*Fiber, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fiber != nil {
		return nil, ErrAlreadyStarted
	}
	c.start(ctx, c.runner.run, c.scheduler.run)
	c.log.Infof(ctx, "consumer started poll_interval=%s poll_timeout=%s", c.cfg.PollInterval, c.cfg.PollTimeout)
	return c.fiber, nil
}

// start — запуск с заданными телами юнитов; вызывается под c.mu.
func (c *Consumer) start(ctx context.Context, runActor, runScheduler func(context.Context) error) {
	units := startFiber(ctx, func(ctx context.Context) error {
		return c.runUnits(ctx, runActor, runScheduler)
	})
	c.units = units
	c.fiber = startFiber(ctx, func(ctx context.Context) error {
		return c.closeAfter(ctx, units)
	})
}

// unitsFiber — завершается, как только остановились актор и планировщик, не дожидаясь закрытия
// нативного консьюмера. С ним гонятся потоки и запросы назначения.
func (c *Consumer) unitsFiber() *Fiber {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.units
}

// Fiber — юнит жизненного цикла; nil до Start.
func (c *Consumer) Fiber() *Fiber {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fiber
}

// Subscribe — ставит подписку в очередь и сразу возвращается.
// После остановки запрос принимается, но не обрабатывается.
func (c *Consumer) Subscribe(topics ...string) error {
	if err := validate.Topics(topics); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	c.requests.Enqueue(subscribeRequest{topics: append([]string(nil), topics...)})
	return nil
}

// Assignment — текущее назначение партиций. Если консьюмер остановился раньше,
// чем пришёл ответ, возвращается пустое назначение.
func (c *Consumer) Assignment(ctx context.Context) ([]domain.TopicPartition, error) {
	lc := c.unitsFiber()
	if lc == nil {
		return nil, ErrNotStarted
	}
	return c.assignment(ctx, lc)
}

// assignment — запрос назначения в гонке с завершением lc.
func (c *Consumer) assignment(ctx context.Context, lc *Fiber) ([]domain.TopicPartition, error) {
	reply := newPromise[[]domain.TopicPartition]()
	c.requests.Enqueue(assignmentRequest{reply: reply})

	select {
	case <-reply.Done():
		return reply.result()
	case <-lc.Done():
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown — мягкая остановка: актор опустит флаг на своём ходу.
func (c *Consumer) Shutdown() { c.gracefulStop() }

// Close — мягкая остановка и ожидание завершения. Без Start просто закрывает нативный консьюмер.
func (c *Consumer) Close(ctx context.Context) error {
	lc := c.Fiber()
	if lc == nil {
		c.state.Stop()
		return c.handle.close(ctx)
	}
	c.Shutdown()
	return lc.Join(ctx)
}

// State — стадия жизненного цикла.
func (c *Consumer) State() domain.LifecycleState {
	lc := c.Fiber()
	switch {
	case lc == nil:
		return domain.StateCreated
	case isDone(lc.Done()):
		return domain.StateTerminated
	case c.shutdownRequested.Load() || !c.state.Running():
		return domain.StateShuttingDown
	default:
		return domain.StateRunning
	}
}

func isDone(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
