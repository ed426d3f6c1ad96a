package consumer

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Gunvolt24/kconsumer/internal/domain"
	"github.com/Gunvolt24/kconsumer/internal/ports"
	"github.com/Gunvolt24/kconsumer/pkg/metrics"
)

// actor — состояние консьюмера с единственным владельцем: горутиной actorRunner.
// Ни одно поле не читается и не пишется снаружи.
type actor struct {
	native *exclusiveHandle
	state  *runState
	cfg    Config
	log    ports.Logger
	tracer trace.Tracer

	subscribed bool
	fetches    map[domain.TopicPartition]*promise[[]domain.Message]
	records    map[domain.TopicPartition][]domain.Message
}

func newActor(handle *exclusiveHandle, state *runState, cfg Config, log ports.Logger, tracer trace.Tracer) *actor {
	return &actor{
		native:  handle,
		state:   state,
		cfg:     cfg,
		log:     log,
		tracer:  tracer,
		fetches: make(map[domain.TopicPartition]*promise[[]domain.Message]),
		records: make(map[domain.TopicPartition][]domain.Message),
	}
}

// handle — точка входа для actorRunner. После остановки запросы игнорируются.
func (a *actor) handle(ctx context.Context, req Request) error {
	if !a.state.Running() {
		return nil
	}

	switch r := req.(type) {
	case subscribeRequest:
		a.subscribe(ctx, r.topics)
	case assignmentRequest:
		a.assignment(ctx, r.reply)
	case fetchRequest:
		a.fetch(ctx, r)
	case pollRequest:
		return a.poll(ctx)
	case shutdownRequest:
		if a.state.Stop() {
			a.log.Infof(ctx, "consumer shutdown requested, pending fetches=%d", len(a.fetches))
		}
	default:
		return fmt.Errorf("unsupported request %T", req)
	}
	return nil
}

// subscribe — ошибка подписки не фатальна: логируем и ждём следующей.
func (a *actor) subscribe(ctx context.Context, topics []string) {
	err := a.native.use(ctx, func(n ports.NativeConsumer) error {
		return n.Subscribe(topics)
	})
	if err != nil {
		a.log.Errorf(ctx, "subscribe topics=%s: %v", strings.Join(topics, ","), err)
		return
	}
	a.subscribed = true
	a.log.Infof(ctx, "subscribed topics=%s", strings.Join(topics, ","))
}

func (a *actor) assignment(ctx context.Context, reply *promise[[]domain.TopicPartition]) {
	if !a.subscribed {
		reply.fail(ErrNotSubscribed)
		return
	}

	tps, err := a.currentAssignment(ctx)
	if err != nil {
		reply.fail(err)
		return
	}
	reply.complete(tps)
}

// currentAssignment — отсортированная копия назначения нативного консьюмера.
func (a *actor) currentAssignment(ctx context.Context) ([]domain.TopicPartition, error) {
	var tps []domain.TopicPartition
	err := a.native.use(ctx, func(n ports.NativeConsumer) error {
		tps = slices.Clone(n.Assignment())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read assignment: %w", err)
	}
	domain.SortPartitions(tps)
	return tps, nil
}

// fetch — буфер отдаём сразу; чужую партицию завершаем пустой пачкой;
// иначе ждём ближайшего poll. Предыдущий незавершённый fetch той же партиции завершается пустым.
func (a *actor) fetch(ctx context.Context, r fetchRequest) {
	if buf := a.records[r.partition]; len(buf) > 0 {
		delete(a.records, r.partition)
		r.reply.complete(buf)
		return
	}

	tps, err := a.currentAssignment(ctx)
	if err != nil || !slices.Contains(tps, r.partition) {
		r.reply.complete(nil)
		return
	}

	if prev, ok := a.fetches[r.partition]; ok {
		prev.complete(nil)
	}
	a.fetches[r.partition] = r.reply
	metrics.ConsumerPendingFetches.Set(float64(len(a.fetches)))
}

// poll — один цикл: resume партиций с ожидающим fetch, pause остальных, poll,
// раздача записей. После цикла ни один fetch не остаётся незавершённым.
// Ошибка нативного poll фатальна.
func (a *actor) poll(ctx context.Context) error {
	if !a.subscribed {
		return nil
	}

	ctx, span := a.tracer.Start(ctx, "consumer.poll")
	defer span.End()

	var res domain.PollResult
	err := a.native.use(ctx, func(n ports.NativeConsumer) error {
		resume, pause := a.split(n.Assignment())
		if len(resume) > 0 {
			n.Resume(resume)
		}
		if len(pause) > 0 {
			n.Pause(pause)
		}

		var pErr error
		res, pErr = n.Poll(ctx, a.cfg.PollTimeout)
		return pErr
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "poll failed")
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("poll native consumer: %w", err)
	}

	a.rebalance(ctx, res)
	polled := a.distribute(res.Records, res.Revoked)
	a.settlePending()

	span.SetAttributes(
		attribute.Int("consumer.records", polled),
		attribute.Int("consumer.assigned", len(res.Assigned)),
		attribute.Int("consumer.revoked", len(res.Revoked)),
	)
	return nil
}

// split — делит назначение на партиции с ожидающим fetch и остальные.
func (a *actor) split(assigned []domain.TopicPartition) (resume, pause []domain.TopicPartition) {
	for _, tp := range assigned {
		if _, ok := a.fetches[tp]; ok {
			resume = append(resume, tp)
		} else {
			pause = append(pause, tp)
		}
	}
	return resume, pause
}

// rebalance — у отозванных партиций выбрасываем буфер и закрываем fetch пустой пачкой.
func (a *actor) rebalance(ctx context.Context, res domain.PollResult) {
	if len(res.Assigned) > 0 {
		a.log.Infof(ctx, "partitions assigned: %v", res.Assigned)
	}
	if len(res.Revoked) == 0 {
		return
	}
	a.log.Infof(ctx, "partitions revoked: %v", res.Revoked)
	for _, tp := range res.Revoked {
		delete(a.records, tp)
		if p, ok := a.fetches[tp]; ok {
			p.complete(nil)
			delete(a.fetches, tp)
		}
	}
}

// distribute — отдаёт записи ожидающим fetch (сначала буфер), остальное буферизует.
// Записи партиций, отозванных в этом же poll, отбрасываются.
func (a *actor) distribute(records map[domain.TopicPartition][]domain.Message, revoked []domain.TopicPartition) int {
	total := 0
	for tp, msgs := range records {
		if len(msgs) == 0 || slices.Contains(revoked, tp) {
			continue
		}
		total += len(msgs)
		metrics.ConsumerRecordsPolled.WithLabelValues(tp.Topic).Add(float64(len(msgs)))

		p, ok := a.fetches[tp]
		if !ok {
			a.records[tp] = append(a.records[tp], msgs...)
			continue
		}
		batch := append(a.records[tp], msgs...)
		delete(a.records, tp)
		delete(a.fetches, tp)
		p.complete(batch)
	}
	return total
}

// settlePending — всё, что не дождалось записей в этом цикле, завершается пустой пачкой.
func (a *actor) settlePending() {
	for tp, p := range a.fetches {
		p.complete(nil)
		delete(a.fetches, tp)
	}
	metrics.ConsumerPendingFetches.Set(0)
}
