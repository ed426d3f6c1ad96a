package consumer

import (
	"context"
	"errors"
	"iter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Gunvolt24/kconsumer/internal/domain"
	"github.com/Gunvolt24/kconsumer/pkg/metrics"
)

// PartitionedStream — поток «вытягиваний»: на каждый шаг берётся текущее назначение и по каждой
// партиции параллельно запрашивается пачка. Элемент потока — подпоток сообщений этого шага;
// порядок между партициями не гарантируется, внутри пачки сохраняется.
//
// Поток завершается, когда завершился жизненный цикл (ошибка отдаётся, отмена — нет)
// или отменён ctx (отдаётся ctx.Err()).
func (c *Consumer) PartitionedStream(ctx context.Context) iter.Seq2[iter.Seq[domain.Message], error] {
	return func(yield func(iter.Seq[domain.Message], error) bool) {
		lc := c.unitsFiber()
		if lc == nil {
			yield(nil, ErrNotStarted)
			return
		}

		for {
			if stop, err := c.streamEnded(ctx, lc); stop {
				if err != nil {
					yield(nil, err)
				}
				return
			}

			sub, err := c.pull(ctx, lc)
			if err != nil {
				yield(nil, err)
				return
			}
			if sub == nil {
				continue
			}
			if !yield(sub, nil) {
				return
			}
		}
	}
}

// Stream — PartitionedStream, развёрнутый в один поток сообщений.
func (c *Consumer) Stream(ctx context.Context) iter.Seq2[domain.Message, error] {
	return func(yield func(domain.Message, error) bool) {
		for sub, err := range c.PartitionedStream(ctx) {
			if err != nil {
				yield(domain.Message{}, err)
				return
			}
			for msg := range sub {
				if !yield(msg, nil) {
					return
				}
			}
		}
	}
}

// streamEnded — пора ли остановить внешний поток и с какой ошибкой.
func (c *Consumer) streamEnded(ctx context.Context, lc *Fiber) (bool, error) {
	if err := ctx.Err(); err != nil {
		return true, err
	}
	if !isDone(lc.Done()) {
		return false, nil
	}
	if err := lc.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return true, err
	}
	return true, nil
}

// pull — один шаг PartitionedStream. nil без ошибки — шаг не состоялся: юниты остановились
// или отменён ctx, решение о завершении принимает streamEnded.
func (c *Consumer) pull(ctx context.Context, lc *Fiber) (iter.Seq[domain.Message], error) {
	tps, err := c.assignment(ctx, lc)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}
		return nil, err
	}
	if stepAborted(ctx, lc) {
		return nil, nil
	}

	// Пустое назначение: ждём один интервал, чтобы не крутить цикл вхолостую.
	if len(tps) == 0 {
		c.idle(ctx, lc)
		if stepAborted(ctx, lc) {
			return nil, nil
		}
		return emptyBatch, nil
	}

	// Ёмкость равна числу партиций: ни одна горутина fetch не блокируется на записи.
	results := make(chan []domain.Message, len(tps))
	var g errgroup.Group
	for _, tp := range tps {
		g.Go(func() error {
			if batch := c.fetch(ctx, lc, tp); len(batch) > 0 {
				results <- batch
			}
			return nil
		})
	}
	// Закрытие канала — маркер «все N fetch завершились».
	go func() {
		_ = g.Wait()
		close(results)
	}()

	return func(yield func(domain.Message) bool) {
		for batch := range results {
			metrics.KafkaMessagesConsumed.WithLabelValues(batch[0].Topic).Add(float64(len(batch)))
			for _, msg := range batch {
				if !yield(msg) {
					return
				}
			}
		}
	}, nil
}

// fetch — запрос пачки одной партиции; проигранная гонка с остановкой даёт пустую пачку.
func (c *Consumer) fetch(ctx context.Context, lc *Fiber, tp domain.TopicPartition) []domain.Message {
	reply := newPromise[[]domain.Message]()
	c.requests.Enqueue(fetchRequest{partition: tp, reply: reply})

	select {
	case <-reply.Done():
		batch, err := reply.result()
		if err != nil {
			c.log.Warnf(ctx, "fetch %s: %v", tp, err)
			return nil
		}
		return batch
	case <-lc.Done():
		return nil
	case <-ctx.Done():
		return nil
	}
}

func (c *Consumer) idle(ctx context.Context, lc *Fiber) {
	timer := time.NewTimer(c.cfg.PollInterval)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-lc.Done():
	case <-ctx.Done():
	}
}

func stepAborted(ctx context.Context, lc *Fiber) bool {
	return ctx.Err() != nil || isDone(lc.Done())
}

func emptyBatch(func(domain.Message) bool) {}
