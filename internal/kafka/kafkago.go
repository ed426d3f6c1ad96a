package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"

	"github.com/Gunvolt24/kconsumer/internal/domain"
	"github.com/Gunvolt24/kconsumer/internal/ports"
)

// Проверка, что KafkaGoConsumer удовлетворяет порту нативного консьюмера.
var _ ports.NativeConsumer = (*KafkaGoConsumer)(nil)

func init() {
	Register(DriverKafkaGo, func(cfg Config, deps Deps) (ports.NativeConsumer, error) {
		return NewKafkaGoConsumer(cfg, deps), nil
	})
}

// consumerGroup — минимальный контракт над kafka.ConsumerGroup.
type consumerGroup interface {
	Next(ctx context.Context) (*kafka.Generation, error)
	Close() error
}

// partitionReader — минимальный контракт над kafka.Reader одной партиции.
type partitionReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	SetOffset(offset int64) error
	Close() error
}

// KafkaGoConsumer — нативный консьюмер на segmentio/kafka-go:
// членство в группе через ConsumerGroup, чтение — отдельным Reader на каждую назначенную партицию.
// Оффсеты не коммитятся.
type KafkaGoConsumer struct {
	cfg Config
	log ports.Logger

	openGroup  func(topics []string) (consumerGroup, error)
	openReader func(tp domain.TopicPartition) partitionReader
	watch      func(gen *kafka.Generation) <-chan struct{}

	group   consumerGroup
	genDone <-chan struct{}
	readers map[domain.TopicPartition]partitionReader
	paused  map[domain.TopicPartition]bool
	revoked []domain.TopicPartition
}

// NewKafkaGoConsumer — драйвер kafka-go.
func NewKafkaGoConsumer(cfg Config, deps Deps) *KafkaGoConsumer {
	cfg = cfg.withDefaults()
	return &KafkaGoConsumer{
		cfg: cfg,
		log: deps.Log,
		openGroup: func(topics []string) (consumerGroup, error) {
			g, err := kafka.NewConsumerGroup(cfg.GroupConfig(topics))
			if err != nil {
				return nil, err
			}
			return g, nil
		},
		openReader: func(tp domain.TopicPartition) partitionReader {
			return kafka.NewReader(cfg.ReaderConfig(tp))
		},
		watch:   watchGeneration,
		readers: make(map[domain.TopicPartition]partitionReader),
		paused:  make(map[domain.TopicPartition]bool),
	}
}

// watchGeneration — канал закрывается, когда поколение группы завершилось (ребаланс или закрытие).
func watchGeneration(gen *kafka.Generation) <-chan struct{} {
	done := make(chan struct{})
	gen.Start(func(ctx context.Context) {
		<-ctx.Done()
		close(done)
	})
	return done
}

// Subscribe — новая подписка пересоздаёт группу; текущие партиции считаются отозванными.
func (c *KafkaGoConsumer) Subscribe(topics []string) error {
	group, err := c.openGroup(sortedTopics(topics))
	if err != nil {
		return fmt.Errorf("create consumer group: %w", err)
	}
	if c.group != nil {
		c.revoked = append(c.revoked, c.dropReaders()...)
		if cErr := c.group.Close(); cErr != nil {
			c.log.Warnf(context.Background(), "close previous consumer group: %v", cErr)
		}
	}
	c.group = group
	c.genDone = nil
	return nil
}

// Assignment — партиции текущего поколения.
func (c *KafkaGoConsumer) Assignment() []domain.TopicPartition {
	out := make([]domain.TopicPartition, 0, len(c.readers))
	for tp := range c.readers {
		out = append(out, tp)
	}
	domain.SortPartitions(out)
	return out
}

func (c *KafkaGoConsumer) Pause(tps []domain.TopicPartition) {
	for _, tp := range tps {
		c.paused[tp] = true
	}
}

func (c *KafkaGoConsumer) Resume(tps []domain.TopicPartition) {
	for _, tp := range tps {
		delete(c.paused, tp)
	}
}

// Poll — при необходимости входит в новое поколение группы, затем читает
// незапаузенные партиции параллельно, не дольше timeout и не больше MaxPollRecords с каждой.
func (c *KafkaGoConsumer) Poll(ctx context.Context, timeout time.Duration) (domain.PollResult, error) {
	deadline := time.Now().Add(timeout)
	res := domain.PollResult{Records: make(map[domain.TopicPartition][]domain.Message)}
	res.Revoked, c.revoked = c.revoked, nil

	if c.group == nil {
		return res, nil
	}

	if c.genDone != nil && isClosed(c.genDone) {
		res.Revoked = append(res.Revoked, c.dropReaders()...)
		c.genDone = nil
	}

	if c.genDone == nil {
		nextCtx, cancel := context.WithDeadline(ctx, deadline)
		gen, err := c.group.Next(nextCtx)
		cancel()
		switch {
		case err == nil:
			res.Assigned = c.openGeneration(ctx, gen)
		case errors.Is(err, kafka.ErrGroupClosed):
			return res, ErrClosed
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			// Группа ещё собирается: вернёмся на следующем poll.
			return res, ctx.Err()
		default:
			return res, fmt.Errorf("join consumer group: %w", err)
		}
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for tp, r := range c.readers {
		if c.paused[tp] {
			continue
		}
		g.Go(func() error {
			msgs := c.drain(ctx, tp, r, deadline)
			if len(msgs) > 0 {
				mu.Lock()
				res.Records[tp] = msgs
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return res, ctx.Err()
}

// drain — сообщения одной партиции до дедлайна или лимита.
func (c *KafkaGoConsumer) drain(ctx context.Context, tp domain.TopicPartition, r partitionReader, deadline time.Time) []domain.Message {
	rctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	var out []domain.Message
	for len(out) < c.cfg.MaxPollRecords {
		m, err := r.FetchMessage(rctx)
		if err != nil {
			if rctx.Err() == nil && !errors.Is(err, io.EOF) {
				c.log.Warnf(ctx, "fetch %s: %v", tp, err)
			}
			break
		}
		out = append(out, fromKafkaGo(m))
	}
	return out
}

// openGeneration — reader на каждую назначенную партицию с оффсетом из назначения.
func (c *KafkaGoConsumer) openGeneration(ctx context.Context, gen *kafka.Generation) []domain.TopicPartition {
	var assigned []domain.TopicPartition
	for topic, parts := range gen.Assignments {
		for _, pa := range parts {
			tp := domain.TopicPartition{Topic: topic, Partition: int32(pa.ID)}
			r := c.openReader(tp)
			if err := r.SetOffset(pa.Offset); err != nil {
				c.log.Warnf(ctx, "set offset %s=%d: %v", tp, pa.Offset, err)
			}
			c.readers[tp] = r
			assigned = append(assigned, tp)
		}
	}
	domain.SortPartitions(assigned)
	c.genDone = c.watch(gen)
	c.log.Infof(ctx, "joined generation %d member=%s partitions=%v", gen.ID, gen.MemberID, assigned)
	return assigned
}

// dropReaders — закрывает все reader'ы и возвращает их партиции.
func (c *KafkaGoConsumer) dropReaders() []domain.TopicPartition {
	dropped := make([]domain.TopicPartition, 0, len(c.readers))
	for tp, r := range c.readers {
		if err := r.Close(); err != nil {
			c.log.Warnf(context.Background(), "close reader %s: %v", tp, err)
		}
		dropped = append(dropped, tp)
		delete(c.readers, tp)
		delete(c.paused, tp)
	}
	domain.SortPartitions(dropped)
	return dropped
}

// Close — закрывает reader'ы и группу.
func (c *KafkaGoConsumer) Close(_ context.Context) error {
	c.dropReaders()
	if c.group == nil {
		return nil
	}
	err := c.group.Close()
	c.group = nil
	return err
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
