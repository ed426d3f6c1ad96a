package usecase

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Gunvolt24/kconsumer/internal/consumer"
	"github.com/Gunvolt24/kconsumer/internal/domain"
	"github.com/Gunvolt24/kconsumer/internal/ports"
	"github.com/Gunvolt24/kconsumer/pkg/metrics"
)

var _ ports.MessageConsumer = (*MessageService)(nil)

// StreamSource — консьюмер, из которого сервис читает пачки.
type StreamSource interface {
	Start(ctx context.Context) (*consumer.Fiber, error)
	Subscribe(topics ...string) error
	PartitionedStream(ctx context.Context) iter.Seq2[iter.Seq[domain.Message], error]
	Close(ctx context.Context) error
}

// Options — параметры MessageService.
type Options struct {
	Topics         []string
	ProcessTimeout time.Duration // таймаут на сохранение одной пачки
	CloseTimeout   time.Duration
	Cache          ports.MessageCache // необязателен; наполняется после каждой сохранённой пачки
}

// MessageService — запускает консьюмер, подписывается и складывает каждую пачку в хранилище.
// Без хранилища (repo == nil) пачки только логируются.
type MessageService struct {
	src  StreamSource
	repo ports.MessageRepository
	log  ports.Logger
	opts Options
}

// NewMessageService — DI-конструктор.
func NewMessageService(src StreamSource, repo ports.MessageRepository, log ports.Logger, opts Options) *MessageService {
	if opts.ProcessTimeout <= 0 {
		opts.ProcessTimeout = 5 * time.Second
	}
	if opts.CloseTimeout <= 0 {
		opts.CloseTimeout = 30 * time.Second
	}
	return &MessageService{src: src, repo: repo, log: log, opts: opts}
}

// Run — блокирующий цикл чтения. Возвращает nil при штатной остановке (Close или отмена ctx).
func (s *MessageService) Run(ctx context.Context) error {
	if _, err := s.src.Start(ctx); err != nil {
		return fmt.Errorf("start consumer: %w", err)
	}
	if err := s.src.Subscribe(s.opts.Topics...); err != nil {
		return err
	}
	s.log.Infof(ctx, "consumer subscribed topics=%v", s.opts.Topics)

	for batch, err := range s.src.PartitionedStream(ctx) {
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			s.log.Errorf(ctx, "consumer stream failed: %v", err)
			return err
		}
		msgs := slices.Collect(batch)
		if len(msgs) == 0 {
			continue
		}
		s.process(ctx, msgs)
	}
	s.log.Infof(ctx, "consumer stream finished")
	return nil
}

// process — сохранить пачку. Ошибка хранилища не останавливает чтение.
func (s *MessageService) process(ctx context.Context, msgs []domain.Message) {
	if s.repo == nil {
		for i := range msgs {
			m := &msgs[i]
			s.log.Infof(ctx, "message %s@%d key=%q bytes=%d", m.TopicPartition(), m.Offset, m.Key, len(m.Value))
			metrics.KafkaMessagesProcessed.WithLabelValues(m.Topic).Inc()
		}
		return
	}

	saveCtx, cancel := context.WithTimeout(ctx, s.opts.ProcessTimeout)
	defer cancel()

	start := time.Now()
	if err := s.repo.SaveBatch(saveCtx, msgs); err != nil {
		s.log.Errorf(ctx, "save batch failed size=%d err=%v", len(msgs), err)
		countByTopic(msgs, metrics.KafkaMessagesFailed)
		return
	}
	countByTopic(msgs, metrics.KafkaMessagesProcessed)
	if s.opts.Cache != nil {
		if err := s.opts.Cache.Set(ctx, msgs...); err != nil {
			s.log.Warnf(ctx, "cache.Set failed size=%d err=%v", len(msgs), err)
		}
	}
	s.log.Infof(ctx, "batch saved size=%d took=%s", len(msgs), time.Since(start))
}

// Close — штатная остановка консьюмера с ожиданием завершения.
func (s *MessageService) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.CloseTimeout)
	defer cancel()
	return s.src.Close(ctx)
}

func countByTopic(msgs []domain.Message, vec *prometheus.CounterVec) {
	perTopic := make(map[string]int)
	for i := range msgs {
		perTopic[msgs[i].Topic]++
	}
	for topic, n := range perTopic {
		vec.WithLabelValues(topic).Add(float64(n))
	}
}
