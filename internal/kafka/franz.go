package kafka

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kzap"

	"github.com/Gunvolt24/kconsumer/internal/domain"
	"github.com/Gunvolt24/kconsumer/internal/ports"
)

// Проверка, что FranzConsumer удовлетворяет порту нативного консьюмера.
var _ ports.NativeConsumer = (*FranzConsumer)(nil)

func init() {
	Register(DriverFranz, func(cfg Config, deps Deps) (ports.NativeConsumer, error) {
		return NewFranzConsumer(cfg, deps), nil
	})
}

// kgoClient — минимальный контракт над *kgo.Client, чтобы подменять его в тестах.
type kgoClient interface {
	PollRecords(ctx context.Context, maxPollRecords int) kgo.Fetches
	PauseFetchPartitions(topicPartitions map[string][]int32) map[string][]int32
	ResumeFetchPartitions(topicPartitions map[string][]int32)
	AddConsumeTopics(topics ...string)
	PurgeTopicsFromConsuming(topics ...string)
	Close()
}

// FranzConsumer — нативный консьюмер на franz-go (kgo). Клиент создаётся при первой подписке.
// Автокоммит выключен; события ребаланса копятся в хуках и отдаются ближайшим Poll.
type FranzConsumer struct {
	cfg       Config
	log       ports.Logger
	newClient func(opts ...kgo.Opt) (kgoClient, error)
	baseOpts  []kgo.Opt

	client kgoClient
	topics []string

	mu       sync.Mutex // хуки kgo вызываются из горутин клиента
	assigned map[domain.TopicPartition]struct{}
	added    []domain.TopicPartition
	removed  []domain.TopicPartition
}

// NewFranzConsumer — драйвер franz.
func NewFranzConsumer(cfg Config, deps Deps) *FranzConsumer {
	cfg = cfg.withDefaults()
	f := &FranzConsumer{
		cfg:      cfg,
		log:      deps.Log,
		assigned: make(map[domain.TopicPartition]struct{}),
		newClient: func(opts ...kgo.Opt) (kgoClient, error) {
			cl, err := kgo.NewClient(opts...)
			if err != nil {
				return nil, err
			}
			return cl, nil
		},
	}

	reset := kgo.NewOffset().AtEnd()
	if cfg.StartOffset == "first" {
		reset = kgo.NewOffset().AtStart()
	}
	f.baseOpts = []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(cfg.GroupID),
		kgo.ClientID(cfg.ClientID),
		kgo.DisableAutoCommit(),
		kgo.ConsumeResetOffset(reset),
		kgo.FetchMaxWait(cfg.MaxWait),
		kgo.OnPartitionsAssigned(f.onAssigned),
		kgo.OnPartitionsRevoked(f.onRevoked),
		kgo.OnPartitionsLost(f.onRevoked),
	}
	if deps.Zap != nil {
		f.baseOpts = append(f.baseOpts, kgo.WithLogger(kzap.New(deps.Zap)))
	}
	return f
}

// Subscribe — первая подписка создаёт клиент; повторная меняет набор топиков на лету.
func (f *FranzConsumer) Subscribe(topics []string) error {
	topics = sortedTopics(topics)

	if f.client == nil {
		opts := append(slices.Clone(f.baseOpts), kgo.ConsumeTopics(topics...))
		cl, err := f.newClient(opts...)
		if err != nil {
			return fmt.Errorf("create kgo client: %w", err)
		}
		f.client = cl
		f.topics = topics
		return nil
	}

	var dropped, added []string
	for _, t := range f.topics {
		if !slices.Contains(topics, t) {
			dropped = append(dropped, t)
		}
	}
	for _, t := range topics {
		if !slices.Contains(f.topics, t) {
			added = append(added, t)
		}
	}
	if len(dropped) > 0 {
		f.client.PurgeTopicsFromConsuming(dropped...)
		f.dropTopics(dropped)
	}
	if len(added) > 0 {
		f.client.AddConsumeTopics(added...)
	}
	f.topics = topics
	return nil
}

// Assignment — партиции, назначенные группой на текущий момент.
func (f *FranzConsumer) Assignment() []domain.TopicPartition {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.TopicPartition, 0, len(f.assigned))
	for tp := range f.assigned {
		out = append(out, tp)
	}
	domain.SortPartitions(out)
	return out
}

func (f *FranzConsumer) Pause(tps []domain.TopicPartition) {
	if f.client == nil || len(tps) == 0 {
		return
	}
	f.client.PauseFetchPartitions(partitionMap(tps))
}

func (f *FranzConsumer) Resume(tps []domain.TopicPartition) {
	if f.client == nil || len(tps) == 0 {
		return
	}
	f.client.ResumeFetchPartitions(partitionMap(tps))
}

// Poll — PollRecords с дедлайном timeout. Истечение дедлайна — не ошибка;
// ошибки отдельных партиций логируются; закрытый клиент — ErrClosed.
func (f *FranzConsumer) Poll(ctx context.Context, timeout time.Duration) (domain.PollResult, error) {
	res := domain.PollResult{Records: make(map[domain.TopicPartition][]domain.Message)}
	if f.client == nil {
		return res, nil
	}

	pollCtx, cancel := context.WithTimeout(ctx, timeout)
	fetches := f.client.PollRecords(pollCtx, f.cfg.MaxPollRecords)
	cancel()

	closed := false
	fetches.EachError(func(topic string, partition int32, err error) {
		switch {
		case errors.Is(err, kgo.ErrClientClosed):
			closed = true
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		default:
			f.log.Warnf(ctx, "fetch %s-%d: %v", topic, partition, err)
		}
	})
	if closed {
		return domain.PollResult{}, ErrClosed
	}

	fetches.EachRecord(func(r *kgo.Record) {
		tp := domain.TopicPartition{Topic: r.Topic, Partition: r.Partition}
		res.Records[tp] = append(res.Records[tp], fromRecord(r))
	})
	res.Assigned, res.Revoked = f.takeEvents()
	return res, ctx.Err()
}

// Close — закрывает клиент (kgo сам покидает группу).
func (f *FranzConsumer) Close(_ context.Context) error {
	if f.client != nil {
		f.client.Close()
	}
	return nil
}

func (f *FranzConsumer) onAssigned(_ context.Context, _ *kgo.Client, m map[string][]int32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tp := range partitionList(m) {
		f.assigned[tp] = struct{}{}
		f.added = append(f.added, tp)
	}
}

func (f *FranzConsumer) onRevoked(_ context.Context, _ *kgo.Client, m map[string][]int32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tp := range partitionList(m) {
		delete(f.assigned, tp)
		f.removed = append(f.removed, tp)
	}
}

// dropTopics — партиции исключённых из подписки топиков считаются отозванными сразу.
func (f *FranzConsumer) dropTopics(topics []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for tp := range f.assigned {
		if slices.Contains(topics, tp.Topic) {
			delete(f.assigned, tp)
			f.removed = append(f.removed, tp)
		}
	}
}

// takeEvents — накопленные с прошлого Poll события ребаланса.
func (f *FranzConsumer) takeEvents() (added, removed []domain.TopicPartition) {
	f.mu.Lock()
	defer f.mu.Unlock()
	added, removed = f.added, f.removed
	f.added, f.removed = nil, nil
	return added, removed
}
