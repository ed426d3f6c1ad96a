package kafka

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/kconsumer/internal/domain"
)

type fakeGroup struct {
	gens   chan *kafka.Generation
	closed bool
}

func (g *fakeGroup) Next(ctx context.Context) (*kafka.Generation, error) {
	if g.closed {
		return nil, kafka.ErrGroupClosed
	}
	select {
	case gen := <-g.gens:
		return gen, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (g *fakeGroup) Close() error {
	g.closed = true
	return nil
}

type fakeReader struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	offset int64
	closed bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.msgs) > 0 {
		m := r.msgs[0]
		r.msgs = r.msgs[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) SetOffset(offset int64) error {
	r.offset = offset
	return nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

type kafkaGoHarness struct {
	c       *KafkaGoConsumer
	group   *fakeGroup
	readers map[domain.TopicPartition]*fakeReader
	genDone chan struct{}
}

func newKafkaGoHarness(t *testing.T, maxPoll int) *kafkaGoHarness {
	t.Helper()
	h := &kafkaGoHarness{
		group:   &fakeGroup{gens: make(chan *kafka.Generation, 1)},
		readers: make(map[domain.TopicPartition]*fakeReader),
	}
	h.c = NewKafkaGoConsumer(Config{Brokers: []string{"k:9092"}, GroupID: "g", MaxPollRecords: maxPoll}, Deps{Log: nopLogger{}})
	h.c.openGroup = func([]string) (consumerGroup, error) { return h.group, nil }
	h.c.openReader = func(tp domain.TopicPartition) partitionReader {
		r, ok := h.readers[tp]
		if !ok {
			r = &fakeReader{}
			h.readers[tp] = r
		}
		return r
	}
	h.c.watch = func(*kafka.Generation) <-chan struct{} {
		h.genDone = make(chan struct{})
		return h.genDone
	}
	return h
}

func (h *kafkaGoHarness) generation(assign map[string][]kafka.PartitionAssignment) {
	h.group.gens <- &kafka.Generation{ID: 1, GroupID: "g", MemberID: "m", Assignments: assign}
}

func TestKafkaGo_JoinAndFetch(t *testing.T) {
	h := newKafkaGoHarness(t, 2)
	if err := h.c.Subscribe([]string{"t"}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	tp0 := domain.TopicPartition{Topic: "t", Partition: 0}
	tp1 := domain.TopicPartition{Topic: "t", Partition: 1}
	h.readers[tp0] = &fakeReader{msgs: []kafka.Message{
		{Topic: "t", Partition: 0, Offset: 10, Value: []byte("a"), Headers: []kafka.Header{{Key: "h", Value: []byte("1")}}},
		{Topic: "t", Partition: 0, Offset: 11, Value: []byte("b")},
		{Topic: "t", Partition: 0, Offset: 12, Value: []byte("c")},
	}}
	h.generation(map[string][]kafka.PartitionAssignment{"t": {{ID: 1, Offset: kafka.LastOffset}, {ID: 0, Offset: 10}}})

	res, err := h.c.Poll(context.Background(), 20*time.Millisecond)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if !slices.Equal(res.Assigned, []domain.TopicPartition{tp0, tp1}) {
		t.Fatalf("assigned: got %v", res.Assigned)
	}
	if h.readers[tp0].offset != 10 || h.readers[tp1].offset != kafka.LastOffset {
		t.Fatalf("offsets not applied: %d %d", h.readers[tp0].offset, h.readers[tp1].offset)
	}

	// Не больше MaxPollRecords с партиции за poll.
	got := res.Records[tp0]
	if len(got) != 2 || got[0].Offset != 10 || string(got[0].Headers["h"]) != "1" {
		t.Fatalf("unexpected records: %+v", got)
	}
	if _, ok := res.Records[tp1]; ok {
		t.Fatalf("empty partition must not appear in records")
	}

	res, _ = h.c.Poll(context.Background(), 20*time.Millisecond)
	if len(res.Records[tp0]) != 1 || res.Records[tp0][0].Offset != 12 {
		t.Fatalf("rest of the partition expected, got %+v", res.Records[tp0])
	}
}

func TestKafkaGo_PausedPartitionsAreSkipped(t *testing.T) {
	h := newKafkaGoHarness(t, 10)
	_ = h.c.Subscribe([]string{"t"})

	tp0 := domain.TopicPartition{Topic: "t", Partition: 0}
	h.readers[tp0] = &fakeReader{msgs: []kafka.Message{{Topic: "t", Partition: 0, Offset: 1}}}
	h.generation(map[string][]kafka.PartitionAssignment{"t": {{ID: 0}}})
	_, _ = h.c.Poll(context.Background(), time.Millisecond)

	// Сообщение могло уйти в первом poll; проверяем паузу на свежем.
	h.readers[tp0].mu.Lock()
	h.readers[tp0].msgs = []kafka.Message{{Topic: "t", Partition: 0, Offset: 2}}
	h.readers[tp0].mu.Unlock()

	h.c.Pause([]domain.TopicPartition{tp0})
	res, _ := h.c.Poll(context.Background(), 10*time.Millisecond)
	if len(res.Records) != 0 {
		t.Fatalf("paused partition must not be read, got %v", res.Records)
	}

	h.c.Resume([]domain.TopicPartition{tp0})
	res, _ = h.c.Poll(context.Background(), 10*time.Millisecond)
	if len(res.Records[tp0]) != 1 {
		t.Fatalf("resumed partition must be read, got %v", res.Records)
	}
}

func TestKafkaGo_GenerationEndRevokesAll(t *testing.T) {
	h := newKafkaGoHarness(t, 10)
	_ = h.c.Subscribe([]string{"t"})
	h.generation(map[string][]kafka.PartitionAssignment{"t": {{ID: 0}, {ID: 1}}})
	_, _ = h.c.Poll(context.Background(), time.Millisecond)

	close(h.genDone)
	res, err := h.c.Poll(context.Background(), time.Millisecond)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if len(res.Revoked) != 2 {
		t.Fatalf("all partitions must be revoked, got %v", res.Revoked)
	}
	if len(h.c.Assignment()) != 0 {
		t.Fatalf("assignment must be empty until the next generation")
	}
	for tp, r := range h.readers {
		if !r.closed {
			t.Fatalf("reader %s must be closed", tp)
		}
	}
}

func TestKafkaGo_NoGenerationYet(t *testing.T) {
	h := newKafkaGoHarness(t, 10)
	_ = h.c.Subscribe([]string{"t"})

	res, err := h.c.Poll(context.Background(), 5*time.Millisecond)
	if err != nil || !res.Empty() {
		t.Fatalf("pending join must yield an empty poll, got %+v %v", res, err)
	}
}

func TestKafkaGo_ClosedGroup(t *testing.T) {
	h := newKafkaGoHarness(t, 10)
	_ = h.c.Subscribe([]string{"t"})
	_ = h.group.Close()

	if _, err := h.c.Poll(context.Background(), time.Millisecond); !errors.Is(err, ErrClosed) {
		t.Fatalf("want ErrClosed, got %v", err)
	}
}

func TestKafkaGo_ResubscribeRevokesAndClose(t *testing.T) {
	h := newKafkaGoHarness(t, 10)
	_ = h.c.Subscribe([]string{"t"})
	h.generation(map[string][]kafka.PartitionAssignment{"t": {{ID: 0}}})
	_, _ = h.c.Poll(context.Background(), time.Millisecond)

	first := h.group
	h.group = &fakeGroup{gens: make(chan *kafka.Generation, 1)}
	if err := h.c.Subscribe([]string{"u"}); err != nil {
		t.Fatalf("resubscribe: %v", err)
	}
	if !first.closed {
		t.Fatalf("previous group must be closed")
	}

	res, _ := h.c.Poll(context.Background(), time.Millisecond)
	if !slices.Equal(res.Revoked, []domain.TopicPartition{{Topic: "t", Partition: 0}}) {
		t.Fatalf("revoked: got %v", res.Revoked)
	}

	if err := h.c.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !h.group.closed {
		t.Fatalf("group must be closed")
	}
}
