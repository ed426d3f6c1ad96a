package kafka

import (
	"slices"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/Gunvolt24/kconsumer/internal/domain"
)

func TestFromRecordAndFromKafkaGo(t *testing.T) {
	ts := time.Unix(1700000000, 0)

	a := fromRecord(&kgo.Record{Topic: "t", Partition: 2, Offset: 9, Key: []byte("k"), Value: []byte("v"), Timestamp: ts})
	b := fromKafkaGo(kafka.Message{Topic: "t", Partition: 2, Offset: 9, Key: []byte("k"), Value: []byte("v"), Time: ts})

	for _, m := range []domain.Message{a, b} {
		if m.TopicPartition() != (domain.TopicPartition{Topic: "t", Partition: 2}) || m.Offset != 9 {
			t.Fatalf("unexpected coordinates: %+v", m)
		}
		if string(m.Key) != "k" || string(m.Value) != "v" || !m.Timestamp.Equal(ts) {
			t.Fatalf("unexpected payload: %+v", m)
		}
		if m.Headers != nil {
			t.Fatalf("no headers expected, got %v", m.Headers)
		}
	}
}

func TestPartitionMapRoundTrip(t *testing.T) {
	tps := []domain.TopicPartition{{Topic: "b", Partition: 1}, {Topic: "a", Partition: 0}, {Topic: "b", Partition: 0}}

	m := partitionMap(tps)
	if len(m["b"]) != 2 || len(m["a"]) != 1 {
		t.Fatalf("unexpected map: %v", m)
	}

	got := partitionList(m)
	want := []domain.TopicPartition{{Topic: "a", Partition: 0}, {Topic: "b", Partition: 0}, {Topic: "b", Partition: 1}}
	if !slices.Equal(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestSortedTopics(t *testing.T) {
	if got := sortedTopics([]string{"c", "a", "c", "b"}); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected: %v", got)
	}
}
