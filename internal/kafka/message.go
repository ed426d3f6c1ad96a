package kafka

import (
	"sort"

	"github.com/segmentio/kafka-go"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/Gunvolt24/kconsumer/internal/domain"
)

// fromRecord — запись franz-go в доменное сообщение.
func fromRecord(r *kgo.Record) domain.Message {
	return domain.Message{
		Topic:     r.Topic,
		Partition: r.Partition,
		Offset:    r.Offset,
		Key:       r.Key,
		Value:     r.Value,
		Headers:   recordHeaders(r.Headers),
		Timestamp: r.Timestamp,
	}
}

func recordHeaders(hs []kgo.RecordHeader) map[string][]byte {
	if len(hs) == 0 {
		return nil
	}
	out := make(map[string][]byte, len(hs))
	for _, h := range hs {
		out[h.Key] = h.Value
	}
	return out
}

// fromKafkaGo — сообщение kafka-go в доменное.
func fromKafkaGo(m kafka.Message) domain.Message {
	return domain.Message{
		Topic:     m.Topic,
		Partition: int32(m.Partition),
		Offset:    m.Offset,
		Key:       m.Key,
		Value:     m.Value,
		Headers:   kafkaGoHeaders(m.Headers),
		Timestamp: m.Time,
	}
}

func kafkaGoHeaders(hs []kafka.Header) map[string][]byte {
	if len(hs) == 0 {
		return nil
	}
	out := make(map[string][]byte, len(hs))
	for _, h := range hs {
		out[h.Key] = h.Value
	}
	return out
}

// partitionMap — список партиций в форме topic → номера (так их принимает franz-go).
func partitionMap(tps []domain.TopicPartition) map[string][]int32 {
	out := make(map[string][]int32)
	for _, tp := range tps {
		out[tp.Topic] = append(out[tp.Topic], tp.Partition)
	}
	return out
}

// partitionList — обратное преобразование, отсортированное.
func partitionList(m map[string][]int32) []domain.TopicPartition {
	var out []domain.TopicPartition
	for topic, parts := range m {
		for _, p := range parts {
			out = append(out, domain.TopicPartition{Topic: topic, Partition: p})
		}
	}
	domain.SortPartitions(out)
	return out
}

// sortedTopics — копия без дубликатов по алфавиту.
func sortedTopics(topics []string) []string {
	seen := make(map[string]struct{}, len(topics))
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
