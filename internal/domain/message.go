package domain

import (
	"fmt"
	"sort"
	"time"
)

// TopicPartition — идентификатор партиции (топик + номер). Сравнимый тип, годится как ключ map.
type TopicPartition struct {
	Topic     string `json:"topic"`
	Partition int32  `json:"partition"`
}

func (tp TopicPartition) String() string { return fmt.Sprintf("%s-%d", tp.Topic, tp.Partition) }

// Message — одно сообщение, прочитанное из партиции.
type Message struct {
	Topic     string            `json:"topic"`
	Partition int32             `json:"partition"`
	Offset    int64             `json:"offset"`
	Key       []byte            `json:"key,omitempty"`
	Value     []byte            `json:"value"`
	Headers   map[string][]byte `json:"headers,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// TopicPartition — партиция, из которой пришло сообщение.
func (m Message) TopicPartition() TopicPartition {
	return TopicPartition{Topic: m.Topic, Partition: m.Partition}
}

// PollResult — результат одного poll нативного консьюмера:
// записи по партициям и события ребаланса, накопленные с прошлого poll.
type PollResult struct {
	Records  map[TopicPartition][]Message
	Assigned []TopicPartition
	Revoked  []TopicPartition
}

// Empty — в результате нет ни записей, ни событий ребаланса.
func (r PollResult) Empty() bool {
	return len(r.Records) == 0 && len(r.Assigned) == 0 && len(r.Revoked) == 0
}

// SortPartitions — детерминированный порядок (топик, затем номер партиции).
func SortPartitions(tps []TopicPartition) {
	sort.Slice(tps, func(i, j int) bool {
		if tps[i].Topic != tps[j].Topic {
			return tps[i].Topic < tps[j].Topic
		}
		return tps[i].Partition < tps[j].Partition
	})
}

// MessageRef — координаты сообщения в логе: партиция и оффсет.
type MessageRef struct {
	Topic     string `json:"topic"`
	Partition int32  `json:"partition"`
	Offset    int64  `json:"offset"`
}

func (r MessageRef) String() string { return fmt.Sprintf("%s-%d@%d", r.Topic, r.Partition, r.Offset) }

// Ref — координаты сообщения.
func (m Message) Ref() MessageRef {
	return MessageRef{Topic: m.Topic, Partition: m.Partition, Offset: m.Offset}
}

// Clone — глубокая копия: срезы и заголовки не разделяются с оригиналом.
func (m Message) Clone() Message {
	out := m
	if m.Key != nil {
		out.Key = append([]byte(nil), m.Key...)
	}
	if m.Value != nil {
		out.Value = append([]byte(nil), m.Value...)
	}
	if m.Headers != nil {
		out.Headers = make(map[string][]byte, len(m.Headers))
		for k, v := range m.Headers {
			out.Headers[k] = append([]byte(nil), v...)
		}
	}
	return out
}
