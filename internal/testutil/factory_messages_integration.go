//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/kconsumer/internal/domain"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// UniqSuffix — короткий случайный суффикс.
func UniqSuffix() string { return randHex(6) }

// MakeMessages — n доменных сообщений партиции (topic, partition) с оффсетами от base.
func MakeMessages(topic string, partition int32, base int64, n int) []domain.Message {
	now := time.Now().UTC().Truncate(time.Millisecond)
	out := make([]domain.Message, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Message{
			Topic:     topic,
			Partition: partition,
			Offset:    base + int64(i),
			Key:       []byte(fmt.Sprintf("key-%d", i)),
			Value:     []byte(fmt.Sprintf(`{"n":%d,"id":"%s"}`, i, UniqSuffix())),
			Headers:   map[string][]byte{"source": []byte("testutil")},
			Timestamp: now,
		})
	}
	return out
}

// MakeKafkaMessages — n сообщений для kafka.Writer с ключами key-0..key-n.
func MakeKafkaMessages(n int) []kafka.Message {
	out := make([]kafka.Message, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, kafka.Message{
			Key:   []byte(fmt.Sprintf("key-%d", i)),
			Value: []byte(fmt.Sprintf(`{"n":%d}`, i)),
		})
	}
	return out
}
