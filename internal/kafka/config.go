package kafka

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/kconsumer/internal/domain"
)

// Имена драйверов нативного консьюмера.
const (
	DriverFranz   = "franz"
	DriverKafkaGo = "kafka-go"
)

// Config — настройки нативного консьюмера, общие для всех драйверов.
type Config struct {
	Driver         string
	Brokers        []string
	GroupID        string
	ClientID       string
	StartOffset    string // first|last; где начинать, если у группы нет закоммиченного оффсета
	MaxPollRecords int
	MaxWait        time.Duration
}

// withDefaults — значения по умолчанию для незаданных полей.
func (c Config) withDefaults() Config {
	c.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	if c.Driver == "" {
		c.Driver = DriverFranz
	}
	if c.ClientID == "" {
		c.ClientID = "kconsumer-" + uuid.NewString()[:8]
	}
	c.StartOffset = normalizeStartOffset(c.StartOffset)
	if c.MaxPollRecords <= 0 {
		c.MaxPollRecords = 500
	}
	if c.MaxWait <= 0 {
		c.MaxWait = 250 * time.Millisecond
	}
	return c
}

// normalizeStartOffset — "first" в любом регистре и с пробелами, иначе "last".
func normalizeStartOffset(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), "first") {
		return "first"
	}
	return "last"
}

// startOffset — константа kafka-go для начального оффсета.
func (c Config) startOffset() int64 {
	if normalizeStartOffset(c.StartOffset) == "first" {
		return kafka.FirstOffset
	}
	return kafka.LastOffset
}

// GroupConfig — конфигурация kafka-go ConsumerGroup для подписки на topics.
func (c Config) GroupConfig(topics []string) kafka.ConsumerGroupConfig {
	return kafka.ConsumerGroupConfig{
		ID:                    c.GroupID,
		Brokers:               c.Brokers,
		Topics:                topics,
		StartOffset:           c.startOffset(),
		WatchPartitionChanges: true,
	}
}

// ReaderConfig — конфигурация kafka-go Reader одной назначенной партиции.
// GroupID не задаётся: оффсет выставляет драйвер, коммитов нет.
func (c Config) ReaderConfig(tp domain.TopicPartition) kafka.ReaderConfig {
	return kafka.ReaderConfig{
		Brokers:   c.Brokers,
		Topic:     tp.Topic,
		Partition: int(tp.Partition),
		MinBytes:  1,
		MaxBytes:  10e6,
		MaxWait:   c.MaxWait,
	}
}
