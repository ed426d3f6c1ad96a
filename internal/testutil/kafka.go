//go:build integration

package testutil

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// UniqueTopicAndGroup — топик и группа с общим уникальным суффиксом.
func UniqueTopicAndGroup(base string) (topic, group string) {
	s := base + "-" + UniqSuffix()
	return s, s + "-g"
}

// EnsureTopic — создаёт топик (существующий — не ошибка) и ждёт, пока у него появятся все партиции.
// broker принимает "host:port", "PLAINTEXT://host:port" и список через запятую.
func EnsureTopic(ctx context.Context, broker, topic string, partitions int) error {
	if partitions <= 0 {
		partitions = 1
	}
	client := &kafka.Client{Addr: kafka.TCP(bootstrapAddr(broker)), Timeout: 10 * time.Second}

	resp, err := client.CreateTopics(ctx, &kafka.CreateTopicsRequest{
		Topics: []kafka.TopicConfig{{
			Topic:             topic,
			NumPartitions:     partitions,
			ReplicationFactor: 1,
		}},
	})
	if err != nil {
		return fmt.Errorf("create topic %q: %w", topic, err)
	}
	if tErr := resp.Errors[topic]; tErr != nil && !errors.Is(tErr, kafka.TopicAlreadyExists) {
		return fmt.Errorf("create topic %q: %w", topic, tErr)
	}

	return waitPartitions(ctx, client, topic, partitions)
}

// Produce — пишет сообщения в топик с подтверждением от всех реплик.
func Produce(ctx context.Context, brokers []string, topic string, msgs ...kafka.Message) error {
	addrs := make([]string, 0, len(brokers))
	for _, b := range brokers {
		addrs = append(addrs, bootstrapAddr(b))
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(addrs...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Balancer:     &kafka.Hash{},
	}
	defer w.Close()
	return w.WriteMessages(ctx, msgs...)
}

// bootstrapAddr — первый адрес без схемы.
func bootstrapAddr(raw string) string {
	first, _, _ := strings.Cut(raw, ",")
	first = strings.TrimSpace(first)
	if u, err := url.Parse(first); err == nil && u.Scheme != "" && u.Host != "" {
		return u.Host
	}
	return first
}

func waitPartitions(ctx context.Context, client *kafka.Client, topic string, want int) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()

	var last error
	for {
		md, err := client.Metadata(ctx, &kafka.MetadataRequest{Topics: []string{topic}})
		switch {
		case err != nil:
			last = err
		case len(md.Topics) == 0:
			last = errors.New("no metadata")
		case md.Topics[0].Error != nil:
			last = md.Topics[0].Error
		case len(md.Topics[0].Partitions) >= want:
			return nil
		default:
			last = fmt.Errorf("%d of %d partitions", len(md.Topics[0].Partitions), want)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("topic %q not ready: %w", topic, errors.Join(ctx.Err(), last))
		case <-tick.C:
		}
	}
}
