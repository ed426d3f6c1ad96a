package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of messages emitted by consumer streams",
		},
		[]string{"topic"},
	)
	KafkaMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Number of messages persisted successfully",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of messages failed to persist",
		},
		[]string{"topic"},
	)
)

var (
	ConsumerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consumer_actor_requests_total",
			Help: "Requests handled by the consumer actor",
		},
		[]string{"kind", "outcome"}, // kind: subscribe|assignment|fetch|poll|shutdown; outcome: ok|error
	)
	ConsumerRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "consumer_actor_request_duration_seconds",
			Help:    "Time the consumer actor spent on one request",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
		[]string{"kind"},
	)
	ConsumerPollTicks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "consumer_poll_ticks_total",
			Help: "Poll ticks accepted by the poll queue",
		},
	)
	ConsumerRecordsPolled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consumer_records_polled_total",
			Help: "Records returned by native polls",
		},
		[]string{"topic"},
	)
	ConsumerPendingFetches = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "consumer_pending_fetches",
			Help: "Fetch requests waiting for the next poll cycle",
		},
	)
)

var (
	MessageCacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "message_cache_ops_total",
			Help: "Recent-message cache operations",
		},
		[]string{"result"}, // hit|miss|expired|evicted
	)
	MessageCacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "message_cache_size",
			Help: "Messages currently held by the recent-message cache",
		},
	)
)

var registerOnce sync.Once

// MustRegister — регистрирует коллекторы в глобальном реестре; повторный вызов ничего не делает.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed,
			ConsumerRequests, ConsumerRequestDuration, ConsumerPollTicks,
			ConsumerRecordsPolled, ConsumerPendingFetches,
			MessageCacheOps, MessageCacheSize,
		)
	})
}
