package metrics_test

import (
	"testing"

	"github.com/Gunvolt24/kconsumer/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMustRegister_IsIdempotent(t *testing.T) {
	// Должно выполняться без паники даже при повторном вызове.
	t.Helper()
	metrics.MustRegister()
	metrics.MustRegister()
}

func TestKafkaCounters_Inc(t *testing.T) {
	metrics.MustRegister()

	beforeConsumed := testutil.ToFloat64(metrics.KafkaMessagesConsumed.WithLabelValues("events"))
	beforeProcessed := testutil.ToFloat64(metrics.KafkaMessagesProcessed.WithLabelValues("events"))
	beforeFailed := testutil.ToFloat64(metrics.KafkaMessagesFailed.WithLabelValues("events"))

	metrics.KafkaMessagesConsumed.WithLabelValues("events").Add(3)
	metrics.KafkaMessagesProcessed.WithLabelValues("events").Inc()
	metrics.KafkaMessagesFailed.WithLabelValues("events").Inc()

	if got := testutil.ToFloat64(metrics.KafkaMessagesConsumed.WithLabelValues("events")); got != beforeConsumed+3 {
		t.Fatalf("KafkaMessagesConsumed: got=%v want=%v", got, beforeConsumed+3)
	}
	if got := testutil.ToFloat64(metrics.KafkaMessagesProcessed.WithLabelValues("events")); got != beforeProcessed+1 {
		t.Fatalf("KafkaMessagesProcessed: got=%v want=%v", got, beforeProcessed+1)
	}
	if got := testutil.ToFloat64(metrics.KafkaMessagesFailed.WithLabelValues("events")); got != beforeFailed+1 {
		t.Fatalf("KafkaMessagesFailed: got=%v want=%v", got, beforeFailed+1)
	}
}

func TestConsumerRequests_ByKindAndOutcome(t *testing.T) {
	metrics.MustRegister()

	okBefore := testutil.ToFloat64(metrics.ConsumerRequests.WithLabelValues("poll", "ok"))
	errBefore := testutil.ToFloat64(metrics.ConsumerRequests.WithLabelValues("poll", "error"))

	metrics.ConsumerRequests.WithLabelValues("poll", "ok").Inc()
	metrics.ConsumerRequests.WithLabelValues("poll", "ok").Inc()

	if got := testutil.ToFloat64(metrics.ConsumerRequests.WithLabelValues("poll", "ok")); got != okBefore+2 {
		t.Fatalf("ConsumerRequests(poll,ok): got=%v want=%v", got, okBefore+2)
	}
	if got := testutil.ToFloat64(metrics.ConsumerRequests.WithLabelValues("poll", "error")); got != errBefore {
		t.Fatalf("ConsumerRequests(poll,error): got=%v want=%v", got, errBefore)
	}
}

func TestConsumerPendingFetches_GaugeSet(t *testing.T) {
	metrics.MustRegister()

	cur := testutil.ToFloat64(metrics.ConsumerPendingFetches)

	metrics.ConsumerPendingFetches.Set(cur + 4)
	if got := testutil.ToFloat64(metrics.ConsumerPendingFetches); got != cur+4 {
		t.Fatalf("ConsumerPendingFetches after +4: got=%v want=%v", got, cur+4)
	}

	metrics.ConsumerPendingFetches.Set(cur) // вернуть как было
	if got := testutil.ToFloat64(metrics.ConsumerPendingFetches); got != cur {
		t.Fatalf("ConsumerPendingFetches restore: got=%v want=%v", got, cur)
	}
}

func TestConsumerRequestDuration_Collects(t *testing.T) {
	metrics.MustRegister()

	metrics.ConsumerRequestDuration.WithLabelValues("fetch").Observe(0.01)
	if n := testutil.CollectAndCount(metrics.ConsumerRequestDuration); n == 0 {
		t.Fatalf("ConsumerRequestDuration: expected at least one series")
	}
}
