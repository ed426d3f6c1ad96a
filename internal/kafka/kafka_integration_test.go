//go:build integration

package kafka_test

import (
	"context"
	"regexp"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Gunvolt24/kconsumer/internal/consumer"
	"github.com/Gunvolt24/kconsumer/internal/domain"
	ikafka "github.com/Gunvolt24/kconsumer/internal/kafka"
	pgrepo "github.com/Gunvolt24/kconsumer/internal/repo/postgres"
	"github.com/Gunvolt24/kconsumer/internal/testutil"
	"github.com/Gunvolt24/kconsumer/internal/usecase"
	"github.com/Gunvolt24/kconsumer/pkg/logger"
)

var reUnsafe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func safe(t *testing.T) string { return reUnsafe.ReplaceAllString(t.Name(), "-") }

func startKafka(t *testing.T) *testutil.KafkaEnv {
	t.Helper()
	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()

	kf, stopKF, err := testutil.StartKafkaTC(ctxStart, "kc-itc")
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopKF(context.Background()) })
	return kf
}

func newLogger(t *testing.T) *logger.ZapLogger {
	t.Helper()
	logg, cleanup, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })
	return logg
}

// 1) Оба драйвера: всё записанное в 3 партиции читается через Stream, порядок внутри партиции сохраняется.
func TestDrivers_StreamAllPartitions_TC(t *testing.T) {
	kf := startKafka(t)

	for _, driver := range ikafka.Drivers() {
		t.Run(driver, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
			defer cancel()

			topic, group := testutil.UniqueTopicAndGroup(kf.BaseTopic + "-" + safe(t))
			require.NoError(t, testutil.EnsureTopic(ctx, kf.Brokers[0], topic, 3))

			const total = 30
			require.NoError(t, testutil.Produce(ctx, kf.Brokers, topic, testutil.MakeKafkaMessages(total)...))

			logg := newLogger(t)
			native, err := ikafka.Open(ikafka.Config{
				Driver:      driver,
				Brokers:     kf.Brokers,
				GroupID:     group,
				StartOffset: "earliest",
			}, ikafka.Deps{Log: logg, Zap: zap.NewNop()})
			require.NoError(t, err)

			c := consumer.New(native, consumer.Config{}, logg)
			lc, err := c.Start(ctx)
			require.NoError(t, err)
			require.NoError(t, c.Subscribe(topic))

			var got []domain.Message
			for msg, err := range c.Stream(ctx) {
				require.NoError(t, err)
				got = append(got, msg)
				if len(got) == total {
					break
				}
			}
			require.Len(t, got, total)

			perPartition := map[int32][]int64{}
			for _, m := range got {
				require.Equal(t, topic, m.Topic)
				perPartition[m.Partition] = append(perPartition[m.Partition], m.Offset)
			}
			for p, offs := range perPartition {
				require.True(t, sort.SliceIsSorted(offs, func(i, j int) bool { return offs[i] < offs[j] }),
					"partition %d out of order: %v", p, offs)
			}

			tps, err := c.Assignment(ctx)
			require.NoError(t, err)
			require.Len(t, tps, 3)

			require.NoError(t, c.Close(ctx))
			require.NoError(t, lc.Err())
			require.Equal(t, domain.StateTerminated, c.State())
		})
	}
}

// 2) Сквозной сценарий: Kafka → MessageService → Postgres.
func TestMessageService_PersistsBatches_TC(t *testing.T) {
	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()

	pg, stopPG, err := testutil.StartPostgresTC(ctxStart)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopPG(context.Background()) })
	require.NoError(t, testutil.ApplyMigrationsGoose(pg.DSN))

	kf := startKafka(t)

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	topic, group := testutil.UniqueTopicAndGroup(kf.BaseTopic + "-" + safe(t))
	require.NoError(t, testutil.EnsureTopic(ctx, kf.Brokers[0], topic, 2))

	const total = 12
	require.NoError(t, testutil.Produce(ctx, kf.Brokers, topic, testutil.MakeKafkaMessages(total)...))

	logg := newLogger(t)
	native, err := ikafka.Open(ikafka.Config{
		Brokers:     kf.Brokers,
		GroupID:     group,
		StartOffset: "earliest",
	}, ikafka.Deps{Log: logg, Zap: logg.Base()})
	require.NoError(t, err)

	repo := pgrepo.NewMessageRepository(pg.Pool)
	c := consumer.New(native, consumer.Config{}, logg)
	svc := usecase.NewMessageService(c, repo, logg, usecase.Options{
		Topics:         []string{topic},
		ProcessTimeout: 5 * time.Second,
	})

	runErr := make(chan error, 1)
	go func() { runErr <- svc.Run(ctx) }()

	deadline := time.Now().Add(60 * time.Second)
	for {
		n, err := repo.CountByTopic(ctx, topic)
		require.NoError(t, err)
		if n == total {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("saved %d of %d messages before deadline", n, total)
		}
		time.Sleep(200 * time.Millisecond)
	}

	require.NoError(t, svc.Close())
	require.NoError(t, <-runErr)
}
