package app_test

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Gunvolt24/kconsumer/config"
	"github.com/Gunvolt24/kconsumer/internal/app"
	"github.com/Gunvolt24/kconsumer/internal/kafka"
)

// логгер-заглушка
type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// фейковый консьюмер: ждёт отмены контекста или возвращает runErr сразу
type fakeConsumer struct {
	runErr     error
	runCalls   int32
	closeCalls int32
}

func (f *fakeConsumer) Run(ctx context.Context) error {
	atomic.AddInt32(&f.runCalls, 1)
	if f.runErr != nil {
		return f.runErr
	}
	<-ctx.Done()
	return nil
}

func (f *fakeConsumer) Close() error {
	atomic.AddInt32(&f.closeCalls, 1)
	return nil
}

func newApp(fc *fakeConsumer) *app.App {
	return &app.App{
		Logger: nopLogger{},
		// HTTP-сервер на случайном свободном порту
		HTTPServer:    &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()},
		KafkaConsumer: fc,
		ConsumerID:    "kc-test",
	}
}

func TestAppRun_GracefulShutdown(t *testing.T) {
	fc := &fakeConsumer{}
	a := newApp(fc)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if atomic.LoadInt32(&fc.runCalls) == 0 {
		t.Fatalf("consumer.Run should be called")
	}
	if atomic.LoadInt32(&fc.closeCalls) == 0 {
		t.Fatalf("consumer.Close should be called")
	}
}

func TestAppRun_ConsumerFailureStopsApp(t *testing.T) {
	boom := errors.New("poll native consumer: broker gone")
	fc := &fakeConsumer{runErr: boom}
	a := newApp(fc)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.Run(ctx); !errors.Is(err, boom) {
		t.Fatalf("want %v, got %v", boom, err)
	}
	if ctx.Err() != nil {
		t.Fatalf("Run must return before the context deadline")
	}
	if atomic.LoadInt32(&fc.closeCalls) != 1 {
		t.Fatalf("consumer.Close should be called once")
	}
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	c, err := config.LoadWithPrefix("KC_APP_TEST")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	c.HTTP.GinMode = "test"
	c.Kafka.Brokers = []string{"127.0.0.1:1"}
	return c
}

// Без DSN и с ленивым franz-клиентом сборка не требует внешних сервисов.
func TestBootstrap_WithoutStorage(t *testing.T) {
	cfg := testConfig(t)
	cfg.Kafka.ClientID = "kc-boot"

	a, cleanup, err := app.Bootstrap(context.Background(), &cfg)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer cleanup()

	if a.ConsumerID != "kc-boot" || a.HTTPServer.Addr != cfg.HTTP.Addr || a.KafkaConsumer == nil {
		t.Fatalf("unexpected app: %+v", a)
	}
}

func TestBootstrap_GeneratesConsumerID(t *testing.T) {
	cfg := testConfig(t)

	a, cleanup, err := app.Bootstrap(context.Background(), &cfg)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer cleanup()

	if len(a.ConsumerID) != len("kconsumer-")+8 {
		t.Fatalf("unexpected generated id %q", a.ConsumerID)
	}
}

func TestBootstrap_UnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Kafka.Driver = "sarama"

	_, cleanup, err := app.Bootstrap(context.Background(), &cfg)
	defer cleanup()
	if !errors.Is(err, kafka.ErrUnknownDriver) {
		t.Fatalf("want ErrUnknownDriver, got %v", err)
	}
}
