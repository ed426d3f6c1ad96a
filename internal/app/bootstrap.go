package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Gunvolt24/kconsumer/config"
	cachemem "github.com/Gunvolt24/kconsumer/internal/cache/memory"
	"github.com/Gunvolt24/kconsumer/internal/consumer"
	"github.com/Gunvolt24/kconsumer/internal/kafka"
	"github.com/Gunvolt24/kconsumer/internal/ports"
	"github.com/Gunvolt24/kconsumer/internal/repo/postgres"
	rest "github.com/Gunvolt24/kconsumer/internal/transport/http"
	"github.com/Gunvolt24/kconsumer/internal/usecase"
	"github.com/Gunvolt24/kconsumer/pkg/ctxmeta"
	"github.com/Gunvolt24/kconsumer/pkg/logger"
	"github.com/Gunvolt24/kconsumer/pkg/metrics"
	"github.com/Gunvolt24/kconsumer/pkg/telemetry"
)

// App — собранное приложение и его внешние интерфейсы (HTTP, consumer).
type App struct {
	Logger          ports.Logger          // логгер
	HTTPServer      *http.Server          // HTTP-сервер
	KafkaConsumer   ports.MessageConsumer // консьюмер сообщений
	ConsumerID      string                // client id, попадает в логи через ctxmeta
	gracefulTimeout time.Duration         // время ожидания завершения HTTP-сервера
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
// Без Postgres DSN сервис работает без хранилища: пачки логируются, /messages отвечает 503.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}
	// Стек освобождения: выполняется в обратном порядке.
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	closers = append(closers, func() {
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
	})

	metrics.MustRegister()

	clientID := cfg.Kafka.ClientID
	if clientID == "" {
		clientID = "kconsumer-" + uuid.NewString()[:8]
	}
	ctx = ctxmeta.WithConsumerID(ctx, clientID)

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	if cfg.Tracing.Enabled {
		shutdownTrace, tErr := telemetry.SetupTracing(ctx, telemetry.Options{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
			ConsumerID:  clientID,
		})
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			closers = append(closers, func() {
				if terr := shutdownTrace(context.Background()); terr != nil {
					logg.Warnf(ctx, "shutdown tracing: %v", terr)
				}
			})
		}
	}

	// Хранилище (необязательно).
	var (
		repo   ports.MessageRepository
		reader ports.MessageReadService
	)
	cache := cachemem.NewLRUCacheTTL(cfg.Cache.Capacity, cfg.Cache.TTL)
	if cfg.Postgres.DSN != "" {
		pool, pErr := postgres.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
		if pErr != nil {
			cleanup()
			return nil, func() {}, pErr
		}
		closers = append(closers, pool.Close)
		messageRepo := postgres.NewMessageRepository(pool)
		repo = messageRepo
		reader = usecase.NewMessageReadService(messageRepo, cache, logg)
	} else {
		logg.Warnf(ctx, "postgres DSN is empty: consumed batches are only logged")
	}

	// Нативный консьюмер выбранного драйвера и фасад над ним.
	native, err := kafka.Open(kafka.Config{
		Driver:         cfg.Kafka.Driver,
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.Kafka.GroupID,
		ClientID:       clientID,
		StartOffset:    cfg.Kafka.StartOffset,
		MaxPollRecords: cfg.Kafka.MaxPollRecords,
		MaxWait:        cfg.Kafka.MaxWait,
	}, kafka.Deps{Log: logg, Zap: logg.Base()})
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	cons := consumer.New(native, consumer.Config{
		PollInterval: cfg.Consumer.PollInterval,
		PollTimeout:  cfg.Consumer.PollTimeout,
		CloseTimeout: cfg.Consumer.CloseTimeout,
	}, logg)

	svc := usecase.NewMessageService(cons, repo, logg, usecase.Options{
		Topics:         cfg.Kafka.Topics,
		ProcessTimeout: cfg.Consumer.ProcessTimeout,
		// запас сверх таймаута закрытия нативного клиента
		CloseTimeout: cfg.Consumer.CloseTimeout + 5*time.Second,
		Cache:        cache,
	})
	closers = append(closers, func() {
		if cErr := svc.Close(); cErr != nil {
			logg.Warnf(ctx, "kafka consumer close error: %v", cErr)
		}
	})

	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	httpHandler := rest.NewHandler(cons, reader, logg, cfg.HTTP.HandlerTimeout)
	router := rest.NewRouter(httpHandler, otelServiceName)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	logg.Infof(ctx, "bootstrap done driver=%s brokers=%v group=%s topics=%v storage=%t",
		cfg.Kafka.Driver, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topics, repo != nil)

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		KafkaConsumer:   svc,
		ConsumerID:      clientID,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}
	return app, cleanup, nil
}

// Run — запускает HTTP-сервер и консьюмера; ждёт отмены контекста или ошибки и останавливает их.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxmeta.WithConsumerID(ctx, a.ConsumerID)
	errCh := make(chan error, 2)

	go func() {
		a.Logger.Infof(ctx, "kafka consumer starting")
		if err := a.KafkaConsumer.Run(ctx); err != nil {
			errCh <- err
		}
	}()

	go func() {
		a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Ожидание сигнала остановки или фоновой ошибки.
	var runErr error
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Errorf(ctx, "background error: %v", err)
			runErr = err
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	if err := a.KafkaConsumer.Close(); err != nil {
		a.Logger.Warnf(ctx, "kafka consumer close error: %v", err)
	}

	a.Logger.Infof(ctx, "service stopped")
	return runErr
}
