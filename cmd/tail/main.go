package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"iter"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gunvolt24/kconsumer/internal/consumer"
	"github.com/Gunvolt24/kconsumer/internal/domain"
	"github.com/Gunvolt24/kconsumer/internal/kafka"
	"github.com/Gunvolt24/kconsumer/pkg/logger"
	"github.com/Gunvolt24/kconsumer/pkg/validate"
)

// CLI: читает топики через консьюмер и печатает сообщения в stdout как JSON lines.
func main() {
	brokers := flag.String("brokers", "localhost:9092", "comma-separated broker list")
	group := flag.String("group", "kconsumer-tail", "consumer group id")
	topics := flag.String("topics", "", "comma-separated topics to tail (required)")
	driver := flag.String("driver", kafka.DriverFranz, fmt.Sprintf("native driver: %v", kafka.Drivers()))
	from := flag.String("from", "last", "where to start without a committed offset: first|last")
	limit := flag.Int("n", 0, "stop after n messages (0 = until interrupted)")
	verbose := flag.Bool("v", false, "log consumer internals to stderr")
	flag.Parse()

	topicList := validate.SplitList(*topics)
	if err := validate.Topics(topicList); err != nil {
		fmt.Fprintf(os.Stderr, "topics: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, tailOptions{
		brokers: validate.SplitList(*brokers),
		group:   *group,
		topics:  topicList,
		driver:  *driver,
		from:    *from,
		limit:   *limit,
		verbose: *verbose,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "tail: %v\n", err)
		os.Exit(1)
	}
}

type tailOptions struct {
	brokers []string
	group   string
	topics  []string
	driver  string
	from    string
	limit   int
	verbose bool
}

func run(ctx context.Context, out io.Writer, o tailOptions) error {
	logg, cleanup, err := logger.NewZapLogger(!o.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	native, err := kafka.Open(kafka.Config{
		Driver:      o.driver,
		Brokers:     o.brokers,
		GroupID:     o.group,
		StartOffset: o.from,
	}, kafka.Deps{Log: logg, Zap: logg.Base()})
	if err != nil {
		return err
	}

	c := consumer.New(native, consumer.Config{}, logg)
	if _, err := c.Start(ctx); err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if cErr := c.Close(closeCtx); cErr != nil {
			logg.Warnf(closeCtx, "close consumer: %v", cErr)
		}
	}()
	if err := c.Subscribe(o.topics...); err != nil {
		return err
	}

	return printStream(c.Stream(ctx), out, o.limit)
}

// printStream — пишет сообщения построчно; отмена ctx считается штатным завершением.
func printStream(stream iter.Seq2[domain.Message, error], out io.Writer, limit int) error {
	enc := json.NewEncoder(out)
	n := 0
	for msg, err := range stream {
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if err := enc.Encode(msg); err != nil {
			return fmt.Errorf("write: %w", err)
		}
		if n++; limit > 0 && n >= limit {
			return nil
		}
	}
	return nil
}
