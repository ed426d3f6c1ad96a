package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DefaultPrefix — префикс переменных окружения: KCONSUMER_HTTP_ADDR, KCONSUMER_KAFKA_BROKERS, ...
const DefaultPrefix = "KCONSUMER"

type HTTP struct {
	Addr              string        `default:":8080" envconfig:"ADDR"`
	GinMode           string        `default:"debug" envconfig:"GIN_MODE"`
	ReadTimeout       time.Duration `default:"10s" envconfig:"READ_TIMEOUT"`
	WriteTimeout      time.Duration `default:"10s" envconfig:"WRITE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `default:"5s" envconfig:"READ_HEADER_TIMEOUT"`
	IdleTimeout       time.Duration `default:"60s" envconfig:"IDLE_TIMEOUT"`
	HandlerTimeout    time.Duration `default:"3s" envconfig:"HANDLER_TIMEOUT"`
	GracefulTimeout   time.Duration `default:"10s" envconfig:"GRACEFUL_TIMEOUT"`
}

type Tracing struct {
	Enabled     bool    `default:"false" envconfig:"OTEL_ENABLED"`
	ServiceName string  `default:"kconsumer" envconfig:"OTEL_SERVICE_NAME"`
	Endpoint    string  `default:"jaeger:4318" envconfig:"OTEL_ENDPOINT"`
	SampleRatio float64 `default:"1" envconfig:"OTEL_SAMPLE_RATIO"`
}

// Postgres — пустой DSN отключает сохранение: пачки только логируются.
type Postgres struct {
	DSN      string `envconfig:"DSN"`
	MaxConns int32  `default:"10" envconfig:"MAX_CONNS"`
}

type Kafka struct {
	Driver         string        `default:"franz" envconfig:"DRIVER"`
	Brokers        []string      `default:"kafka:9092" envconfig:"BROKERS"`
	Topics         []string      `default:"events" envconfig:"TOPICS"`
	GroupID        string        `default:"kconsumer" envconfig:"GROUP_ID"`
	ClientID       string        `envconfig:"CLIENT_ID"`
	StartOffset    string        `default:"last" envconfig:"START_OFFSET"`
	MaxPollRecords int           `default:"500" envconfig:"MAX_POLL_RECORDS"`
	MaxWait        time.Duration `default:"250ms" envconfig:"MAX_WAIT"`
}

type Consumer struct {
	PollInterval   time.Duration `default:"50ms" envconfig:"POLL_INTERVAL"`
	PollTimeout    time.Duration `default:"50ms" envconfig:"POLL_TIMEOUT"`
	CloseTimeout   time.Duration `default:"20s" envconfig:"CLOSE_TIMEOUT"`
	ProcessTimeout time.Duration `default:"5s" envconfig:"PROCESS_TIMEOUT"`
}

type Cache struct {
	Capacity int           `default:"1000" envconfig:"CAPACITY"`
	TTL      time.Duration `default:"10m" envconfig:"TTL"`
}

type Logger struct {
	IsProd bool `default:"false" envconfig:"IS_PROD"`
}

type Config struct {
	HTTP     HTTP
	Tracing  Tracing
	Postgres Postgres
	Kafka    Kafka
	Consumer Consumer
	Cache    Cache
	Logger   Logger
}

// Load — конфигурация из окружения с префиксом KCONSUMER.
func Load() (Config, error) { return LoadWithPrefix(DefaultPrefix) }

// LoadWithPrefix — то же, но с произвольным префиксом (удобно в тестах).
func LoadWithPrefix(prefix string) (Config, error) {
	var c Config

	if err := envconfig.Process(prefix, &c); err != nil {
		return Config{}, err
	}

	return c, nil
}
