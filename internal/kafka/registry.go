package kafka

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Gunvolt24/kconsumer/internal/ports"
)

var (
	// ErrUnknownDriver — драйвер с таким именем не зарегистрирован.
	ErrUnknownDriver = errors.New("unknown kafka driver")
	// ErrClosed — нативный клиент уже закрыт.
	ErrClosed = errors.New("kafka client is closed")
)

// Deps — внешние зависимости драйверов.
type Deps struct {
	Log ports.Logger
	Zap *zap.Logger // базовый zap для логгеров самих клиентских библиотек; nil — без логов
}

// Factory — строит нативный консьюмер конкретного драйвера.
type Factory func(cfg Config, deps Deps) (ports.NativeConsumer, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register — вызывается из init() каждого драйвера.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// Drivers — имена зарегистрированных драйверов по алфавиту.
func Drivers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open — нативный консьюмер драйвера cfg.Driver (по умолчанию franz).
func Open(cfg Config, deps Deps) (ports.NativeConsumer, error) {
	cfg = cfg.withDefaults()
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	if cfg.GroupID == "" {
		return nil, errors.New("kafka: group id is required")
	}
	if deps.Zap == nil {
		deps.Zap = zap.NewNop()
	}

	registryMu.RLock()
	f, ok := registry[cfg.Driver]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %v)", ErrUnknownDriver, cfg.Driver, Drivers())
	}
	return f(cfg, deps)
}
