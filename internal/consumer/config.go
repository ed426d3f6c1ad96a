package consumer

import "time"

// Config — параметры оркестрации поверх нативного консьюмера.
type Config struct {
	PollInterval time.Duration // пауза планировщика между тиками poll
	PollTimeout  time.Duration // сколько один poll может ждать записи
	CloseTimeout time.Duration // граница на закрытие нативного консьюмера
}

// withDefaults — значения по умолчанию для незаданных полей.
func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = 50 * time.Millisecond
	}
	if c.PollTimeout <= 0 {
		c.PollTimeout = 50 * time.Millisecond
	}
	if c.CloseTimeout <= 0 {
		c.CloseTimeout = 20 * time.Second
	}
	return c
}
