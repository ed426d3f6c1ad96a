package consumer

import "sync/atomic"

// runState — флаг «работаем». Переключается true→false ровно один раз (CAS),
// при этом закрывается канал stopped, чтобы заблокированные юниты проснулись.
type runState struct {
	running atomic.Bool
	stopped chan struct{}
}

func newRunState() *runState {
	s := &runState{stopped: make(chan struct{})}
	s.running.Store(true)
	return s
}

// Running — флаг ещё поднят.
func (s *runState) Running() bool { return s.running.Load() }

// Stop — опускает флаг; true только для первого вызова.
func (s *runState) Stop() bool {
	if s.running.CompareAndSwap(true, false) {
		close(s.stopped)
		return true
	}
	return false
}

// Stopped — закрыт после Stop.
func (s *runState) Stopped() <-chan struct{} { return s.stopped }
