package consumer

import (
	"sync"

	"github.com/eapache/queue"
)

// requestQueue — неограниченная FIFO-очередь явных запросов.
// Ready() получает сигнал после каждого Enqueue (ёмкость 1, лишние сигналы схлопываются).
type requestQueue struct {
	mu    sync.Mutex
	buf   *queue.Queue
	ready chan struct{}
}

func newRequestQueue() *requestQueue {
	return &requestQueue{
		buf:   queue.New(),
		ready: make(chan struct{}, 1),
	}
}

// Enqueue — никогда не блокируется.
func (q *requestQueue) Enqueue(r Request) {
	q.mu.Lock()
	q.buf.Add(r)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// TryDequeue — неблокирующее извлечение головы очереди.
func (q *requestQueue) TryDequeue() (Request, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.buf.Length() == 0 {
		return nil, false
	}
	r, _ := q.buf.Remove().(Request)
	return r, true
}

// Len — текущая длина.
func (q *requestQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.buf.Length()
}

// Ready — сигнал «в очереди что-то появилось».
func (q *requestQueue) Ready() <-chan struct{} { return q.ready }

// newPollQueue — очередь тиков poll ёмкостью ровно 1: второй тик ждёт, пока актор заберёт первый.
func newPollQueue() chan Request { return make(chan Request, 1) }
