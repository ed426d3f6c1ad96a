package memory

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/Gunvolt24/kconsumer/internal/domain"
	"github.com/Gunvolt24/kconsumer/internal/ports"
	"github.com/Gunvolt24/kconsumer/pkg/metrics"
)

var _ ports.MessageCache = (*LRUCacheTTL)(nil)

type entry struct {
	ref       domain.MessageRef
	msg       domain.Message
	expiresAt time.Time
}

// LRUCacheTTL — потокобезопасный LRU-кэш сообщений с TTL (ttl <= 0 — без истечения).
// Хранит и отдаёт копии.
type LRUCacheTTL struct {
	capacity int
	ttl      time.Duration
	now      func() time.Time

	ll    *list.List
	index map[domain.MessageRef]*list.Element

	mu sync.Mutex
}

// NewLRUCacheTTL — конструктор; capacity <= 0 превращается в 1.
func NewLRUCacheTTL(capacity int, ttl time.Duration) *LRUCacheTTL {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRUCacheTTL{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		ll:       list.New(),
		index:    make(map[domain.MessageRef]*list.Element),
	}
}

func (c *LRUCacheTTL) Get(_ context.Context, ref domain.MessageRef) (*domain.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[ref]
	if !ok {
		metrics.MessageCacheOps.WithLabelValues("miss").Inc()
		return nil, false
	}
	ent := elem.Value.(*entry)
	if c.isExpired(ent, c.now()) {
		metrics.MessageCacheOps.WithLabelValues("expired").Inc()
		c.removeElement(elem)
		return nil, false
	}
	// Сообщения неизменяемы, поэтому TTL от чтения не продлеваем.
	c.ll.MoveToFront(elem)

	metrics.MessageCacheOps.WithLabelValues("hit").Inc()
	msg := ent.msg.Clone()
	return &msg, true
}

// Set — кладёт сообщения в кэш; при переполнении вытесняет самые давние.
func (c *LRUCacheTTL) Set(_ context.Context, msgs ...domain.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneExpiredFromBack(now)
	for i := range msgs {
		c.put(msgs[i], now)
	}
	return nil
}

// Len — текущее число записей (включая ещё не вычищенные просроченные).
func (c *LRUCacheTTL) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// ------вспомогательные функции------

func (c *LRUCacheTTL) put(msg domain.Message, now time.Time) {
	ref := msg.Ref()
	if elem, ok := c.index[ref]; ok {
		ent := elem.Value.(*entry)
		ent.msg = msg.Clone()
		ent.expiresAt = c.expiryFrom(now)
		c.ll.MoveToFront(elem)
		return
	}

	c.index[ref] = c.ll.PushFront(&entry{
		ref:       ref,
		msg:       msg.Clone(),
		expiresAt: c.expiryFrom(now),
	})
	metrics.MessageCacheSize.Set(float64(c.ll.Len()))

	if c.ll.Len() > c.capacity {
		c.evictLRU()
	}
}

// evictLRU — удаляет наименее используемый элемент.
func (c *LRUCacheTTL) evictLRU() {
	if back := c.ll.Back(); back != nil {
		c.removeElement(back)
		metrics.MessageCacheOps.WithLabelValues("evicted").Inc()
	}
}

func (c *LRUCacheTTL) removeElement(elem *list.Element) {
	ent := elem.Value.(*entry)
	delete(c.index, ent.ref)
	c.ll.Remove(elem)
	metrics.MessageCacheSize.Set(float64(c.ll.Len()))
}

func (c *LRUCacheTTL) isExpired(ent *entry, now time.Time) bool {
	if c.ttl <= 0 {
		return false
	}
	return now.After(ent.expiresAt)
}

func (c *LRUCacheTTL) expiryFrom(now time.Time) time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(c.ttl)
}

// pruneExpiredFromBack — удаляет просроченные из хвоста до первого актуального.
func (c *LRUCacheTTL) pruneExpiredFromBack(now time.Time) {
	if c.ttl <= 0 {
		return
	}
	for back := c.ll.Back(); back != nil; back = c.ll.Back() {
		if !c.isExpired(back.Value.(*entry), now) {
			return
		}
		c.removeElement(back)
		metrics.MessageCacheOps.WithLabelValues("expired").Inc()
	}
}
