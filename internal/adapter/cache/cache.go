package cache

import (
	"context"
	"slices"
	"sync"

	"github.com/couchcryptid/flood-planner/internal/domain"
	"github.com/couchcryptid/flood-planner/internal/observability"
)

// CachedPlanner wraps a Planner with an in-memory LRU cache keyed by schedule.
type CachedPlanner struct {
	inner   domain.Planner
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedPlanner creates a cache decorator around a planner. metrics may be nil.
func NewCachedPlanner(inner domain.Planner, maxEntries int, metrics *observability.Metrics) *CachedPlanner {
	return &CachedPlanner{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedPlanner) Plan(ctx context.Context, rains domain.RainSchedule) (domain.Result, error) {
	key := domain.ScheduleKey(rains)
	if result, ok := c.cache.get(key); ok {
		c.observe("hit")
		return withCopiedActions(result), nil
	}
	c.observe("miss")

	result, err := c.inner.Plan(ctx, rains)
	if err != nil {
		return result, err
	}
	c.cache.put(key, withCopiedActions(result))
	return result, nil
}

func (c *CachedPlanner) observe(outcome string) {
	if c.metrics == nil {
		return
	}
	c.metrics.PlanCache.WithLabelValues(outcome).Inc()
}

// withCopiedActions keeps cached entries isolated from callers that modify plans.
func withCopiedActions(r domain.Result) domain.Result {
	r.Actions = slices.Clone(r.Actions)
	if r.Actions == nil {
		r.Actions = domain.ActionSchedule{}
	}
	return r
}

// lruCache is a simple thread-safe LRU cache for planning results.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.Result
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.Result{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
