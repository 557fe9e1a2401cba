package summarize

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"golang.org/x/sync/singleflight"

	"paper-digest/internal/domain/entity"
)

// Fingerprint returns the cache key of text: the hex SHA-256 of the untruncated input.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

type cacheEntry struct {
	fingerprint string
	summary     entity.Summary
}

// Cache is a fixed-capacity LRU of summaries keyed by Fingerprint.
// Concurrent misses for one fingerprint share a single computation.
type Cache struct {
	capacity int
	metrics  MetricsRecorder

	mu    sync.Mutex
	ll    *list.List // front is most recently used
	items map[string]*list.Element

	flights singleflight.Group
}

// NewCache creates a cache holding at most capacity summaries.
// A non-positive capacity uses DefaultCacheCapacity.
func NewCache(capacity int, metrics MetricsRecorder) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &Cache{
		capacity: capacity,
		metrics:  metrics,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get returns the summary stored under fingerprint and marks it most recently used.
func (c *Cache) Get(fingerprint string) (entity.Summary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[fingerprint]
	if !ok {
		return entity.Summary{}, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*cacheEntry).summary, true
}

// Add stores summary under fingerprint as the most recently used entry and evicts
// the least recently used entry when the cache is over capacity.
func (c *Cache) Add(fingerprint string, summary entity.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[fingerprint]; ok {
		el.Value.(*cacheEntry).summary = summary
		c.ll.MoveToFront(el)
		return
	}

	c.items[fingerprint] = c.ll.PushFront(&cacheEntry{fingerprint: fingerprint, summary: summary})
	for c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		c.ll.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).fingerprint)
		c.metrics.RecordCache(CacheEviction)
	}
	c.metrics.SetCacheSize(c.ll.Len())
}

// Len returns the number of cached summaries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// ComputeFunc produces a summary for a cache miss.
type ComputeFunc func(ctx context.Context, doc entity.Document) entity.Summary

// GetOrCompute returns the cached summary for doc or computes and stores it.
// At most one computation runs per fingerprint; concurrent callers wait for it
// and receive the same summary. cached reports whether no computation was started
// on behalf of this caller.
func (c *Cache) GetOrCompute(ctx context.Context, doc entity.Document, compute ComputeFunc) (summary entity.Summary, cached bool) {
	fp := Fingerprint(doc.Text)
	if s, ok := c.Get(fp); ok {
		c.metrics.RecordCache(CacheHit)
		return s, true
	}

	var computed bool
	v, _, shared := c.flights.Do(fp, func() (interface{}, error) {
		// a flight that finished between Get and Do has already stored the result
		if s, ok := c.Get(fp); ok {
			return s, nil
		}
		computed = true
		s := compute(context.WithoutCancel(ctx), doc)
		c.Add(fp, s)
		return s, nil
	})

	switch {
	case shared && !computed:
		c.metrics.RecordCache(CacheShared)
	case computed:
		c.metrics.RecordCache(CacheMiss)
	default:
		c.metrics.RecordCache(CacheHit)
	}
	return v.(entity.Summary), !computed
}
