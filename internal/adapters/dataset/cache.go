// Package dataset loads Statcast season files and caches month shards.
package dataset

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/cuatro-costuras/pitchboard/internal/domain/pitch"
	"github.com/cuatro-costuras/pitchboard/pkg/metrics"
)

type shardKey struct {
	season int
	month  int
}

// shard is one cached month of observations, linked in insertion order.
type shard struct {
	key  shardKey
	rows []pitch.Observation
	next *shard
}

// ShardCache memoizes month loads from an underlying Source. Season data is
// immutable once published, so entries are never invalidated; the cache is
// bounded by shard count with oldest-first eviction.
type ShardCache struct {
	mu        sync.RWMutex
	src       Source
	shards    map[shardKey]*shard
	head      *shard
	maxShards int
	size      atomic.Int64
}

// NewShardCache wraps src with a month-shard cache.
func NewShardCache(src Source, opts ...Option) *ShardCache {
	c := &ShardCache{
		src:       src,
		maxShards: defaultMaxShards,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.shards = make(map[shardKey]*shard)

	return c
}

// LoadMonth implements Source. Returned slices are shared across callers
// and must be treated as read-only.
func (c *ShardCache) LoadMonth(ctx context.Context, season, month int) ([]pitch.Observation, error) {
	key := shardKey{season: season, month: month}

	c.mu.RLock()
	if sh, ok := c.shards[key]; ok {
		c.mu.RUnlock()
		metrics.RecordDatasetCacheHit()
		return sh.rows, nil
	}
	c.mu.RUnlock()

	metrics.RecordDatasetCacheMiss()

	rows, err := c.src.LoadMonth(ctx, season, month)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have loaded the same month in the meantime.
	if sh, ok := c.shards[key]; ok {
		return sh.rows, nil
	}

	if c.maxShards > 0 && len(c.shards) >= c.maxShards {
		c.evictOldest()
	}

	sh := &shard{key: key, rows: rows, next: c.head}
	c.head = sh
	c.shards[key] = sh
	c.size.Add(1)

	return rows, nil
}

// evictOldest removes the least recently inserted shard.
// Must be called with c.mu held.
func (c *ShardCache) evictOldest() {
	if c.head == nil {
		return
	}

	if c.head.next == nil {
		delete(c.shards, c.head.key)
		c.head = nil
		c.size.Add(-1)
		return
	}

	prev := c.head
	for prev.next.next != nil {
		prev = prev.next
	}

	delete(c.shards, prev.next.key)
	prev.next = nil
	c.size.Add(-1)
}

// Size returns the number of cached shards.
func (c *ShardCache) Size() int64 {
	return c.size.Load()
}
