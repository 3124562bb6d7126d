// Package repository defines the consistency board interface and errors.
package repository

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cuatro-costuras/pitchboard/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: score ASC, then key ASC (deterministic). "Less" means ranks
// earlier: a lower consistency score is more repeatable, so in-order
// traversal produces the board from most to least consistent.

// scoreScale controls fixed-point scaling from float64.
const scoreScale = 1_000_000_000_000 // 12 decimal places

type scoreFP int64

func toFixedPoint(x float64) scoreFP {
	// NaN compares false against everything; map it explicitly.
	if math.IsNaN(x) {
		return 0
	}

	scaled := x * scoreScale
	if scaled > float64(math.MaxInt64) {
		return scoreFP(math.MaxInt64)
	}
	if scaled < float64(math.MinInt64) {
		return scoreFP(math.MinInt64)
	}
	return scoreFP(math.Round(scaled))
}

func toFloat(x scoreFP) float64 {
	return float64(x) / scoreScale
}

// record stores the fixed-point score plus group size for one key.
type record struct {
	score scoreFP
	size  int
}

// Snapshot is an immutable view of a board published for cheap reads.
type Snapshot struct {
	// Rank and score in O(1) for reads.
	RankByKey  map[string]int
	ScoreByKey map[string]float64

	// TopCache holds the first entries in rank order with percentiles
	// already computed, capped at the configured top cache size.
	TopCache []Entry

	// Total is the number of entries at publish time.
	Total int

	version uint64
}

// treap node
type node struct {
	key   string
	score scoreFP
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aScore, aKey) should appear before (bScore, bKey)
// on the board (more consistent groups first).
func less(aScore scoreFP, aKey string, bScore scoreFP, bKey string) bool {
	if aScore != bScore {
		return aScore < bScore // lower score ranks earlier
	}
	return aKey < bKey // tie-breaker by key asc
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

func insert(n *node, key string, score scoreFP) *node {
	if n == nil {
		return &node{key: key, score: score, prio: rand.Uint64(), size: 1}
	}
	if less(score, key, n.score, n.key) {
		n.left = insert(n.left, key, score)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, key, score)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, key string, score scoreFP) *node {
	if n == nil {
		return nil
	}
	if score == n.score && key == n.key {
		// Merge children by rotating the higher priority up until leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, key, score)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, key, score)
		}
	} else if less(score, key, n.score, n.key) {
		n.left = deleteNode(n.left, key, score)
	} else {
		n.right = deleteNode(n.right, key, score)
	}
	fix(n)
	return n
}

// countLower returns how many entries hold a strictly lower score, using
// subtree sizes for an O(log n) walk. Competition rank = countLower + 1.
func countLower(n *node, score scoreFP) int {
	if n == nil {
		return 0
	}
	if n.score < score {
		return nsize(n.left) + 1 + countLower(n.right, score)
	}
	return countLower(n.left, score)
}

// collectTopN appends up to limit entries in rank order (lowest scores
// first, key ASC on ties). Ranks and percentiles are assigned afterwards.
func collectTopN(n *node, limit int, records map[string]record, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}

	collectTopN(n.left, limit, records, out)

	if len(*out) < limit {
		if rec, ok := records[n.key]; ok {
			*out = append(*out, Entry{Key: n.key, Score: toFloat(rec.score), Size: rec.size})
		}
	}

	if len(*out) < limit {
		collectTopN(n.right, limit, records, out)
	}
}

// collectAll appends all entries in rank order.
func collectAll(n *node, records map[string]record, out *[]Entry) {
	if n == nil {
		return
	}
	collectAll(n.left, records, out)
	if rec, ok := records[n.key]; ok {
		*out = append(*out, Entry{Key: n.key, Score: toFloat(rec.score), Size: rec.size})
	}
	collectAll(n.right, records, out)
}

// assignRanks assigns competition ranks over entries already in board
// order: tied scores share the smallest rank and the next distinct score
// skips the tied positions (1,1,3).
func assignRanks(entries []Entry) {
	for i := range entries {
		if i > 0 && entries[i].Score == entries[i-1].Score {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
}

// percentile is the share of entries whose score is at least as high,
// i.e. no more consistent: the best of N scores 100, the worst 100/N.
func percentile(rank, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(total-rank+1) / float64(total) * 100
}

// TreapStore is the in-memory Store for one pitch type's board.
type TreapStore struct {
	mu                    sync.RWMutex
	root                  *node
	byKey                 map[string]record
	label                 string
	snapshotInterval      time.Duration
	metricsUpdateInterval time.Duration
	topCacheSize          int

	// version counts mutations so readers can tell whether the published
	// snapshot still matches the live tree.
	version  atomic.Uint64
	snapshot atomic.Pointer[Snapshot]

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewTreapStore constructs a board store with configuration options.
func NewTreapStore(ctx context.Context, opts ...Option) *TreapStore {
	s := &TreapStore{
		label:                 "all",
		snapshotInterval:      1 * time.Second,
		metricsUpdateInterval: 5 * time.Second,
		topCacheSize:          500,
		byKey:                 make(map[string]record),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.stopChan = make(chan struct{})
	s.startPeriodicSnapshots(ctx)
	s.startMetricsUpdater(ctx)

	return s
}

// startPeriodicSnapshots publishes snapshots at the configured interval
// until the store closes.
func (s *TreapStore) startPeriodicSnapshots(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.snapshotInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.publishSnapshot()
			}
		}
	}()
}

// Publish rebuilds the read snapshot immediately instead of waiting for
// the periodic ticker. Install paths call it once a board is complete.
func (s *TreapStore) Publish() {
	s.publishSnapshot()
}

// GetSnapshot returns the latest published snapshot, or nil before the
// first publish.
func (s *TreapStore) GetSnapshot() *Snapshot {
	return s.snapshot.Load()
}

func (s *TreapStore) publishSnapshot() {
	start := time.Now()
	s.mu.RLock()
	s.publishSnapshotInternal()
	s.mu.RUnlock()

	ms := float64(time.Since(start).Milliseconds())
	metrics.RecordSnapshotRebuildDuration(ms)
	metrics.UpdateSnapshotLastDuration(ms)
	metrics.UpdateSnapshotLastUnix(time.Now().Unix())
	metrics.IncrementSnapshotCount()
}

// publishSnapshotInternal rebuilds and publishes a snapshot.
// Must be called with s.mu held.
func (s *TreapStore) publishSnapshotInternal() {
	all := make([]Entry, 0, len(s.byKey))
	collectAll(s.root, s.byKey, &all)
	assignRanks(all)

	total := len(all)
	rankByKey := make(map[string]int, total)
	scoreByKey := make(map[string]float64, total)
	for i := range all {
		all[i].Percentile = percentile(all[i].Rank, total)
		rankByKey[all[i].Key] = all[i].Rank
		scoreByKey[all[i].Key] = all[i].Score
	}

	top := all
	if len(top) > s.topCacheSize {
		top = top[:s.topCacheSize]
	}
	topCache := make([]Entry, len(top))
	copy(topCache, top)

	s.snapshot.Store(&Snapshot{
		RankByKey:  rankByKey,
		ScoreByKey: scoreByKey,
		TopCache:   topCache,
		Total:      total,
		version:    s.version.Load(),
	})
}

// Close gracefully shuts down the background goroutines.
func (s *TreapStore) Close() error {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
	return nil
}

// Put implements Store.Put with O(log n) expected time. Re-putting a key
// replaces its score and size.
func (s *TreapStore) Put(ctx context.Context, key string, score float64, size int) error {
	start := time.Now()
	defer func() {
		metrics.RecordBoardUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	ns := toFixedPoint(score)

	s.mu.Lock()
	if old, ok := s.byKey[key]; ok {
		s.root = deleteNode(s.root, key, old.score)
	}
	s.byKey[key] = record{score: ns, size: size}
	s.root = insert(s.root, key, ns)
	s.version.Add(1)
	total := len(s.byKey)
	s.mu.Unlock()

	metrics.RecordBoardUpdate()
	metrics.UpdateBoardEntries(s.label, total)

	return nil
}

// Rank returns the entry for a group in O(log n).
func (s *TreapStore) Rank(ctx context.Context, key string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordBoardQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byKey[key]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, ErrNotFound
	}

	rank := countLower(s.root, rec.score) + 1

	return Entry{
		Rank:       rank,
		Key:        key,
		Score:      toFloat(rec.score),
		Size:       rec.size,
		Percentile: percentile(rank, len(s.byKey)),
	}, nil
}

// TopN returns the top-N entries in board order.
func (s *TreapStore) TopN(ctx context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordBoardQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	// Serve from the published snapshot when it still matches the live
	// tree and is deep enough to answer the request: either the cache
	// holds at least n entries, or it holds the whole board.
	if snap := s.snapshot.Load(); snap != nil && snap.version == s.version.Load() {
		if n <= len(snap.TopCache) || snap.Total <= len(snap.TopCache) {
			if n > len(snap.TopCache) {
				n = len(snap.TopCache)
			}
			out := make([]Entry, n)
			copy(out, snap.TopCache[:n])
			return out, nil
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, n)
	collectTopN(s.root, n, s.byKey, &out)
	assignRanks(out)

	total := len(s.byKey)
	for i := range out {
		out[i].Percentile = percentile(out[i].Rank, total)
	}

	return out, nil
}

// Count returns the total number of groups on the board.
func (s *TreapStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey)
}

// startMetricsUpdater refreshes the board gauges at the configured interval
// until the store closes.
func (s *TreapStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

func (s *TreapStore) updateMetrics() {
	s.mu.RLock()
	total := len(s.byKey)
	s.mu.RUnlock()

	metrics.UpdateBoardEntries(s.label, total)
}
