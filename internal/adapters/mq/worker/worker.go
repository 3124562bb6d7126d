// Package worker defines worker contracts for asynchronous group scoring
// and board updates.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/cuatro-costuras/pitchboard/internal/adapters/mq/queue"
	"github.com/cuatro-costuras/pitchboard/internal/domain/pitch"
	"github.com/cuatro-costuras/pitchboard/pkg/logger"
	"github.com/cuatro-costuras/pitchboard/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultMinGroupSize   = 2
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Job abstracts what workers read off the queue.
type Job = queue.Job

// Boards receives scored groups, routed by pitch type.
type Boards interface {
	Put(ctx context.Context, code pitch.Type, key string, score float64, size int) error
}

// Scorer computes a consistency score for a group of observations.
type Scorer interface {
	Score(ctx context.Context, key pitch.GroupKey, obs []pitch.Observation) (float64, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes jobs and writes score updates using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It will process any remaining jobs before stopping.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing group-scoring jobs.
type InMemoryWorker struct {
	queue    Queue
	scorer   Scorer
	boards   Boards
	name     string
	minGroup int

	// Shutdown control
	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, scorer Scorer, boards Boards, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		scorer:   scorer,
		boards:   boards,
		name:     "worker", // default name
		minGroup: defaultMinGroupSize,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	// Set up logger with worker name if not already set
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	jobChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing job", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.signalStop()

	// Wait for worker to finish or context to timeout
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// signalStop asks the run loop to exit. Safe to call more than once.
func (w *InMemoryWorker) signalStop() {
	w.stopOnce.Do(func() {
		close(w.shutdown)
	})
}

// processJob scores a single group and records it on its pitch-type board.
func (w *InMemoryWorker) processJob(ctx context.Context, job Job) error {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordWorkerProcessingLatency(float64(latency))
	}()

	// Groups below the minimum sample size are counted, not scored.
	if len(job.Observations) < w.minGroup {
		metrics.RecordGroupSkipped()
		w.logger.Debug(ctx, "group below minimum sample size, skipping",
			logger.String("group", job.Key.String()),
			logger.Int("size", len(job.Observations)),
		)
		return nil
	}

	scoreStart := time.Now()
	score, err := w.scorer.Score(ctx, job.Key, job.Observations)
	scoreLatency := time.Since(scoreStart).Milliseconds()

	metrics.RecordScoringLatency(float64(scoreLatency))

	if err != nil {
		metrics.RecordScoringError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "scoring_error")
		w.logger.Error(ctx, "scoring failed for group",
			logger.String("group", job.Key.String()),
			logger.Error(err),
		)
		return fmt.Errorf("failed to score group %s: %w", job.Key.String(), err)
	}

	if err := w.boards.Put(ctx, job.Key.Type, job.Key.String(), score, len(job.Observations)); err != nil {
		metrics.RecordBoardError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "board_error")
		w.logger.Error(ctx, "board update failed for group",
			logger.String("group", job.Key.String()),
			logger.Error(err),
		)
		return fmt.Errorf("board update failed: %w", err)
	}

	metrics.RecordGroupScored()
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	scorer  Scorer
	boards  Boards

	stopOnce sync.Once

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool. A workerCount below one falls back
// to one worker per CPU; scoring is CPU-bound.
func NewPool(workerCount int, queue Queue, scorer Scorer, boards Boards, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
		scorer:  scorer,
		boards:  boards,
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			scorer,
			boards,
			append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)...,
		)
	}

	metrics.UpdateWorkerActiveCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Stop stops all workers without draining the queue.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		for _, worker := range p.workers {
			worker.signalStop()
		}
	})

	for _, worker := range p.workers {
		select {
		case <-worker.done:
		case <-time.After(workerShutdownTimeout):
		}
	}

	metrics.UpdateWorkerActiveCount(0)
}

// Shutdown drains and shuts down the entire worker pool. The queue is
// closed first so workers finish the jobs already enqueued.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	// Wait for all workers to drain or the deadline to pass
	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	metrics.UpdateWorkerActiveCount(0)

	return nil
}
