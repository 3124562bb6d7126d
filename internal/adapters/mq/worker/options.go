// Package worker defines worker contracts for asynchronous group scoring
// and board updates.
package worker

import (
	"github.com/cuatro-costuras/pitchboard/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithMinGroupSize sets the sample size below which groups are skipped
// rather than scored.
func WithMinGroupSize(n int) Option {
	return func(w *InMemoryWorker) {
		if n >= defaultMinGroupSize {
			w.minGroup = n
		}
	}
}
