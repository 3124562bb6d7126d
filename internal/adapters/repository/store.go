// Package repository defines the consistency board interface and errors.
package repository

import "context"

// Entry represents one row of a consistency board.
type Entry struct {
	Rank       int
	Key        string // group key, pitcher|code
	Score      float64
	Size       int
	Percentile float64
}

// Store provides read/write access to one board's ranking state.
type Store interface {
	// Put inserts or replaces the scored group. Lower scores rank earlier.
	Put(ctx context.Context, key string, score float64, size int) error

	// Rank returns the entry for a group with its competition rank and
	// percentile. Returns ErrNotFound if the group is unknown.
	Rank(ctx context.Context, key string) (Entry, error)

	// TopN returns the top-N most consistent entries in rank order.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of groups tracked on the board.
	Count(ctx context.Context) int
}
