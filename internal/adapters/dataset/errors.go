// Package dataset loads Statcast season files and caches month shards.
package dataset

import "errors"

// ErrMonthMissing indicates no file exists for the requested month.
var ErrMonthMissing = errors.New("month file missing")

// ErrBadHeader indicates the file header lacks a required column.
var ErrBadHeader = errors.New("missing required column")
