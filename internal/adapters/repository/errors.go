package repository

import "errors"

// Sentinel kinds for board errors.
var (
	ErrNotFound     = errors.New("group not found")
	ErrInvalidLimit = errors.New("invalid board limit")
)
