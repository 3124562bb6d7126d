package consistency

import "errors"

// Sentinel kinds for consistency errors.
var (
	// ErrInsufficientSample means a group has too few observations for the
	// requested statistic. A score over fewer than two pitches is undefined
	// and is never reported as zero.
	ErrInsufficientSample = errors.New("insufficient sample")

	// ErrInvalidBins means a histogram was requested with fewer than one bin.
	ErrInvalidBins = errors.New("invalid bin count")
)
