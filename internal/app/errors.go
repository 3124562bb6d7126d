package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrUnknownPlayer means no loaded observation names the pitcher.
	ErrUnknownPlayer = errors.New("unknown player")

	// ErrUnknownGroup means the pitcher never threw the pitch type in the
	// loaded season.
	ErrUnknownGroup = errors.New("unknown group")

	// ErrUnknownPitchType means the code is not a registered pitch type.
	ErrUnknownPitchType = errors.New("unknown pitch type")
)
