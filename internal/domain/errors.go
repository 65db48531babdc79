package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound       = errors.New("not found")
	ErrEmptyScript    = errors.New("script has no entries")
	ErrUnknownSpeaker = errors.New("unknown speaker")
	ErrInvalidConfig  = errors.New("invalid configuration")
)
