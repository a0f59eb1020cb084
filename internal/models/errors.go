package models

import "errors"

// Custom errors
var (
	// ErrInvalidInput indicates a negative, NaN or infinite team rate
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoSourcesAvailable indicates every prediction source abstained
	ErrNoSourcesAvailable = errors.New("no prediction sources available")

	// ErrInvalidStake indicates a stake that is not strictly positive
	ErrInvalidStake = errors.New("invalid stake")

	// ErrInvalidOdds indicates decimal odds that are not strictly positive
	ErrInvalidOdds = errors.New("invalid odds")

	ErrInvalidConfig = errors.New("invalid configuration")
	ErrNotFound      = errors.New("record not found")
)
