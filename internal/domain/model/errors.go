package model

import "errors"

// Sentinel kinds for model validation errors.
var (
	ErrInvalidRoster = errors.New("invalid roster")
)
