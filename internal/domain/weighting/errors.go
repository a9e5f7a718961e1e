package weighting

import "errors"

// Sentinel kinds for weighting errors.
var (
	ErrInvalidParams = errors.New("invalid weighting params")
)
