package repository

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrLoad     = errors.New("catalog load failed")
	ErrNotFound = errors.New("entity not found")
)
