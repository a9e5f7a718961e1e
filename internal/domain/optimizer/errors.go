package optimizer

import "errors"

// Sentinel kinds for optimizer errors. An infeasible search is not an error;
// it is reported through Result.Best being nil.
var (
	ErrInvalidRequest = errors.New("invalid search request")
)
