package forecast

import "errors"

// Sentinel kinds for series validation.
var (
	ErrTooFewScores   = errors.New("at least 2 past scores required for prediction")
	ErrLengthMismatch = errors.New("number of scores and dates must match")
)
