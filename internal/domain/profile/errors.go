package profile

import "errors"

// Sentinel kinds for input validation errors.
var (
	ErrOutOfRange = errors.New("value out of range")
)
