package artifact

import "errors"

// Sentinel kinds for artifact availability.
var (
	ErrUnavailable = errors.New("model artifacts not loaded")
)
