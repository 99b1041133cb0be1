package training

import "errors"

// Sentinel kinds for training errors.
var (
	ErrTraining = errors.New("model training failed")
)
