package repository

import "errors"

// Sentinel kinds for artifact store errors.
var (
	ErrNotFound = errors.New("artifact not found")
	ErrClosed   = errors.New("artifact store closed")
)
