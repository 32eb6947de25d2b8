package pool

import "errors"

// Sentinel kinds for pool errors.
var (
	ErrAcquireTimeout = errors.New("timed out waiting for evaluator handle")
	ErrInvalidCount   = errors.New("invalid prepopulate count")
)
