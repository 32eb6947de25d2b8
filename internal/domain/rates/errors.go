package rates

import "errors"

// Sentinel kinds for rate table errors.
var (
	ErrRateOutOfRange = errors.New("rate outside predefined table")
)
