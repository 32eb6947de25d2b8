package skillset

import "errors"

// Sentinel kinds for score validation errors.
var (
	ErrScoreOutOfBounds = errors.New("skillset score out of bounds")
)
