package parser

import "errors"

// Sentinel kinds for chart decoding errors.
var (
	ErrUnknownFormat            = errors.New("unknown chart format")
	ErrDecodeFailed             = errors.New("failed to decode chart")
	ErrUnsupportedColumn        = errors.New("unsupported column position")
	ErrUnsupportedHitObjectKind = errors.New("unsupported hit object kind")
)
