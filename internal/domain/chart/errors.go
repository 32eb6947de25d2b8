package chart

import "errors"

// Sentinel kinds for normalization errors.
var (
	ErrUnsupportedGameMode = errors.New("unsupported game mode")
	ErrUnsupportedKeyCount = errors.New("unsupported key count")
	ErrUnsupportedColumn   = errors.New("unsupported column")
	ErrInvalidRate         = errors.New("invalid rate")
	ErrNoNotes             = errors.New("no notes in chart")
)
