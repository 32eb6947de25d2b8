package note

import "errors"

// Sentinel kinds for note validation errors.
var (
	ErrNoNotes           = errors.New("no notes in sequence")
	ErrZeroColumns       = errors.New("zero column bitmask")
	ErrNegativeRowTime   = errors.New("negative row time")
	ErrDuplicateRowTime  = errors.New("row times not strictly ascending")
	ErrColumnsOutOfRange = errors.New("column bitmask out of range for key count")
)
