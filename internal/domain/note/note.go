// Package note contains the canonical note row passed to the evaluator.
package note

import "fmt"

// Note is one row of simultaneous active lanes at a single point in time.
// Columns is a lane bitmask (bit i set = lane i active); RowTime is seconds
// from chart start. Notes are immutable once built by the normalizer.
type Note struct {
	Columns uint32
	RowTime float64
}

// Validate checks the single-note invariants.
func (n Note) Validate() error {
	if n.Columns == 0 {
		return fmt.Errorf("%w: note has no active lanes", ErrZeroColumns)
	}
	if n.RowTime < 0 {
		return fmt.Errorf("%w: row time %f", ErrNegativeRowTime, n.RowTime)
	}
	return nil
}

// ValidateSequence checks a full note sequence as consumed by the evaluator:
// non-empty, every note valid, masks within the key count, and row times
// strictly ascending. Same-time rows must have been merged before this point.
func ValidateSequence(notes []Note, keyCount int) error {
	if len(notes) == 0 {
		return ErrNoNotes
	}
	limit := uint32(1) << uint(keyCount)
	for i, n := range notes {
		if err := n.Validate(); err != nil {
			return fmt.Errorf("note %d: %w", i, err)
		}
		if n.Columns >= limit {
			return fmt.Errorf("%w: note %d mask %#b exceeds %d lanes", ErrColumnsOutOfRange, i, n.Columns, keyCount)
		}
		if i > 0 && notes[i-1].RowTime >= n.RowTime {
			return fmt.Errorf("%w: notes %d and %d at %f", ErrDuplicateRowTime, i-1, i, n.RowTime)
		}
	}
	return nil
}
