// Package calc defines the capability boundary to the difficulty engine.
//
// The engine itself is opaque: it may live in-process, in a subprocess, or
// behind a network hop. Everything above this package talks to it through
// Engine and Handle only.
package calc

import (
	"context"
	"fmt"

	"github.com/okian/msdcalc/internal/domain/note"
	"github.com/okian/msdcalc/internal/domain/rates"
	"github.com/okian/msdcalc/internal/domain/skillset"
)

// Handle is one constructed engine instance. Construction is expensive
// relative to a single evaluation, which is why handles are pooled. A handle
// is owned by exactly one caller at a time and is never shared; Close is
// idempotent and releases the instance for good.
type Handle interface {
	// EvaluateAllRates scores the notes at every predefined rate.
	EvaluateAllRates(ctx context.Context, notes []note.Note, keyCount int) (rates.AllRates, error)

	// EvaluateSingle scores the notes at one music rate and score goal.
	EvaluateSingle(ctx context.Context, notes []note.Note, keyCount int, musicRate, scoreGoal float64) (skillset.Scores, error)

	// Valid reports whether the handle can still be used. Invalid handles
	// must never be reused.
	Valid() bool

	// Close destroys the underlying instance. At most once takes effect.
	Close()
}

// Engine constructs handles and reports the engine version.
type Engine interface {
	Construct(ctx context.Context) (Handle, error)
	Version() int
}

// CheckNotes validates the note sequence and key count before any engine
// call is made.
func CheckNotes(notes []note.Note, keyCount int) error {
	if keyCount != 4 && keyCount != 6 && keyCount != 7 {
		return fmt.Errorf("%w: %d (only 4, 6, 7 supported)", ErrUnsupportedKeyCount, keyCount)
	}
	if len(notes) == 0 {
		return ErrNoNotesProvided
	}
	return note.ValidateSequence(notes, keyCount)
}

// CheckSingleParams validates the single-rate evaluation parameters.
func CheckSingleParams(musicRate, scoreGoal float64) error {
	if musicRate <= 0 {
		return fmt.Errorf("%w: %g (must be positive)", ErrInvalidMusicRate, musicRate)
	}
	if scoreGoal <= 0 || scoreGoal > 100 {
		return fmt.Errorf("%w: %g (must be in (0, 100])", ErrInvalidScoreGoal, scoreGoal)
	}
	return nil
}
