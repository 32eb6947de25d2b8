// Package rates holds the predefined music-rate table and rate-indexed scores.
package rates

import (
	"fmt"
	"math"

	"github.com/okian/msdcalc/internal/domain/skillset"
)

// Count is the number of predefined rates.
const Count = 14

// Tolerance for matching a caller-supplied rate against the table.
// Tight on purpose: anything finer than the 0.1 grid must take the
// scaled-evaluation path instead of a table slot.
const matchTolerance = 0.0005

// table lists the predefined rates, index i = 0.7 + i*0.1.
var table = [Count]float64{0.7, 0.8, 0.9, 1.0, 1.1, 1.2, 1.3, 1.4, 1.5, 1.6, 1.7, 1.8, 1.9, 2.0}

// IdentityIndex is the slot of the 1.0x rate.
const IdentityIndex = 3

// Values returns a copy of the predefined rates.
func Values() []float64 {
	out := make([]float64, Count)
	copy(out, table[:])
	return out
}

// Index maps a rate in [0.7, 2.0] to its table slot. The arithmetic can land
// outside [0, Count-1] on boundary floating-point noise, so the result is
// range-checked rather than trusted.
func Index(rate float64) (int, error) {
	if rate < table[0] || rate > table[Count-1] {
		return 0, fmt.Errorf("%w: %g not in [%g, %g]", ErrRateOutOfRange, rate, table[0], table[Count-1])
	}
	i := int(math.Round((rate - table[0]) * 10))
	if i < 0 || i >= Count {
		return 0, fmt.Errorf("%w: %g maps to slot %d", ErrRateOutOfRange, rate, i)
	}
	return i, nil
}

// IndexWithTolerance reports the table slot whose rate is within the match
// tolerance of rate, or false when no slot matches and the caller must fall
// back to scaled evaluation.
func IndexWithTolerance(rate float64) (int, bool) {
	for i, r := range table {
		if math.Abs(r-rate) < matchTolerance {
			return i, true
		}
	}
	return 0, false
}

// AllRates is the evaluator output across every predefined rate.
type AllRates struct {
	MSDs [Count]skillset.Scores
}

// Validate checks every entry against the skillset score bounds.
func (a *AllRates) Validate() error {
	for i, s := range a.MSDs {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("rate %.1f: %w", table[i], err)
		}
	}
	return nil
}

// At returns the scores for a predefined rate.
func (a *AllRates) At(rate float64) (skillset.Scores, error) {
	i, err := Index(rate)
	if err != nil {
		return skillset.Scores{}, err
	}
	return a.MSDs[i], nil
}

// Formatter renders a rate value as a map key.
type Formatter func(rate float64) string

// Keyed projects the table into a map keyed by formatted rate. A nil
// formatter renders one decimal place. The receiver is not mutated.
func (a *AllRates) Keyed(format Formatter) map[string]skillset.Scores {
	if format == nil {
		format = func(rate float64) string { return fmt.Sprintf("%.1f", rate) }
	}
	out := make(map[string]skillset.Scores, Count)
	for i, s := range a.MSDs {
		out[format(table[i])] = s
	}
	return out
}
