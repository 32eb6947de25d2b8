package chart

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/msdcalc/internal/domain/note"
)

const microsPerSecond = 1_000_000.0

// Normalize converts a parsed chart into the canonical note sequence:
// mode/key-count gate, lane bitmask mapping, optional rate scaling,
// quantized merge of simultaneous events, sort, and invariant validation.
//
// A rate above 1 divides every timestamp, compressing the chart as if the
// song played faster; the evaluator then sees the harder timing directly.
func Normalize(c *Chart, opts ...Option) ([]note.Note, error) {
	cfg := normalizeConfig{rate: 1.0}
	for _, opt := range opts {
		opt(&cfg)
	}

	// Fail fast before touching any event. This is a sanity gate for
	// untrusted chart files, not an optimization.
	if c.Mode != ModeMania {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGameMode, c.Mode)
	}
	if !SupportedKeyCount(c.KeyCount) {
		return nil, fmt.Errorf("%w: %d (only 4, 6, 7 supported)", ErrUnsupportedKeyCount, c.KeyCount)
	}
	if cfg.rate <= 0 {
		return nil, fmt.Errorf("%w: %g (must be positive)", ErrInvalidRate, cfg.rate)
	}

	// Merge key resolution follows the source precision so that rows the
	// source considers simultaneous stay simultaneous after the float math.
	unitsPerSecond := 1000.0
	if c.Precision == PrecisionMicroseconds {
		unitsPerSecond = microsPerSecond
	}

	merged := make(map[int64]uint32, len(c.Events))
	for i, ev := range c.Events {
		if ev.Column < 0 || ev.Column >= c.KeyCount {
			return nil, fmt.Errorf("%w: event %d lane %d of %d", ErrUnsupportedColumn, i, ev.Column, c.KeyCount)
		}
		mask := uint32(1) << uint(ev.Column)

		seconds := float64(ev.TimeUS) / microsPerSecond / cfg.rate
		key := int64(math.Round(seconds * unitsPerSecond))

		// Jumps, hands and quads become one row via bitwise OR.
		merged[key] |= mask
	}

	if len(merged) == 0 {
		return nil, ErrNoNotes
	}

	notes := make([]note.Note, 0, len(merged))
	for key, mask := range merged {
		notes = append(notes, note.Note{
			Columns: mask,
			RowTime: float64(key) / unitsPerSecond,
		})
	}
	sort.Slice(notes, func(a, b int) bool {
		return notes[a].RowTime < notes[b].RowTime
	})

	if err := note.ValidateSequence(notes, c.KeyCount); err != nil {
		return nil, err
	}
	return notes, nil
}
