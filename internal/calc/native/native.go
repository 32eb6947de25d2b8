// Package native implements the calc capability with a deterministic
// in-process engine.
//
// It stands in for the external native scorer the same way an in-memory
// scorer stands in for a remote ML service: the call contract, parameter
// gates and result bounds are real, the internal math is a density and
// chord-profile heuristic rather than the production algorithm.
package native

import (
	"context"
	"math"
	"math/bits"
	"sync"

	"github.com/okian/msdcalc/internal/calc"
	"github.com/okian/msdcalc/internal/domain/note"
	"github.com/okian/msdcalc/internal/domain/rates"
	"github.com/okian/msdcalc/internal/domain/skillset"
)

// Engine tuning constants.
const (
	engineVersion = 505

	// referenceGoal is the score goal at which single-rate output matches
	// the all-rates table.
	referenceGoal = 93.0

	// scratchSize is the working buffer a handle allocates up front.
	// Construction cost dominating per-call cost is what makes pooling pay.
	scratchSize = 1 << 16

	// jackWindow is the max gap in seconds for a repeated lane to count as
	// a jack.
	jackWindow = 0.25

	minDuration = 0.1
)

// Engine constructs native handles.
type Engine struct{}

// New creates the native engine.
func New() *Engine {
	return &Engine{}
}

// Version reports the engine version.
func (e *Engine) Version() int { return engineVersion }

// Construct builds a fresh handle with its own scratch space.
func (e *Engine) Construct(ctx context.Context) (calc.Handle, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return &Handle{scratch: make([]float64, scratchSize)}, nil
}

// Handle is one native engine instance. It is safe to move between
// goroutines but must not be used by two callers at once.
type Handle struct {
	mu      sync.Mutex
	scratch []float64
	closed  bool
}

// Valid reports whether the handle can still evaluate.
func (h *Handle) Valid() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.closed && h.scratch != nil
}

// Close releases the handle's resources. Only the first call takes effect.
func (h *Handle) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	h.scratch = nil
}

// EvaluateAllRates scores the notes at every predefined rate.
func (h *Handle) EvaluateAllRates(ctx context.Context, notes []note.Note, keyCount int) (rates.AllRates, error) {
	var out rates.AllRates
	if !h.Valid() {
		return out, calc.ErrHandleClosed
	}
	if err := calc.CheckNotes(notes, keyCount); err != nil {
		return out, err
	}
	select {
	case <-ctx.Done():
		return out, ctx.Err()
	default:
	}

	for i, r := range rates.Values() {
		out.MSDs[i] = h.score(notes, keyCount, r)
	}
	if err := out.Validate(); err != nil {
		return rates.AllRates{}, err
	}
	return out, nil
}

// EvaluateSingle scores the notes at one music rate and score goal.
func (h *Handle) EvaluateSingle(ctx context.Context, notes []note.Note, keyCount int, musicRate, scoreGoal float64) (skillset.Scores, error) {
	if !h.Valid() {
		return skillset.Scores{}, calc.ErrHandleClosed
	}
	if err := calc.CheckSingleParams(musicRate, scoreGoal); err != nil {
		return skillset.Scores{}, err
	}
	if err := calc.CheckNotes(notes, keyCount); err != nil {
		return skillset.Scores{}, err
	}
	select {
	case <-ctx.Done():
		return skillset.Scores{}, ctx.Err()
	default:
	}

	s := h.score(notes, keyCount, musicRate)

	// A lower goal asks for a lower accuracy target, which rates easier.
	factor := scoreGoal / referenceGoal
	s = scale(s, factor)

	if err := s.Validate(); err != nil {
		return skillset.Scores{}, err
	}
	return s, nil
}

// score rates the notes as played at the given music rate. Deterministic by
// construction: same notes, same rate, same output.
func (h *Handle) score(notes []note.Note, keyCount int, rate float64) skillset.Scores {
	n := len(notes)
	duration := (notes[n-1].RowTime - notes[0].RowTime) / rate
	if duration < minDuration {
		duration = minDuration
	}
	nps := float64(n) / duration
	base := 7.5 * math.Pow(nps, 0.6)

	var singles, jumps, hands, quads int
	var jacks, chordJacks int
	var gapSum, gapSqSum float64

	prevMask := uint32(0)
	prevTime := 0.0
	for i, nt := range notes {
		switch c := bits.OnesCount32(nt.Columns); {
		case c == 1:
			singles++
		case c == 2:
			jumps++
		case c == 3:
			hands++
		default:
			quads++
		}
		if i > 0 {
			gap := (nt.RowTime - prevTime) / rate
			gapSum += gap
			gapSqSum += gap * gap
			if nt.Columns&prevMask != 0 && gap < jackWindow {
				jacks++
				if bits.OnesCount32(nt.Columns) >= 2 {
					chordJacks++
				}
			}
		}
		prevMask = nt.Columns
		prevTime = nt.RowTime
	}

	total := float64(n)
	singleFrac := float64(singles) / total
	jumpFrac := float64(jumps) / total
	handFrac := float64(hands+quads) / total
	jackFrac := float64(jacks) / total
	chordJackFrac := float64(chordJacks) / total

	// Gap variance stands in for timing irregularity.
	variance := 0.0
	if n > 1 {
		mean := gapSum / float64(n-1)
		variance = gapSqSum/float64(n-1) - mean*mean
		if variance < 0 {
			variance = 0
		}
	}
	irregularity := math.Min(1.0, math.Sqrt(variance)*nps)

	// Wider layouts spread the same density across more lanes.
	laneSpread := math.Sqrt(4.0 / float64(keyCount))

	s := skillset.Scores{
		Stream:     base * laneSpread * (0.70 + 0.45*singleFrac),
		Jumpstream: base * laneSpread * (0.60 + 0.55*jumpFrac),
		Handstream: base * laneSpread * (0.55 + 0.60*handFrac),
		Stamina:    base * (0.65 + 0.35*math.Min(1.0, duration/300.0)),
		Jackspeed:  base * (0.50 + 0.80*jackFrac),
		Chordjack:  base * (0.50 + 0.90*chordJackFrac),
		Technical:  base * (0.60 + 0.40*irregularity),
	}
	s.Overall = maxAxis(s)
	return s
}

func maxAxis(s skillset.Scores) float64 {
	m := s.Stream
	for _, v := range []float64{s.Jumpstream, s.Handstream, s.Stamina, s.Jackspeed, s.Chordjack, s.Technical} {
		if v > m {
			m = v
		}
	}
	return m
}

func scale(s skillset.Scores, factor float64) skillset.Scores {
	return skillset.Scores{
		Overall:    s.Overall * factor,
		Stream:     s.Stream * factor,
		Jumpstream: s.Jumpstream * factor,
		Handstream: s.Handstream * factor,
		Stamina:    s.Stamina * factor,
		Jackspeed:  s.Jackspeed * factor,
		Chordjack:  s.Chordjack * factor,
		Technical:  s.Technical * factor,
	}
}
