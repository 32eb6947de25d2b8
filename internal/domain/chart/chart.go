// Package chart contains the generic parsed chart and its normalizer.
//
// Parsers for concrete file formats produce a Chart; Normalize turns it into
// the sorted, merged, validated note sequence the evaluator consumes.
package chart

// Mode identifies the game mode a chart was authored for.
type Mode int

// Supported game modes. Only lane-based mania charts can be evaluated.
const (
	ModeUnknown Mode = iota
	ModeMania
)

func (m Mode) String() string {
	switch m {
	case ModeMania:
		return "mania"
	default:
		return "unknown"
	}
}

// Precision is the timestamp resolution of the source format. It selects the
// quantization unit used as the merge key, so floating-point jitter cannot
// split simultaneous notes into separate rows.
type Precision int

const (
	// PrecisionMilliseconds quantizes merge keys to 1ms (e.g. osu! sources).
	PrecisionMilliseconds Precision = iota
	// PrecisionMicroseconds quantizes merge keys to 1us (e.g. sm/rox sources).
	PrecisionMicroseconds
)

// Event is one raw hit or hold start: a lane index and a start time in
// microseconds from chart start. Lane resolution against format-specific
// positions happens in the parser; here the lane is already an index.
type Event struct {
	TimeUS int64
	Column int
}

// Chart is the generic parsed chart handed to the normalizer. The normalizer
// reads it once and never retains it.
type Chart struct {
	Mode      Mode
	KeyCount  int
	Precision Precision
	Title     string
	Events    []Event
}

// supportedKeyCounts gates evaluation to the lane layouts the scoring engine
// understands.
var supportedKeyCounts = map[int]bool{4: true, 6: true, 7: true}

// SupportedKeyCount reports whether the engine can score charts with k lanes.
func SupportedKeyCount(k int) bool {
	return supportedKeyCounts[k]
}
