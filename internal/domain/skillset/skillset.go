// Package skillset contains difficulty scores across the named skill axes.
package skillset

import (
	"fmt"
	"sort"
)

// Score bounds; anything outside signals an engine fault, not a hard chart.
const (
	minScore = 0.0
	maxScore = 1000.0
)

// Scores holds the overall rating plus the seven skill axes.
type Scores struct {
	Overall    float64 `json:"overall"`
	Stream     float64 `json:"stream"`
	Jumpstream float64 `json:"jumpstream"`
	Handstream float64 `json:"handstream"`
	Stamina    float64 `json:"stamina"`
	Jackspeed  float64 `json:"jackspeed"`
	Chordjack  float64 `json:"chordjack"`
	Technical  float64 `json:"technical"`
}

// Names lists the non-overall skillsets in canonical order. Ties in
// Dominant and TopPatterns resolve to the earlier name in this order.
var Names = []string{
	"stream",
	"jumpstream",
	"handstream",
	"stamina",
	"jackspeed",
	"chordjack",
	"technical",
}

// Chordstream is the 6K/7K name for the jumpstream axis.
func (s Scores) Chordstream() float64 { return s.Jumpstream }

// Bracketing is the 6K/7K name for the handstream axis.
func (s Scores) Bracketing() float64 { return s.Handstream }

// values returns the non-overall fields in canonical order.
func (s Scores) values() [7]float64 {
	return [7]float64{
		s.Stream,
		s.Jumpstream,
		s.Handstream,
		s.Stamina,
		s.Jackspeed,
		s.Chordjack,
		s.Technical,
	}
}

// Validate checks every field against the sane score band. Out-of-band
// values are surfaced, never clamped; clamping would hide an engine defect.
func (s Scores) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"overall", s.Overall},
		{"stream", s.Stream},
		{"jumpstream", s.Jumpstream},
		{"handstream", s.Handstream},
		{"stamina", s.Stamina},
		{"jackspeed", s.Jackspeed},
		{"chordjack", s.Chordjack},
		{"technical", s.Technical},
	}
	for _, f := range fields {
		if f.value < minScore || f.value > maxScore {
			return fmt.Errorf("%w: %s = %f", ErrScoreOutOfBounds, f.name, f.value)
		}
	}
	return nil
}

// Dominant returns the name of the highest non-overall skillset.
// Equal values resolve to the first name in canonical order.
func Dominant(s Scores) string {
	vals := s.values()
	best := 0
	for i := 1; i < len(vals); i++ {
		if vals[i] > vals[best] {
			best = i
		}
	}
	return Names[best]
}

// TopPatterns returns the non-overall skillset names sorted by score,
// highest first, truncated to n. Equal scores keep canonical order.
// An n larger than the seven axes returns all seven without padding.
func TopPatterns(s Scores, n int) []string {
	vals := s.values()
	order := []int{0, 1, 2, 3, 4, 5, 6}
	sort.SliceStable(order, func(a, b int) bool {
		return vals[order[a]] > vals[order[b]]
	})

	if n < 0 {
		n = 0
	}
	if n > len(order) {
		n = len(order)
	}
	out := make([]string, 0, n)
	for _, idx := range order[:n] {
		out = append(out, Names[idx])
	}
	return out
}
