package service

import (
	"math"

	"github.com/okian/msdcalc/internal/domain/rates"
	"github.com/okian/msdcalc/internal/domain/skillset"
)

// ScoresOut is the JSON shape of one skillset score set. Values are
// rounded to two decimals for display; the underlying scores keep full
// precision.
type ScoresOut struct {
	Overall    float64 `json:"overall"`
	Stream     float64 `json:"stream"`
	Jumpstream float64 `json:"jumpstream"`
	Handstream float64 `json:"handstream"`
	Stamina    float64 `json:"stamina"`
	Jackspeed  float64 `json:"jackspeed"`
	Chordjack  float64 `json:"chordjack"`
	Technical  float64 `json:"technical"`
}

// RateEntry pairs a playback rate with its scores.
type RateEntry struct {
	Rate   float64   `json:"rate"`
	Scores ScoresOut `json:"scores"`
}

// Report is the full multi-rate evaluation output.
type Report struct {
	BeatmapPath      string      `json:"beatmap_path"`
	EngineVersion    int         `json:"engine_version"`
	Rates            []RateEntry `json:"rates"`
	DominantSkillset string      `json:"dominant_skillset"`
	Difficulty1x     float64     `json:"difficulty_1x"`
}

// SingleRateReport is the output for one arbitrary rate.
type SingleRateReport struct {
	BeatmapPath      string    `json:"beatmap_path"`
	EngineVersion    int       `json:"engine_version"`
	Rate             float64   `json:"rate"`
	Scores           ScoresOut `json:"scores"`
	DominantSkillset string    `json:"dominant_skillset"`
}

func buildReport(path string, version int, all rates.AllRates) *Report {
	entries := make([]RateEntry, 0, rates.Count)
	for i, r := range rates.Values() {
		entries = append(entries, RateEntry{Rate: r, Scores: toScoresOut(all.MSDs[i])})
	}
	identity := all.MSDs[rates.IdentityIndex]
	return &Report{
		BeatmapPath:      path,
		EngineVersion:    version,
		Rates:            entries,
		DominantSkillset: skillset.Dominant(identity),
		Difficulty1x:     round2(identity.Overall),
	}
}

func buildSingleRateReport(path string, version int, rate float64, scores skillset.Scores) *SingleRateReport {
	return &SingleRateReport{
		BeatmapPath:      path,
		EngineVersion:    version,
		Rate:             rate,
		Scores:           toScoresOut(scores),
		DominantSkillset: skillset.Dominant(scores),
	}
}

func toScoresOut(s skillset.Scores) ScoresOut {
	return ScoresOut{
		Overall:    round2(s.Overall),
		Stream:     round2(s.Stream),
		Jumpstream: round2(s.Jumpstream),
		Handstream: round2(s.Handstream),
		Stamina:    round2(s.Stamina),
		Jackspeed:  round2(s.Jackspeed),
		Chordjack:  round2(s.Chordjack),
		Technical:  round2(s.Technical),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
