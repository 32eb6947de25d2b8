package parser

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/okian/msdcalc/internal/domain/chart"
)

// StepMania chart types mapped to their lane counts. Types outside this map
// are skipped; only 4/6/7 lane layouts can be evaluated downstream.
var smKeyCounts = map[string]int{
	"dance-single": 4,
	"dance-solo":   6,
	"kb7-single":   7,
}

// Note characters that start a row: tap, hold head, roll head.
func smIsNoteChar(ch byte) bool {
	return ch == '1' || ch == '2' || ch == '4'
}

// bpmSegment is one tempo region starting at a beat.
type bpmSegment struct {
	startBeat float64
	bpm       float64
}

// SMParser decodes StepMania simfiles (.sm).
type SMParser struct{}

// Parse reads and decodes a .sm file. The first difficulty with a supported
// chart type is used.
func (p *SMParser) Parse(path string) (*chart.Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeFailed, path, err)
	}
	str := strings.ReplaceAll(string(data), "\r", "")

	sections := strings.Split(str, "#NOTES:")
	meta := sections[0]

	title, offset, bpms, err := p.parseMeta(meta)
	if err != nil {
		return nil, err
	}
	if len(bpms) == 0 {
		return nil, fmt.Errorf("%w: no #BPMS in %s", ErrDecodeFailed, path)
	}

	for _, section := range sections[1:] {
		lines := strings.SplitN(section, "\n", 7)
		if len(lines) < 7 {
			continue
		}
		chartType := strings.TrimSuffix(strings.TrimSpace(lines[1]), ":")
		keyCount, ok := smKeyCounts[chartType]
		if !ok {
			continue
		}

		events, err := p.parseMeasures(lines[6], keyCount, offset, bpms)
		if err != nil {
			return nil, err
		}
		return &chart.Chart{
			Mode:      chart.ModeMania,
			KeyCount:  keyCount,
			Precision: chart.PrecisionMicroseconds,
			Title:     title,
			Events:    events,
		}, nil
	}
	return nil, fmt.Errorf("%w: no supported chart type in %s", ErrDecodeFailed, path)
}

// parseMeta extracts #TITLE, #OFFSET and #BPMS from the header block.
func (p *SMParser) parseMeta(meta string) (title string, offset float64, bpms []bpmSegment, err error) {
	for _, field := range strings.Split(meta, "\n#") {
		field = strings.TrimSpace(field)
		switch {
		case strings.HasPrefix(field, "TITLE:"):
			title = strings.TrimSuffix(strings.TrimPrefix(field, "TITLE:"), ";")
		case strings.HasPrefix(field, "OFFSET:"):
			raw := strings.TrimSuffix(strings.TrimPrefix(field, "OFFSET:"), ";")
			offset, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				return "", 0, nil, fmt.Errorf("%w: bad #OFFSET %q", ErrDecodeFailed, raw)
			}
		case strings.HasPrefix(field, "BPMS:"):
			raw := strings.TrimPrefix(field, "BPMS:")
			raw = strings.ReplaceAll(raw, "\n", "")
			raw = strings.TrimSuffix(raw, ";")
			for _, pair := range strings.Split(raw, ",") {
				parts := strings.Split(pair, "=")
				if len(parts) != 2 {
					return "", 0, nil, fmt.Errorf("%w: bad #BPMS entry %q", ErrDecodeFailed, pair)
				}
				beat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
				if err != nil {
					return "", 0, nil, fmt.Errorf("%w: bad #BPMS beat %q", ErrDecodeFailed, parts[0])
				}
				bpm, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
				if err != nil || bpm <= 0 {
					return "", 0, nil, fmt.Errorf("%w: bad #BPMS value %q", ErrDecodeFailed, parts[1])
				}
				bpms = append(bpms, bpmSegment{startBeat: beat, bpm: bpm})
			}
		}
	}
	return title, offset, bpms, nil
}

// parseMeasures walks the note section. Every measure holds 4 beats split
// evenly across its rows.
func (p *SMParser) parseMeasures(section string, keyCount int, offset float64, bpms []bpmSegment) ([]chart.Event, error) {
	section = strings.TrimSuffix(strings.TrimSpace(section), ";")

	var events []chart.Event
	for measureIdx, block := range strings.Split(section, ",") {
		var rows []string
		for _, l := range strings.Split(block, "\n") {
			l = strings.TrimSpace(l)
			if l == "" || strings.HasPrefix(l, "//") {
				continue
			}
			rows = append(rows, l)
		}
		if len(rows) == 0 {
			continue
		}

		beatsPerRow := 4.0 / float64(len(rows))
		for rowIdx, row := range rows {
			if len(row) < keyCount {
				return nil, fmt.Errorf("%w: measure %d row %q has %d lanes, want %d", ErrDecodeFailed, measureIdx, row, len(row), keyCount)
			}
			beat := float64(measureIdx)*4.0 + float64(rowIdx)*beatsPerRow
			seconds := beatToSeconds(bpms, beat) - offset
			for lane := 0; lane < keyCount; lane++ {
				if smIsNoteChar(row[lane]) {
					events = append(events, chart.Event{
						TimeUS: int64(math.Round(seconds * 1_000_000)),
						Column: lane,
					})
				}
			}
		}
	}
	return events, nil
}

// beatToSeconds integrates the tempo segments up to the given beat.
func beatToSeconds(bpms []bpmSegment, beat float64) float64 {
	seconds := 0.0
	for i, seg := range bpms {
		if seg.startBeat >= beat {
			break
		}
		end := beat
		if i+1 < len(bpms) && bpms[i+1].startBeat < beat {
			end = bpms[i+1].startBeat
		}
		seconds += (end - seg.startBeat) * 60.0 / seg.bpm
	}
	return seconds
}
