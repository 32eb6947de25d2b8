package parser

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/okian/msdcalc/internal/domain/chart"
)

// osu! playfield width; lane centers are derived from it.
const osuFieldWidth = 512

// osu! hit object type bits. Mania charts only carry circles and holds.
const (
	osuTypeCircle = 1 << 0
	osuTypeHold   = 1 << 7
)

const osuModeMania = 3

// OsuParser decodes osu!mania beatmaps (.osu).
type OsuParser struct{}

// Parse reads and decodes a .osu file.
func (p *OsuParser) Parse(path string) (*chart.Chart, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeFailed, path, err)
	}
	defer f.Close()

	c := &chart.Chart{Precision: chart.PrecisionMilliseconds}

	var section string
	mode := -1

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.Trim(line, "[]")
			continue
		}

		switch section {
		case "General":
			if key, val, ok := splitKV(line); ok && key == "Mode" {
				m, err := strconv.Atoi(val)
				if err != nil {
					return nil, fmt.Errorf("%w: bad Mode %q", ErrDecodeFailed, val)
				}
				mode = m
			}
		case "Metadata":
			if key, val, ok := splitKV(line); ok && key == "Title" {
				c.Title = val
			}
		case "Difficulty":
			if key, val, ok := splitKV(line); ok && key == "CircleSize" {
				cs, err := strconv.ParseFloat(val, 64)
				if err != nil {
					return nil, fmt.Errorf("%w: bad CircleSize %q", ErrDecodeFailed, val)
				}
				c.KeyCount = int(cs)
			}
		case "HitObjects":
			ev, err := p.parseHitObject(line, c.KeyCount)
			if err != nil {
				return nil, err
			}
			c.Events = append(c.Events, ev)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeFailed, path, err)
	}

	if mode == osuModeMania {
		c.Mode = chart.ModeMania
	} else {
		c.Mode = chart.ModeUnknown
	}
	return c, nil
}

// parseHitObject decodes one "x,y,time,type,..." line into a generic event.
func (p *OsuParser) parseHitObject(line string, keyCount int) (chart.Event, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 4 {
		return chart.Event{}, fmt.Errorf("%w: hit object %q", ErrDecodeFailed, line)
	}

	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return chart.Event{}, fmt.Errorf("%w: hit object x %q", ErrDecodeFailed, fields[0])
	}
	timeMS, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
	if err != nil {
		return chart.Event{}, fmt.Errorf("%w: hit object time %q", ErrDecodeFailed, fields[2])
	}
	kind, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if err != nil {
		return chart.Event{}, fmt.Errorf("%w: hit object type %q", ErrDecodeFailed, fields[3])
	}
	if kind&osuTypeCircle == 0 && kind&osuTypeHold == 0 {
		return chart.Event{}, fmt.Errorf("%w: type %d", ErrUnsupportedHitObjectKind, kind)
	}

	col, err := laneForPosition(x, keyCount)
	if err != nil {
		return chart.Event{}, err
	}
	return chart.Event{TimeUS: timeMS * 1000, Column: col}, nil
}

// laneForPosition resolves a mania x position against the fixed lane-center
// set for the key count. Any other position is an error rather than a guess.
func laneForPosition(x float64, keyCount int) (int, error) {
	if keyCount <= 0 {
		return 0, fmt.Errorf("%w: hit object before CircleSize", ErrDecodeFailed)
	}
	for i := 0; i < keyCount; i++ {
		center := float64((2*i + 1) * osuFieldWidth / (2 * keyCount))
		if x == center {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: x=%g for %d keys", ErrUnsupportedColumn, x, keyCount)
}

func splitKV(line string) (key, val string, ok bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), true
}
