// Package parser decodes chart files from their on-disk formats into the
// generic chart model.
package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/okian/msdcalc/internal/domain/chart"
	"github.com/okian/msdcalc/pkg/metrics"
)

// Format names a supported chart file format.
type Format string

// Supported formats.
const (
	FormatOsu Format = "osu"
	FormatSM  Format = "sm"
	FormatRox Format = "rox"
)

// Parser decodes one chart file format.
type Parser interface {
	Parse(path string) (*chart.Chart, error)
}

// ForPath picks the parser for a file based on its extension.
func ForPath(path string) (Parser, Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".osu":
		return &OsuParser{}, FormatOsu, nil
	case ".sm":
		return &SMParser{}, FormatSM, nil
	case ".rox":
		return &RoxParser{}, FormatRox, nil
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// ParseFile auto-detects the format and decodes the chart.
func ParseFile(path string) (*chart.Chart, error) {
	p, format, err := ForPath(path)
	if err != nil {
		return nil, err
	}
	c, err := p.Parse(path)
	if err != nil {
		metrics.RecordParseError(string(format))
		return nil, err
	}
	metrics.RecordChartParsed(string(format))
	return c, nil
}
