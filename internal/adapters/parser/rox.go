package parser

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/okian/msdcalc/internal/domain/chart"
)

// Binary chart exchange format:
//
//	magic "ROX1" | u8 version | u8 mode | u8 keyCount | u8 reserved |
//	u32 noteCount | noteCount * (u64 timeUS | u8 column)
//
// All integers little-endian. Timestamps are microseconds from chart start.
var roxMagic = [4]byte{'R', 'O', 'X', '1'}

const (
	roxVersion   = 1
	roxModeMania = 1
)

// RoxParser decodes binary exchange charts (.rox).
type RoxParser struct{}

// Parse reads and decodes a .rox file.
func (p *RoxParser) Parse(path string) (*chart.Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeFailed, path, err)
	}
	c, err := DecodeRox(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeFailed, path, err)
	}
	return c, nil
}

// DecodeRox decodes the binary chart format from r.
func DecodeRox(r io.Reader) (*chart.Chart, error) {
	var header struct {
		Magic     [4]byte
		Version   uint8
		Mode      uint8
		KeyCount  uint8
		Reserved  uint8
		NoteCount uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if header.Magic != roxMagic {
		return nil, fmt.Errorf("bad magic %q", header.Magic)
	}
	if header.Version != roxVersion {
		return nil, fmt.Errorf("unsupported version %d", header.Version)
	}

	mode := chart.ModeUnknown
	if header.Mode == roxModeMania {
		mode = chart.ModeMania
	}

	events := make([]chart.Event, 0, header.NoteCount)
	for i := uint32(0); i < header.NoteCount; i++ {
		var rec struct {
			TimeUS uint64
			Column uint8
		}
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("reading note %d: %w", i, err)
		}
		events = append(events, chart.Event{
			TimeUS: int64(rec.TimeUS),
			Column: int(rec.Column),
		})
	}

	return &chart.Chart{
		Mode:      mode,
		KeyCount:  int(header.KeyCount),
		Precision: chart.PrecisionMicroseconds,
		Events:    events,
	}, nil
}

// EncodeRox writes the chart in the binary exchange format.
func EncodeRox(w io.Writer, c *chart.Chart) error {
	mode := uint8(0)
	if c.Mode == chart.ModeMania {
		mode = roxModeMania
	}
	header := struct {
		Magic     [4]byte
		Version   uint8
		Mode      uint8
		KeyCount  uint8
		Reserved  uint8
		NoteCount uint32
	}{
		Magic:     roxMagic,
		Version:   roxVersion,
		Mode:      mode,
		KeyCount:  uint8(c.KeyCount),
		NoteCount: uint32(len(c.Events)),
	}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, ev := range c.Events {
		rec := struct {
			TimeUS uint64
			Column uint8
		}{TimeUS: uint64(ev.TimeUS), Column: uint8(ev.Column)}
		if err := binary.Write(w, binary.LittleEndian, rec); err != nil {
			return fmt.Errorf("writing note %d: %w", i, err)
		}
	}
	return nil
}
