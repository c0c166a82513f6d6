package formats

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Passability format errors.
var (
	ErrEmptyPassability       = errors.New("empty passability table")
	ErrRaggedPassability      = errors.New("passability rows have differing lengths")
	ErrInvalidPassabilityCell = errors.New("invalid passability cell")
)

// PassabilityData is a parsed passability table.
// Blocked is row-major: index = row*Width + col (row = z, col = x).
type PassabilityData struct {
	Width   int
	Depth   int
	Blocked []bool
}

// IsBlocked returns whether (col, row) is blocked. The caller must bounds-check.
func (p *PassabilityData) IsBlocked(col, row int) bool {
	return p.Blocked[row*p.Width+col]
}

// ParsePassability parses a passability CSV from raw bytes.
// Cells are "1"/"true" for blocked and "0"/"false"/empty for open.
func ParsePassability(data []byte) (*PassabilityData, error) {
	return ReadPassability(bytes.NewReader(data))
}

// ReadPassability parses a passability CSV from r.
func ReadPassability(r io.Reader) (*PassabilityData, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	p := &PassabilityData{}
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading passability: %w", err)
		}

		if p.Width == 0 {
			p.Width = len(rec)
		} else if len(rec) != p.Width {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrRaggedPassability, row, len(rec), p.Width)
		}

		for col, cell := range rec {
			blocked, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("%w at row %d col %d: %q", ErrInvalidPassabilityCell, row, col, cell)
			}
			p.Blocked = append(p.Blocked, blocked)
		}
		p.Depth++
	}

	if p.Depth == 0 || p.Width == 0 {
		return nil, ErrEmptyPassability
	}
	return p, nil
}

func parseCell(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true":
		return true, nil
	case "0", "false", "":
		return false, nil
	default:
		return false, ErrInvalidPassabilityCell
	}
}

// ParsePassabilityFile reads and parses a passability CSV from disk.
func ParsePassabilityFile(path string) (*PassabilityData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading passability file: %w", err)
	}
	return ParsePassability(data)
}

// Encode writes the table as CSV using 1 for blocked and 0 for open.
func (p *PassabilityData) Encode(w io.Writer) error {
	cw := csv.NewWriter(w)
	rec := make([]string, p.Width)
	for row := 0; row < p.Depth; row++ {
		for col := 0; col < p.Width; col++ {
			rec[col] = "0"
			if p.IsBlocked(col, row) {
				rec[col] = "1"
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
