package terrain

import (
	"fmt"

	"github.com/Faultbox/woodland/pkg/formats"
)

// PassabilityGrid is a row-major grid of blocked flags at 1/PassabilityDivisor
// the linear resolution of the HeightField it accompanies.
type PassabilityGrid struct {
	Width   int
	Depth   int
	Mapping GridMapping

	blocked []bool
}

// NewPassabilityGrid wraps flags (row-major, len width*depth).
func NewPassabilityGrid(width, depth int, blocked []bool, mapping GridMapping) (*PassabilityGrid, error) {
	if width <= 0 || depth <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, depth)
	}
	if len(blocked) != width*depth {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrSampleCount, len(blocked), width*depth)
	}
	return &PassabilityGrid{Width: width, Depth: depth, Mapping: mapping, blocked: blocked}, nil
}

// PassabilityFromData builds a grid from a parsed passability table.
func PassabilityFromData(data *formats.PassabilityData, mapping GridMapping) (*PassabilityGrid, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: no data", ErrInvalidDimensions)
	}
	return NewPassabilityGrid(data.Width, data.Depth, data.Blocked, mapping)
}

// OpenGrid returns a grid with every cell open.
func OpenGrid(width, depth int, mapping GridMapping) (*PassabilityGrid, error) {
	return NewPassabilityGrid(width, depth, make([]bool, width*depth), mapping)
}

// InBounds reports whether (col, row) addresses a cell.
func (p *PassabilityGrid) InBounds(col, row int) bool {
	return col >= 0 && row >= 0 && col < p.Width && row < p.Depth
}

// Cell returns the cell containing world (x, z). The result may be out of bounds.
func (p *PassabilityGrid) Cell(x, z float32) (col, row int) {
	return p.Mapping.PassIndex(x), p.Mapping.PassIndex(z)
}

// BlockedAt returns the flag at (col, row). Cells outside the grid are blocked.
func (p *PassabilityGrid) BlockedAt(col, row int) bool {
	if !p.InBounds(col, row) {
		return true
	}
	return p.blocked[row*p.Width+col]
}

// SetBlocked sets the flag at (col, row). Out-of-bounds writes are ignored.
func (p *PassabilityGrid) SetBlocked(col, row int, blocked bool) {
	if p.InBounds(col, row) {
		p.blocked[row*p.Width+col] = blocked
	}
}

// IsBlocked reports whether world (x, z) falls in a blocked or out-of-grid cell.
func (p *PassabilityGrid) IsBlocked(x, z float32) bool {
	col, row := p.Cell(x, z)
	return p.BlockedAt(col, row)
}

// CarvePath opens a three-cell-wide corridor centered on col across rows and
// raises barrier cells one column further out on each side. Repeated calls at
// the same location leave the grid unchanged.
func (p *PassabilityGrid) CarvePath(col int, rows Span) {
	for row := rows.Min; row <= rows.Max; row++ {
		for c := col - 1; c <= col+1; c++ {
			p.SetBlocked(c, row, false)
		}
		p.SetBlocked(col-2, row, true)
		p.SetBlocked(col+2, row, true)
	}
}

// CountBlocked returns the number of blocked cells.
func (p *PassabilityGrid) CountBlocked() int {
	n := 0
	for _, b := range p.blocked {
		if b {
			n++
		}
	}
	return n
}

// Data returns the grid in file form, sharing the flag slice.
func (p *PassabilityGrid) Data() *formats.PassabilityData {
	return &formats.PassabilityData{Width: p.Width, Depth: p.Depth, Blocked: p.blocked}
}
