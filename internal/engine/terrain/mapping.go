// Package terrain provides the walkable-world grids: elevation samples and
// passability cells, both addressed through one shared GridMapping.
package terrain

import (
	"github.com/Faultbox/woodland/pkg/math"
)

// GridMapping converts world x/z coordinates to grid indices.
// HeightField and PassabilityGrid must share one mapping, otherwise height
// sampling and obstacle lookups disagree about where cells are.
type GridMapping struct {
	Offset             float32 // Added to world x/z so authored coordinates are non-negative
	CellScale          float32 // Heightfield cells per world unit
	HeightScale        float32 // Vertical scale applied to samples
	PassabilityDivisor int     // Heightfield cells per passability cell, per axis
}

// DefaultMapping returns the mapping the shipped world data was authored with.
func DefaultMapping() GridMapping {
	return GridMapping{
		Offset:             250,
		CellScale:          0.1,
		HeightScale:        25,
		PassabilityDivisor: 2,
	}
}

// Fractional returns the fractional heightfield coordinate of a world coordinate.
func (m GridMapping) Fractional(coord float32) float32 {
	return (coord + m.Offset) * m.CellScale
}

// HeightIndex returns the heightfield index containing a world coordinate.
func (m GridMapping) HeightIndex(coord float32) int {
	return math.Floor(m.Fractional(coord))
}

// PassIndex returns the passability index containing a world coordinate.
func (m GridMapping) PassIndex(coord float32) int {
	return floorDiv(m.HeightIndex(coord), m.divisor())
}

// World returns the world coordinate of a fractional heightfield index.
func (m GridMapping) World(index float32) float32 {
	return index/m.CellScale - m.Offset
}

// PassCellCenter returns the world coordinate at the center of a passability index.
func (m GridMapping) PassCellCenter(index int) float32 {
	d := float32(m.divisor())
	return m.World(float32(index)*d + d/2)
}

// PassDims returns the passability grid size matching a heightfield size.
func (m GridMapping) PassDims(width, depth int) (int, int) {
	d := m.divisor()
	return (width + d - 1) / d, (depth + d - 1) / d
}

// Span is an inclusive index range.
type Span struct {
	Min, Max int
}

// HeightRows returns the heightfield rows covering world z in [minZ, maxZ].
func (m GridMapping) HeightRows(minZ, maxZ float32) Span {
	return Span{Min: m.HeightIndex(minZ), Max: m.HeightIndex(maxZ)}
}

// PassRows returns the passability rows covering world z in [minZ, maxZ].
func (m GridMapping) PassRows(minZ, maxZ float32) Span {
	return Span{Min: m.PassIndex(minZ), Max: m.PassIndex(maxZ)}
}

func (m GridMapping) divisor() int {
	if m.PassabilityDivisor < 1 {
		return 1
	}
	return m.PassabilityDivisor
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
