package terrain

import (
	"errors"
	"fmt"

	"github.com/Faultbox/woodland/pkg/formats"
	"github.com/Faultbox/woodland/pkg/math"
)

// Grid errors.
var (
	ErrInvalidDimensions = errors.New("invalid grid dimensions")
	ErrSampleCount       = errors.New("sample count does not match dimensions")
)

// HeightField is a row-major grid of elevation samples.
// Columns run along world x and rows along world z.
type HeightField struct {
	Width   int
	Depth   int
	Mapping GridMapping

	samples []float32
}

// NewHeightField wraps samples (row-major, len width*depth) in a HeightField.
// The slice is owned by the HeightField afterwards.
func NewHeightField(width, depth int, samples []float32, mapping GridMapping) (*HeightField, error) {
	if width <= 0 || depth <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, depth)
	}
	if len(samples) != width*depth {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrSampleCount, len(samples), width*depth)
	}
	return &HeightField{Width: width, Depth: depth, Mapping: mapping, samples: samples}, nil
}

// HeightFieldFromData builds a HeightField from a parsed heightfield file.
func HeightFieldFromData(data *formats.HeightFieldData, mapping GridMapping) (*HeightField, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: no data", ErrInvalidDimensions)
	}
	return NewHeightField(data.Width, data.Depth, data.Samples, mapping)
}

// Flat returns a HeightField with every sample set to elevation.
func Flat(width, depth int, elevation float32, mapping GridMapping) (*HeightField, error) {
	if width <= 0 || depth <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, depth)
	}
	samples := make([]float32, width*depth)
	for i := range samples {
		samples[i] = elevation
	}
	return NewHeightField(width, depth, samples, mapping)
}

// InBounds reports whether (col, row) addresses a sample.
func (h *HeightField) InBounds(col, row int) bool {
	return col >= 0 && row >= 0 && col < h.Width && row < h.Depth
}

// At returns the raw sample at (col, row), or 0 when out of bounds.
func (h *HeightField) At(col, row int) float32 {
	if !h.InBounds(col, row) {
		return 0
	}
	return h.samples[row*h.Width+col]
}

// Set overwrites the raw sample at (col, row). Out-of-bounds writes are ignored.
func (h *HeightField) Set(col, row int, v float32) {
	if h.InBounds(col, row) {
		h.samples[row*h.Width+col] = v
	}
}

// Range returns the minimum and maximum raw sample.
func (h *HeightField) Range() (float32, float32) {
	lo, hi := h.samples[0], h.samples[0]
	for _, v := range h.samples[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Sample returns the bilinearly interpolated elevation at world (x, z),
// scaled by the mapping's HeightScale and summed with offset.
// ok is false when any of the four corner samples lies outside the grid.
func (h *HeightField) Sample(x, z, offset float32) (float32, bool) {
	fx := h.Mapping.Fractional(x)
	fz := h.Mapping.Fractional(z)

	x1, x2 := math.Floor(fx), math.Ceil(fx)
	z1, z2 := math.Floor(fz), math.Ceil(fz)
	if !h.InBounds(x1, z1) || !h.InBounds(x2, z2) {
		return 0, false
	}

	p1 := h.samples[z1*h.Width+x1]
	p2 := h.samples[z1*h.Width+x2]
	p3 := h.samples[z2*h.Width+x1]
	p4 := h.samples[z2*h.Width+x2]

	s := fx - float32(x1)
	t := fz - float32(z1)

	v := (1-t)*((1-s)*p1+s*p2) + t*((1-s)*p3+s*p4)
	return v*h.Mapping.HeightScale + offset, true
}

// ClampToGround returns pos with Y set to the sampled elevation plus offset.
// Positions outside the grid are returned unchanged.
func (h *HeightField) ClampToGround(pos math.Vec3, offset float32) math.Vec3 {
	if y, ok := h.Sample(pos.X, pos.Z, offset); ok {
		pos.Y = y
	}
	return pos
}

// CarveCorridor overwrites the columns around world x across rows with a
// raw elevation, and returns the world x at which a bridging object should
// be placed. Cells outside the grid are skipped.
func (h *HeightField) CarveCorridor(x float32, rows Span, elevation float32) float32 {
	fx := h.Mapping.Fractional(x)
	x1, x2 := math.Floor(fx), math.Ceil(fx)

	for row := rows.Min; row <= rows.Max; row++ {
		for col := x1; col <= x2; col++ {
			h.Set(col, row, elevation)
		}
	}

	return h.Mapping.World(float32(x1+x2) / 2)
}

// Data returns the grid in file form, sharing the sample slice.
func (h *HeightField) Data() *formats.HeightFieldData {
	return &formats.HeightFieldData{Width: h.Width, Depth: h.Depth, Samples: h.samples}
}
