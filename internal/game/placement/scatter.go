package placement

import (
	"math/rand"

	"github.com/Faultbox/woodland/pkg/math"
)

// ScatterGrid lays instances out in rows. Instance i sits at column
// (StepX*i) mod RowWidth; a new row starts whenever that column reaches the
// last slot of a row. Each instance is jittered by up to ±Jitter on x and z
// and clamped to the bounds.
type ScatterGrid struct {
	OriginX  float32 `yaml:"origin_x"`
	OriginZ  float32 `yaml:"origin_z"`
	StepX    int     `yaml:"step_x"`
	StepZ    float32 `yaml:"step_z"`
	RowWidth int     `yaml:"row_width"`
	Jitter   int     `yaml:"jitter"`
	MinX     float32 `yaml:"min_x"`
	MaxX     float32 `yaml:"max_x"`
	MinZ     float32 `yaml:"min_z"`
	MaxZ     float32 `yaml:"max_z"`
}

// DefaultScatterGrid returns the layout covering the shipped forest.
func DefaultScatterGrid() ScatterGrid {
	return ScatterGrid{
		OriginX:  -150,
		OriginZ:  -170,
		StepX:    120,
		StepZ:    60,
		RowWidth: 1800,
		Jitter:   130,
		MinX:     -225,
		MaxX:     1625,
		MinZ:     -215,
		MaxZ:     1591,
	}
}

// Scatter returns the x/z positions of a group's instances. Positions whose
// offset x/z fall inside an ignore area are skipped but still consume their
// grid slot and random draws, so a seed always yields the same layout.
func (g ScatterGrid) Scatter(spec ScatterSpec) []math.Vec3 {
	if spec.Count <= 0 || g.StepX <= 0 || g.RowWidth <= 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(spec.Seed))
	span := 2*g.Jitter + 1

	positions := make([]math.Vec3, 0, spec.Count)
	row := 0
	for i := 0; i < spec.Count; i++ {
		col := (g.StepX * i) % g.RowWidth
		if col >= g.RowWidth-g.StepX {
			row++
		}

		rx := float32(rng.Intn(span) - g.Jitter)
		rz := float32(rng.Intn(span) - g.Jitter)
		x := math.Clamp(g.OriginX+float32(col)+rx, g.MinX, g.MaxX)
		z := math.Clamp(g.OriginZ+g.StepZ*float32(row)+rz, g.MinZ, g.MaxZ)

		if ignored(spec, x, z) {
			continue
		}
		positions = append(positions, math.Vec3{X: x, Z: z})
	}
	return positions
}

func ignored(spec ScatterSpec, x, z float32) bool {
	ox, oz := x+spec.Offset[0], z+spec.Offset[2]
	for _, a := range spec.Ignore {
		if a.Contains(ox, oz) {
			return true
		}
	}
	return false
}
