package scene

import (
	gomath "math"

	"github.com/Faultbox/woodland/pkg/math"
)

// Wind perturbs the pivot rotation of wind-affected nodes. Every node samples
// the same global time, so all sway in phase.
type Wind struct {
	Strength  float32   // Max sway angle in radians
	SweepAxis math.Vec3 // Rotation axis in the node frame
}

// DefaultWind returns a gentle sway about +Z.
func DefaultWind() Wind {
	return Wind{Strength: 0.05, SweepAxis: math.AxisZ}
}

// Angle returns the sway angle at time t, in [-Strength, Strength].
func (w Wind) Angle(t float32) float32 {
	return float32(gomath.Sin(float64(t))) * w.Strength
}

// Sway returns the sway rotation at time t.
func (w Wind) Sway(t float32) math.Quat {
	return math.QuatFromAxisAngle(w.SweepAxis, w.Angle(t))
}
