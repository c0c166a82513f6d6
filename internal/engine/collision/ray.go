package collision

import (
	"github.com/Faultbox/woodland/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// NewRay returns a ray from origin along dir. A zero dir yields a zero ray
// that hits nothing.
func NewRay(origin, dir math.Vec3) Ray {
	return Ray{Origin: origin, Direction: dir.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectAABB returns the distance to the box, or false when the ray misses
// it or the box lies behind the origin.
func (r Ray) IntersectAABB(box math.AABB) (float32, bool) {
	if r.Direction == (math.Vec3{}) {
		return 0, false
	}
	return box.IntersectRay(r.Origin, r.Direction)
}

// IntersectPlaneY intersects the ray with a horizontal plane at the given Y level.
func (r Ray) IntersectPlaneY(planeY float32) (math.Vec3, bool) {
	if math.Abs(r.Direction.Y) < 0.001 {
		return math.Vec3{}, false // Parallel to plane
	}
	t := (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return math.Vec3{}, false
	}
	return r.At(t), true
}
