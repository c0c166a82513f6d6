package math

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min Vec3
	Max Vec3
}

// NewAABB creates an AABB from two corners, swapping components so Min <= Max.
func NewAABB(a, b Vec3) AABB {
	box := AABB{Min: a, Max: b}
	if box.Min.X > box.Max.X {
		box.Min.X, box.Max.X = box.Max.X, box.Min.X
	}
	if box.Min.Y > box.Max.Y {
		box.Min.Y, box.Max.Y = box.Max.Y, box.Min.Y
	}
	if box.Min.Z > box.Max.Z {
		box.Min.Z, box.Max.Z = box.Max.Z, box.Min.Z
	}
	return box
}

// AABBFromCenter returns the box center ± halfExtents.
func AABBFromCenter(center, halfExtents Vec3) AABB {
	return NewAABB(center.Sub(halfExtents), center.Add(halfExtents))
}

// OrientedBounds returns the AABB enclosing a box with the given half-extents
// rotated by q and centered on center.
func OrientedBounds(center, halfExtents Vec3, q Quat) AABB {
	r := q.ToMat4()
	// Projected radius on each world axis is sum |R_ij| * h_j.
	ext := Vec3{
		Abs(r[0])*halfExtents.X + Abs(r[4])*halfExtents.Y + Abs(r[8])*halfExtents.Z,
		Abs(r[1])*halfExtents.X + Abs(r[5])*halfExtents.Y + Abs(r[9])*halfExtents.Z,
		Abs(r[2])*halfExtents.X + Abs(r[6])*halfExtents.Y + Abs(r[10])*halfExtents.Z,
	}
	return AABB{Min: center.Sub(ext), Max: center.Add(ext)}
}

// Overlaps reports whether two boxes intersect on all three axes.
// Touching faces count as overlap.
func (b AABB) Overlaps(other AABB) bool {
	if b.Max.X < other.Min.X || b.Min.X > other.Max.X {
		return false
	}
	if b.Max.Y < other.Min.Y || b.Min.Y > other.Max.Y {
		return false
	}
	if b.Max.Z < other.Min.Z || b.Min.Z > other.Max.Z {
		return false
	}
	return true
}

// Contains reports whether p lies inside the box (inclusive).
func (b AABB) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Center returns the box midpoint.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// IntersectRay returns the distance along dir (normalized) at which a ray from
// origin enters the box, or the exit distance when origin is inside.
func (b AABB) IntersectRay(origin, dir Vec3) (float32, bool) {
	tmin := float32(-1e30)
	tmax := float32(1e30)

	o := [3]float32{origin.X, origin.Y, origin.Z}
	d := [3]float32{dir.X, dir.Y, dir.Z}
	lo := [3]float32{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float32{b.Max.X, b.Max.Y, b.Max.Z}

	for i := 0; i < 3; i++ {
		if d[i] != 0 {
			t1 := (lo[i] - o[i]) / d[i]
			t2 := (hi[i] - o[i]) / d[i]
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t1 > tmin {
				tmin = t1
			}
			if t2 < tmax {
				tmax = t2
			}
		} else if o[i] < lo[i] || o[i] > hi[i] {
			return 0, false
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}
