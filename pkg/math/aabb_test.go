package math

import (
	"math"
	"testing"
)

func TestNewAABBSwaps(t *testing.T) {
	b := NewAABB(Vec3{X: 1, Y: 1, Z: 1}, Vec3{X: -1, Y: -1, Z: -1})
	if b.Min != (Vec3{X: -1, Y: -1, Z: -1}) || b.Max != (Vec3{X: 1, Y: 1, Z: 1}) {
		t.Errorf("expected swapped corners, got %v", b)
	}
}

func TestAABBOverlaps(t *testing.T) {
	a := AABBFromCenter(Vec3{}, Vec3{X: 1, Y: 1, Z: 1})

	tests := []struct {
		name   string
		other  AABB
		expect bool
	}{
		{"same", a, true},
		{"touching", AABBFromCenter(Vec3{X: 2}, Vec3{X: 1, Y: 1, Z: 1}), true},
		{"apart on x", AABBFromCenter(Vec3{X: 3}, Vec3{X: 1, Y: 1, Z: 1}), false},
		{"apart on y only", AABBFromCenter(Vec3{Y: 3}, Vec3{X: 1, Y: 1, Z: 1}), false},
		{"apart on z only", AABBFromCenter(Vec3{Z: -3}, Vec3{X: 1, Y: 1, Z: 1}), false},
		{"contained", AABBFromCenter(Vec3{}, Vec3{X: 0.1, Y: 0.1, Z: 0.1}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.other); got != tt.expect {
				t.Errorf("expected %v, got %v", tt.expect, got)
			}
			if got := tt.other.Overlaps(a); got != tt.expect {
				t.Errorf("overlap should be symmetric: expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestOrientedBounds(t *testing.T) {
	h := Vec3{X: 2, Y: 1, Z: 1}

	b := OrientedBounds(Vec3{}, h, QuatIdentity())
	if !b.Max.ApproxEqual(h, 0.0001) {
		t.Errorf("identity orientation: expected max %v, got %v", h, b.Max)
	}

	// Quarter turn about Y swaps the X and Z extents.
	b = OrientedBounds(Vec3{}, h, QuatFromAxisAngle(AxisY, float32(math.Pi/2)))
	want := Vec3{X: 1, Y: 1, Z: 2}
	if !b.Max.ApproxEqual(want, 0.0001) {
		t.Errorf("rotated: expected max %v, got %v", want, b.Max)
	}
}

func TestAABBIntersectRay(t *testing.T) {
	box := AABBFromCenter(Vec3{Z: -10}, Vec3{X: 1, Y: 1, Z: 1})

	d, ok := box.IntersectRay(Vec3{}, Vec3{Z: -1})
	if !ok {
		t.Fatal("expected hit")
	}
	if math.Abs(float64(d-9)) > 0.0001 {
		t.Errorf("expected distance 9, got %v", d)
	}

	if _, ok := box.IntersectRay(Vec3{}, Vec3{Z: 1}); ok {
		t.Error("ray pointing away should miss")
	}
	if _, ok := box.IntersectRay(Vec3{X: 5}, Vec3{Z: -1}); ok {
		t.Error("parallel ray outside slab should miss")
	}

	// Origin inside returns exit distance.
	d, ok = box.IntersectRay(Vec3{Z: -10}, Vec3{Z: -1})
	if !ok || math.Abs(float64(d-1)) > 0.0001 {
		t.Errorf("inside: expected exit at 1, got %v (%v)", d, ok)
	}
}

func TestAABBContains(t *testing.T) {
	b := AABBFromCenter(Vec3{}, Vec3{X: 1, Y: 1, Z: 1})
	if !b.Contains(Vec3{X: 1}) {
		t.Error("boundary point should be contained")
	}
	if b.Contains(Vec3{X: 1.01}) {
		t.Error("outside point should not be contained")
	}
	if b.Center() != (Vec3{}) {
		t.Errorf("expected center at origin, got %v", b.Center())
	}
}
