package collision

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/woodland/internal/engine/agent"
	"github.com/Faultbox/woodland/pkg/math"
)

const eps = 1e-4

func newAgent(t *testing.T, pos math.Vec3) *agent.Agent {
	t.Helper()
	s := agent.DefaultSettings()
	s.HalfExtents = math.Vec3{X: 1, Y: 1, Z: 1}
	s.Area = agent.Area{MinX: -1000, MaxX: 1000, MinZ: -1000, MaxZ: 1000}
	a := agent.New(nil, nil, s)
	a.SetView(pos, pos.Add(math.Vec3{Z: -1}), math.AxisY)
	return a
}

func TestEntityBounds(t *testing.T) {
	e := NewEntity("rock", math.Vec3{X: 10, Y: 0, Z: 10})
	b := e.Bounds()
	if !b.Min.ApproxEqual(math.Vec3{X: 3, Y: -10, Z: 3}, eps) || !b.Max.ApproxEqual(math.Vec3{X: 17, Y: 10, Z: 17}, eps) {
		t.Errorf("unexpected bounds %v", b)
	}

	e.HalfExtents = math.Vec3{X: 4, Y: 1, Z: 1}
	e.Orientation = math.QuatFromAxisAngle(math.AxisY, gomath.Pi/2)
	b = e.Bounds()
	if !b.Max.ApproxEqual(math.Vec3{X: 11, Y: 1, Z: 14}, eps) {
		t.Errorf("expected rotated extents to swap x and z, got %v", b)
	}

	// Zero-value orientation is treated as identity.
	var z Entity
	z.HalfExtents = math.Vec3{X: 1, Y: 1, Z: 1}
	if b := z.Bounds(); !b.Max.ApproxEqual(math.Vec3{X: 1, Y: 1, Z: 1}, eps) {
		t.Errorf("expected unit box, got %v", b)
	}
}

// The agent's box overlaps an entity on x and z but sits above it on y.
func TestTestAndResolve_RequiresAllAxes(t *testing.T) {
	s := NewSet()
	s.Add(NewEntity("crate", math.Vec3{}))

	a := newAgent(t, math.Vec3{Y: 50})
	if s.TestAndResolve(a) {
		t.Error("expected no collision when separated on y")
	}
}

func TestTestAndResolve_RollsBack(t *testing.T) {
	s := NewSet()
	s.Add(NewEntity("crate", math.Vec3{X: 20}))

	start := math.Vec3{}
	a := newAgent(t, start)

	a.SetPosition(math.Vec3{X: 13})
	if !s.TestAndResolve(a) {
		t.Fatal("expected collision")
	}
	if a.Position() != start {
		t.Errorf("expected rollback to %v, got %v", start, a.Position())
	}
	if a.LastSafe() != start {
		t.Errorf("expected safe position %v, got %v", start, a.LastSafe())
	}

	// Resolving again from the restored position is a no-op.
	if s.TestAndResolve(a) {
		t.Error("expected restored position to be clear")
	}
	if a.Position() != start {
		t.Errorf("expected %v, got %v", start, a.Position())
	}
}

func TestTestAndResolve_MarksSafeWhenClear(t *testing.T) {
	s := NewSet()
	s.Add(NewEntity("crate", math.Vec3{X: 100}))

	a := newAgent(t, math.Vec3{})
	a.SetPosition(math.Vec3{X: 5})
	if s.TestAndResolve(a) {
		t.Fatal("expected no collision")
	}
	if a.LastSafe() != (math.Vec3{X: 5}) {
		t.Errorf("expected safe position updated, got %v", a.LastSafe())
	}
}

func TestTestAndResolve_TouchingCounts(t *testing.T) {
	s := NewSet()
	s.Add(NewEntity("crate", math.Vec3{X: 8}))

	// Agent max x = 1, crate min x = 1.
	a := newAgent(t, math.Vec3{X: -5})
	a.SetPosition(math.Vec3{})
	if !s.TestAndResolve(a) {
		t.Error("expected touching faces to collide")
	}
}

type countingBody struct {
	box                  math.AABB
	rollbacks, markSafes int
}

func (b *countingBody) RefreshBounds() math.AABB { return b.box }
func (b *countingBody) Rollback()                { b.rollbacks++ }
func (b *countingBody) MarkSafe()                { b.markSafes++ }

func TestTestAndResolve_StopsAtFirstHit(t *testing.T) {
	s := NewSet()
	s.Add(NewEntity("a", math.Vec3{}))
	s.Add(NewEntity("b", math.Vec3{X: 1}))

	b := &countingBody{box: math.AABBFromCenter(math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1})}
	if !s.TestAndResolve(b) {
		t.Fatal("expected collision")
	}
	if b.rollbacks != 1 {
		t.Errorf("expected 1 rollback, got %d", b.rollbacks)
	}
	if b.markSafes != 1 {
		t.Errorf("expected 1 MarkSafe, got %d", b.markSafes)
	}
}

func TestSet_AddRemove(t *testing.T) {
	s := NewSet()
	s.Add(NewEntity("door", math.Vec3{}))
	s.Add(NewEntity("tree", math.Vec3{X: 50}))

	if s.Len() != 2 {
		t.Fatalf("expected 2 entities, got %d", s.Len())
	}
	if !s.Remove("door") {
		t.Error("expected door removed")
	}
	if s.Remove("door") {
		t.Error("expected second remove to fail")
	}
	if _, ok := s.Find("door"); ok {
		t.Error("door should be gone")
	}
	if got := s.Entities(); len(got) != 1 || got[0].Name != "tree" {
		t.Errorf("unexpected entities %v", got)
	}

	// Entities returns a copy.
	es := s.Entities()
	es[0].Name = "changed"
	if e, _ := s.Find("tree"); e.Name != "tree" {
		t.Error("Entities must not alias internal storage")
	}
}

func TestSet_Overlapping(t *testing.T) {
	s := NewSet()
	s.Add(NewEntity("a", math.Vec3{}))
	s.Add(NewEntity("b", math.Vec3{X: 10}))
	s.Add(NewEntity("c", math.Vec3{X: 100}))

	got := s.Overlapping(math.AABBFromCenter(math.Vec3{X: 5}, math.Vec3{X: 1, Y: 1, Z: 1}))
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("expected [a b], got %v", got)
	}
}

func TestRaycast(t *testing.T) {
	s := NewSet()
	s.Add(NewEntity("far", math.Vec3{Z: -100}))
	s.Add(NewEntity("near", math.Vec3{Z: -30}))

	tests := []struct {
		name     string
		dir      math.Vec3
		maxDist  float32
		wantName string
		wantDist float32
		wantOK   bool
	}{
		{"nearest wins", math.Vec3{Z: -1}, 200, "near", 23, true},
		{"out of reach", math.Vec3{Z: -1}, 20, "", 0, false},
		{"behind", math.Vec3{Z: 1}, 200, "", 0, false},
		{"unnormalized dir", math.Vec3{Z: -5}, 200, "near", 23, true},
		{"zero dir", math.Vec3{}, 200, "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, dist, ok := s.Raycast(math.Vec3{}, tt.dir, tt.maxDist)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if !ok {
				return
			}
			if name != tt.wantName {
				t.Errorf("expected %q, got %q", tt.wantName, name)
			}
			if math.Abs(dist-tt.wantDist) > eps {
				t.Errorf("expected distance %f, got %f", tt.wantDist, dist)
			}
		})
	}
}

func TestRay_IntersectPlaneY(t *testing.T) {
	r := NewRay(math.Vec3{Y: 10}, math.Vec3{X: 1, Y: -1})
	p, ok := r.IntersectPlaneY(0)
	if !ok || !p.ApproxEqual(math.Vec3{X: 10}, eps) {
		t.Errorf("expected (10,0,0), got %v ok=%v", p, ok)
	}

	if _, ok := NewRay(math.Vec3{}, math.Vec3{X: 1}).IntersectPlaneY(5); ok {
		t.Error("expected parallel ray to miss")
	}
	if _, ok := NewRay(math.Vec3{}, math.Vec3{Y: -1}).IntersectPlaneY(5); ok {
		t.Error("expected plane behind origin to miss")
	}
}
