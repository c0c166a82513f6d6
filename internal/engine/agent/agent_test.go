package agent

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/woodland/internal/engine/terrain"
	"github.com/Faultbox/woodland/pkg/math"
)

const eps = 1e-4

// testWorld builds a 4x4 flat heightfield and a 2x2 passability grid with
// cell (0,0) blocked, mapped one world unit per height cell.
func testWorld(t *testing.T) (*terrain.HeightField, *terrain.PassabilityGrid) {
	t.Helper()
	m := terrain.GridMapping{Offset: 0, CellScale: 1, HeightScale: 1, PassabilityDivisor: 2}
	h, err := terrain.Flat(4, 4, 0, m)
	if err != nil {
		t.Fatal(err)
	}
	p, err := terrain.OpenGrid(2, 2, m)
	if err != nil {
		t.Fatal(err)
	}
	p.SetBlocked(0, 0, true)
	return h, p
}

func testSettings() Settings {
	return Settings{
		EyeHeight:   2,
		MaxPitch:    1.2,
		HalfExtents: math.Vec3{X: 0.25, Y: 1, Z: 0.25},
		Area:        Area{MinX: -10, MaxX: 10, MinZ: -10, MaxZ: 10},
	}
}

func TestMove_BlockedCellRejected(t *testing.T) {
	h, p := testWorld(t)
	a := New(h, p, testSettings())
	start := math.Vec3{X: 0.5, Y: 2, Z: 0.5}
	a.SetPosition(start)

	// Stays inside blocked cell (0,0).
	if a.Move(math.Vec3{X: 0.5, Z: 0.5}) {
		t.Error("expected move within blocked cell to be rejected")
	}
	if a.Position() != start {
		t.Errorf("expected position unchanged at %v, got %v", start, a.Position())
	}

	// Lands in open cell (1,1).
	if !a.Move(math.Vec3{X: 2, Z: 2}) {
		t.Fatal("expected move into open cell to succeed")
	}
	want := math.Vec3{X: 2.5, Y: 2, Z: 2.5}
	if !a.Position().ApproxEqual(want, eps) {
		t.Errorf("expected %v, got %v", want, a.Position())
	}
}

func TestMove_RejectionIsAtomic(t *testing.T) {
	h, p := testWorld(t)
	a := New(h, p, testSettings())
	a.SetPosition(math.Vec3{X: 2.5, Y: 2, Z: 2.5})
	a.MarkSafe()

	deltas := []math.Vec3{
		{X: -2, Z: -2},
		{X: -1.5, Y: 5, Z: -1.5},
		{X: -2.4, Z: -2.4},
	}
	for _, d := range deltas {
		before := a.Position()
		beforeBox := a.Bounds()
		if a.Move(d) {
			t.Errorf("delta %v: expected rejection", d)
		}
		if a.Position() != before || a.Bounds() != beforeBox {
			t.Errorf("delta %v: state changed on rejected move", d)
		}
	}
}

func TestMove_OutOfGridRejected(t *testing.T) {
	h, p := testWorld(t)
	a := New(h, p, testSettings())
	a.SetPosition(math.Vec3{X: 2.5, Y: 2, Z: 2.5})

	if a.Move(math.Vec3{X: 5}) {
		t.Error("expected move off the grid to be rejected")
	}
	if a.Move(math.Vec3{Z: -3}) {
		t.Error("expected move to negative coordinates to be rejected")
	}
}

func TestMove_ClampsToArea(t *testing.T) {
	h, p := testWorld(t)
	s := testSettings()
	s.Area = Area{MinX: 0, MaxX: 3.5, MinZ: 0, MaxZ: 3.5}
	a := New(h, p, s)
	a.SetPosition(math.Vec3{X: 2.5, Y: 2, Z: 2.5})

	if !a.Move(math.Vec3{X: 100, Z: 100}) {
		t.Fatal("expected clamped move to succeed")
	}
	if a.Position().X != 3.5 || a.Position().Z != 3.5 {
		t.Errorf("expected clamp to (3.5, 3.5), got %v", a.Position())
	}
}

func TestResampleHeight(t *testing.T) {
	m := terrain.GridMapping{Offset: 0, CellScale: 1, HeightScale: 3, PassabilityDivisor: 2}
	h, err := terrain.Flat(4, 4, 2, m)
	if err != nil {
		t.Fatal(err)
	}
	a := New(h, nil, testSettings())

	a.SetPosition(math.Vec3{X: 1, Y: -50, Z: 1})
	a.ResampleHeight()
	if !approx(a.Position().Y, 8) {
		t.Errorf("expected Y 8, got %v", a.Position().Y)
	}

	// Off-grid keeps Y.
	a.SetPosition(math.Vec3{X: 40, Y: 7, Z: 1})
	a.ResampleHeight()
	if a.Position().Y != 7 {
		t.Errorf("expected Y unchanged at 7, got %v", a.Position().Y)
	}
}

func TestSetView_Basis(t *testing.T) {
	a := New(nil, nil, testSettings())
	a.SetView(math.Vec3{X: 0, Y: 0, Z: 100}, math.Vec3{X: 0, Y: 0, Z: 110}, math.AxisY)

	if !a.Forward().ApproxEqual(math.AxisZ, eps) {
		t.Errorf("expected forward +Z, got %v", a.Forward())
	}
	if !a.Side().ApproxEqual(math.Vec3{X: -1}, eps) {
		t.Errorf("expected side -X, got %v", a.Side())
	}
	if !a.Up().ApproxEqual(math.AxisY, eps) {
		t.Errorf("expected up +Y, got %v", a.Up())
	}
	if a.LastSafe() != a.Position() {
		t.Errorf("expected SetView to mark the position safe")
	}
}

func TestRotate_Yaw(t *testing.T) {
	a := New(nil, nil, testSettings())

	a.Rotate(float32(gomath.Pi/2), 0)
	want := math.Vec3{X: -1}
	if !a.Forward().ApproxEqual(want, eps) {
		t.Errorf("expected forward %v after quarter yaw, got %v", want, a.Forward())
	}
}

func TestRotate_PitchClamped(t *testing.T) {
	a := New(nil, nil, testSettings())

	for i := 0; i < 50; i++ {
		a.Rotate(0, 0.1)
	}
	if !approx(a.Pitch(), 1.2) {
		t.Errorf("expected pitch clamped to 1.2, got %v", a.Pitch())
	}

	for i := 0; i < 100; i++ {
		a.Rotate(0, -0.1)
	}
	if !approx(a.Pitch(), -1.2) {
		t.Errorf("expected pitch clamped to -1.2, got %v", a.Pitch())
	}
}

func TestRotate_PitchStopsShortOfPole(t *testing.T) {
	settings := testSettings()
	settings.MaxPitch = 2
	a := New(nil, nil, settings)

	for i := 0; i < 10; i++ {
		a.Rotate(0, 0.5)
	}
	// asin loses precision near the pole
	if math.Abs(a.Pitch()-PitchLimit) > 1e-3 {
		t.Errorf("expected pitch capped at %v, got %v", PitchLimit, a.Pitch())
	}
	if f := a.Forward(); f.Y <= 0 || f.Z >= 0 {
		t.Errorf("expected view still up and toward -Z, got forward %v", f)
	}

	for i := 0; i < 10; i++ {
		a.Rotate(0, -0.5)
	}
	if math.Abs(a.Pitch()+PitchLimit) > 1e-3 {
		t.Errorf("expected pitch capped at %v, got %v", -PitchLimit, a.Pitch())
	}
	if f := a.Forward(); f.Y >= 0 || f.Z >= 0 {
		t.Errorf("expected view still down and toward -Z, got forward %v", f)
	}
}

func TestRotate_BasisStaysOrthonormal(t *testing.T) {
	a := New(nil, nil, testSettings())

	for i := 0; i < 1000; i++ {
		a.Rotate(0.037, float32(gomath.Sin(float64(i)))*0.05)
	}

	f, s, u := a.Forward(), a.Side(), a.Up()
	for name, v := range map[string]math.Vec3{"forward": f, "side": s, "up": u} {
		if math.Abs(v.Length()-1) > 1e-3 {
			t.Errorf("%s not unit length: %v", name, v.Length())
		}
	}
	if math.Abs(f.Dot(s)) > 1e-3 || math.Abs(f.Dot(u)) > 1e-3 || math.Abs(s.Dot(u)) > 1e-3 {
		t.Errorf("basis not orthogonal: f=%v s=%v u=%v", f, s, u)
	}
	if math.Abs(s.Y) > 1e-3 {
		t.Errorf("side axis should stay horizontal, got %v", s)
	}
	if math.Abs(a.Orientation().Length()-1) > 1e-4 {
		t.Errorf("orientation drifted from unit length: %v", a.Orientation().Length())
	}
}

func TestMoveForwardAndSide(t *testing.T) {
	a := New(nil, nil, testSettings())
	a.SetPosition(math.Vec3{})

	a.MoveForward(2)
	if !a.Position().ApproxEqual(math.Vec3{Z: -2}, eps) {
		t.Errorf("expected (0,0,-2), got %v", a.Position())
	}
	a.MoveSide(1)
	if !a.Position().ApproxEqual(math.Vec3{X: 1, Z: -2}, eps) {
		t.Errorf("expected (1,0,-2), got %v", a.Position())
	}
}

func TestRollback(t *testing.T) {
	a := New(nil, nil, testSettings())
	a.SetPosition(math.Vec3{X: 1, Y: 2, Z: 3})
	a.MarkSafe()
	a.Move(math.Vec3{X: 4})

	a.Rollback()
	if a.Position() != (math.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("expected rollback to (1,2,3), got %v", a.Position())
	}
	want := math.AABBFromCenter(a.Position(), testSettings().HalfExtents)
	if a.Bounds() != want {
		t.Errorf("expected bounds %v, got %v", want, a.Bounds())
	}
}

func TestViewMatrix(t *testing.T) {
	a := New(nil, nil, testSettings())
	a.SetView(math.Vec3{X: 5, Y: 3, Z: 1}, math.Vec3{X: 5, Y: 3, Z: -9}, math.AxisY)
	a.Rotate(0.7, 0.3)

	v := a.ViewMatrix()
	if got := v.TransformPoint(a.Position()); !got.ApproxEqual(math.Vec3{}, eps) {
		t.Errorf("eye should map to origin, got %v", got)
	}
	ahead := a.Position().Add(a.Forward())
	if got := v.TransformPoint(ahead); !got.ApproxEqual(math.Vec3{Z: -1}, 1e-3) {
		t.Errorf("forward should map to -Z, got %v", got)
	}
}

func approx(a, b float32) bool {
	return math.Abs(a-b) < eps
}
